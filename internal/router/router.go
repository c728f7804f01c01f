// Package router orchestrates a chat turn across the classifier, the flow
// machines, and the knowledge path.
//
// Each turn resolves through a strict priority order:
//  1. human handoff triggers
//  2. an active multi-step flow on the session
//  3. fresh transactional intent
//  4. knowledge base answer
//
// All business errors are contained here: Route always returns a renderable
// result, degrading to apology text when a collaborator fails.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/instalogic/sitebot/internal/enrich"
	"github.com/instalogic/sitebot/internal/flow"
	"github.com/instalogic/sitebot/internal/intent"
	"github.com/instalogic/sitebot/internal/kb"
	"github.com/instalogic/sitebot/internal/models"
	"github.com/instalogic/sitebot/internal/notify"
	"github.com/instalogic/sitebot/internal/session"
	"github.com/instalogic/sitebot/internal/util"
)

// DefaultKnowledgeTimeout bounds the retrieval-plus-generation path per turn.
const DefaultKnowledgeTimeout = 30 * time.Second

// knowledgeSystemPrompt keeps generated answers short and first-person.
const knowledgeSystemPrompt = `You are InstaLogic's AI assistant. You represent the company directly.

CRITICAL RULES:
1. Speak in FIRST PERSON - use "we", "our", "us" (NOT "InstaLogic's")
2. NEVER say "Based on the context provided" or similar phrases
3. Keep responses SHORT (2-3 sentences max)
4. Use bullet points for lists (max 4 items)
5. Be natural and conversational

Examples:
❌ BAD: "InstaLogic's services include..." or "Based on the context..."
✅ GOOD: "We offer..." or "Our services include..."

Be brief, warm, and professional.`

const apologyReply = "I apologize, but I'm having trouble answering right now. Please try again in a moment."

// Retriever is the knowledge base dependency.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) kb.Result
}

// Generator is the completion dependency.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Opts holds configuration options for the router.
type Opts struct {
	KnowledgeTimeout time.Duration
	Notifier         notify.Notifier
}

// Option defines a functional option for router configuration.
type Option func(*Opts)

// WithKnowledgeTimeout bounds the knowledge path. Zero keeps the default.
func WithKnowledgeTimeout(d time.Duration) Option {
	return func(o *Opts) { o.KnowledgeTimeout = d }
}

// WithNotifier wires an escalation notifier. Alerts are best effort; a nil
// notifier disables them.
func WithNotifier(n notify.Notifier) Option {
	return func(o *Opts) { o.Notifier = n }
}

// Router resolves chat turns.
type Router struct {
	classifier intent.Classifier
	sessions   *session.Store
	flows      *flow.Registry
	retriever  Retriever
	generator  Generator
	leads      flow.LeadSink
	notifier   notify.Notifier
	kbTimeout  time.Duration
}

// New builds a router over its collaborators.
func New(classifier intent.Classifier, sessions *session.Store, flows *flow.Registry,
	retriever Retriever, generator Generator, leads flow.LeadSink, opts ...Option) *Router {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	timeout := cfg.KnowledgeTimeout
	if timeout <= 0 {
		timeout = DefaultKnowledgeTimeout
	}
	return &Router{
		classifier: classifier,
		sessions:   sessions,
		flows:      flows,
		retriever:  retriever,
		generator:  generator,
		leads:      leads,
		notifier:   cfg.Notifier,
		kbTimeout:  timeout,
	}
}

// Route resolves one chat turn through the priority order.
func (r *Router) Route(ctx context.Context, sessionID, message string) models.RoutedResult {
	slog.Debug("Router routing message", "session_id", sessionID, "length", len(message))

	// Priority 1: human handoff.
	if r.classifier.Handoff(message) {
		return r.escalate(ctx, sessionID, message)
	}

	// Priority 2: an active flow owns the turn.
	sess := r.sessions.GetOrCreate(sessionID)
	if sess.State != models.StateIdle {
		if f, ok := r.flows.ForState(sess.State); ok {
			slog.Debug("Router continuing active flow", "session_id", sessionID, "flow", f.Type(), "state", sess.State)
			return f.Advance(sessionID, message)
		}
		// A state tag no flow owns. Reset and fall through to knowledge.
		slog.Error("Router found unowned session state, clearing", "session_id", sessionID, "state", sess.State)
		r.sessions.Clear(sessionID)
	}

	// Priority 3: fresh transactional intent.
	if ft, ok := r.classifier.Transactional(message); ok {
		if f, ok := r.flows.Get(ft); ok {
			slog.Info("Router starting flow", "session_id", sessionID, "flow", ft)
			return f.Advance(sessionID, message)
		}
	}

	// Priority 4: knowledge base.
	return r.answerFromKnowledge(ctx, sessionID, message)
}

// escalate handles a handoff: ticket, lead, best-effort alert, session reset.
func (r *Router) escalate(ctx context.Context, sessionID, query string) models.RoutedResult {
	ticketID := util.GenerateTicketID()

	if r.leads != nil {
		if _, err := r.leads.SaveLead(models.NewHandoffLead(query, ticketID)); err != nil {
			slog.Error("Router handoff lead save failed", "error", err, "ticket_id", ticketID)
		}
	}
	if r.notifier != nil {
		if err := r.notifier.NotifyHandoff(ctx, ticketID, sessionID, query); err != nil {
			slog.Error("Router handoff alert failed", "error", err, "ticket_id", ticketID)
		}
	}
	r.sessions.Clear(sessionID)
	slog.Info("Router escalated to human", "session_id", sessionID, "ticket_id", ticketID)

	return models.RoutedResult{
		Kind:     models.RouteKindHandoff,
		Reply:    "I understand you'd like to speak with a human agent. Let me connect you with our support team right away.",
		TicketID: ticketID,
		Payload: &models.RichPayload{
			Buttons: []models.Button{
				{Label: "📞 Call Us", Action: models.ActionShowPhone, Value: "+1-XXX-XXX-XXXX"},
				{Label: "✉️ Email Us", Action: models.ActionShowEmail, Value: "support@instalogic.in"},
			},
			Message: fmt.Sprintf("Your escalation ticket ID is **%s**. A team member will contact you shortly.", ticketID),
		},
		Metadata: map[string]string{
			"escalation_reason": "user_request",
			"original_query":    query,
			"priority":          "high",
		},
	}
}

// answerFromKnowledge retrieves grounding context, generates an answer, and
// enriches it with topic buttons.
func (r *Router) answerFromKnowledge(ctx context.Context, sessionID, query string) models.RoutedResult {
	ctx, cancel := context.WithTimeout(ctx, r.kbTimeout)
	defer cancel()

	var retrieved kb.Result
	if r.retriever != nil {
		retrieved = r.retriever.Retrieve(ctx, query, kb.DefaultTopK)
	}

	systemPrompt := kb.EnhancePrompt(knowledgeSystemPrompt, retrieved.Context)
	answer, err := r.generator.Generate(ctx, systemPrompt, query)
	if err != nil {
		slog.Error("Router knowledge generation failed", "error", err, "session_id", sessionID)
		answer = apologyReply
	}

	enrichment := enrich.Enrich(query, answer)
	payload := &models.RichPayload{
		Buttons: enrichment.Buttons,
		Message: enrichment.Message,
	}

	return models.RoutedResult{
		Kind:    models.RouteKindKnowledge,
		Reply:   answer,
		Sources: retrieved.Sources,
		Payload: payload,
		Metadata: map[string]string{
			"kb_used":      strconv.FormatBool(retrieved.Context != ""),
			"source_count": strconv.Itoa(len(retrieved.Sources)),
		},
	}
}
