package router

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/instalogic/sitebot/internal/flow"
	"github.com/instalogic/sitebot/internal/intent"
	"github.com/instalogic/sitebot/internal/kb"
	"github.com/instalogic/sitebot/internal/models"
	"github.com/instalogic/sitebot/internal/notify"
	"github.com/instalogic/sitebot/internal/session"
)

// stubRetriever returns a fixed result.
type stubRetriever struct {
	result kb.Result
	calls  int
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string, k int) kb.Result {
	s.calls++
	return s.result
}

// stubGenerator returns a fixed answer or error.
type stubGenerator struct {
	answer string
	err    error
	calls  int
}

func (s *stubGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

// recordingSink captures saved leads.
type recordingSink struct {
	leads []models.Lead
}

func (r *recordingSink) SaveLead(lead models.Lead) (int64, error) {
	r.leads = append(r.leads, lead)
	return int64(len(r.leads)), nil
}

type fixture struct {
	router    *Router
	sessions  *session.Store
	sink      *recordingSink
	retriever *stubRetriever
	generator *stubGenerator
	notifier  *notify.MockNotifier
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	sessions := session.NewStore()
	sink := &recordingSink{}
	flows := flow.NewRegistry(
		flow.NewDemoFlow(sessions, sink),
		flow.NewCareerFlow(sessions, sink),
		flow.NewRFPFlow(sessions, sink),
		flow.NewContactFlow(sessions, sink),
	)
	retriever := &stubRetriever{result: kb.Result{
		Context: "We offer BI dashboards.",
		Sources: []string{"https://www.instalogic.in/our-services/"},
	}}
	generator := &stubGenerator{answer: "We offer BI dashboards and analytics."}
	notifier := notify.NewMockNotifier()
	opts = append(opts, WithNotifier(notifier))
	r := New(intent.NewRegexClassifier(), sessions, flows, retriever, generator, sink, opts...)
	return &fixture{router: r, sessions: sessions, sink: sink, retriever: retriever, generator: generator, notifier: notifier}
}

func TestRouteHandoff(t *testing.T) {
	fx := newFixture(t)
	res := fx.router.Route(context.Background(), "sess-1", "I need to speak to a human")

	if res.Kind != models.RouteKindHandoff {
		t.Fatalf("kind = %q, want handoff", res.Kind)
	}
	if len(res.TicketID) != 8 {
		t.Errorf("ticket id = %q, want 8 characters", res.TicketID)
	}
	if res.Payload == nil || !strings.Contains(res.Payload.Message, res.TicketID) {
		t.Error("payload message missing ticket id")
	}
	if res.Metadata["priority"] != "high" || res.Metadata["original_query"] == "" {
		t.Errorf("metadata = %v", res.Metadata)
	}

	if len(fx.sink.leads) != 1 {
		t.Fatalf("got %d leads, want 1", len(fx.sink.leads))
	}
	if fx.sink.leads[0].Type != models.LeadTypeHumanHandoff {
		t.Errorf("lead type = %q", fx.sink.leads[0].Type)
	}
	if len(fx.notifier.Alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(fx.notifier.Alerts))
	}
	if fx.notifier.Alerts[0].TicketID != res.TicketID {
		t.Error("alert ticket id mismatch")
	}
}

func TestRouteHandoffBeatsActiveFlow(t *testing.T) {
	fx := newFixture(t)
	const sid = "sess-2"

	// Put the session mid-demo.
	fx.router.Route(context.Background(), sid, "I want to book a demo")
	if st := fx.sessions.GetOrCreate(sid).State; st != models.StateDemoAwaitingIndustry {
		t.Fatalf("setup state = %q", st)
	}

	res := fx.router.Route(context.Background(), sid, "this is an urgent issue, escalate")
	if res.Kind != models.RouteKindHandoff {
		t.Fatalf("kind = %q, want handoff", res.Kind)
	}
	// Escalation clears the active flow.
	if st := fx.sessions.GetOrCreate(sid).State; st != models.StateIdle {
		t.Errorf("state after handoff = %q, want idle", st)
	}
}

func TestRouteHandoffAlertFailureIsNonFatal(t *testing.T) {
	fx := newFixture(t)
	fx.notifier.Err = errors.New("twilio down")
	res := fx.router.Route(context.Background(), "sess-3", "escalate this please")
	if res.Kind != models.RouteKindHandoff {
		t.Errorf("kind = %q, want handoff despite alert failure", res.Kind)
	}
}

func TestRouteActiveFlowOwnsTurn(t *testing.T) {
	fx := newFixture(t)
	const sid = "sess-4"

	fx.router.Route(context.Background(), sid, "I want to book a demo")
	// "what services do you offer" would be a knowledge query, but the active
	// flow consumes it as the industry answer.
	res := fx.router.Route(context.Background(), sid, "Finance")
	if res.Kind != models.RouteKindTransaction || res.Flow != models.FlowTypeDemo {
		t.Fatalf("result = %q/%q, want demo transaction", res.Kind, res.Flow)
	}
	if res.Step != 2 {
		t.Errorf("step = %d, want 2", res.Step)
	}
	if fx.generator.calls != 0 {
		t.Error("generator was called during an active flow")
	}
}

func TestRouteTransactionalIntentStartsFlow(t *testing.T) {
	fx := newFixture(t)
	res := fx.router.Route(context.Background(), "sess-5", "can we schedule a call")
	if res.Kind != models.RouteKindTransaction || res.Flow != models.FlowTypeContact {
		t.Fatalf("result = %q/%q, want contact transaction", res.Kind, res.Flow)
	}
	if res.Step != 1 {
		t.Errorf("step = %d, want 1", res.Step)
	}
}

func TestRouteKnowledgePath(t *testing.T) {
	fx := newFixture(t)
	res := fx.router.Route(context.Background(), "sess-6", "what industries do you serve")

	if res.Kind != models.RouteKindKnowledge {
		t.Fatalf("kind = %q, want knowledge", res.Kind)
	}
	if res.Reply != "We offer BI dashboards and analytics." {
		t.Errorf("reply = %q", res.Reply)
	}
	if len(res.Sources) != 1 {
		t.Errorf("sources = %v", res.Sources)
	}
	if res.Metadata["kb_used"] != "true" || res.Metadata["source_count"] != "1" {
		t.Errorf("metadata = %v", res.Metadata)
	}
	if res.Payload == nil || len(res.Payload.Buttons) == 0 {
		t.Error("knowledge reply missing enrichment buttons")
	}
	if fx.retriever.calls != 1 || fx.generator.calls != 1 {
		t.Errorf("collaborator calls = retriever %d generator %d", fx.retriever.calls, fx.generator.calls)
	}
}

func TestRouteKnowledgeGenerationFailureDegrades(t *testing.T) {
	fx := newFixture(t)
	fx.generator.err = errors.New("model unavailable")
	res := fx.router.Route(context.Background(), "sess-7", "tell me about pricing")

	if res.Kind != models.RouteKindKnowledge {
		t.Fatalf("kind = %q, want knowledge", res.Kind)
	}
	if !strings.Contains(res.Reply, "apologize") {
		t.Errorf("reply = %q, want apology", res.Reply)
	}
	if res.Payload == nil || len(res.Payload.Buttons) == 0 {
		t.Error("degraded reply missing buttons")
	}
}

func TestRouteEmptyRetrievalMetadata(t *testing.T) {
	fx := newFixture(t)
	fx.retriever.result = kb.Result{}
	res := fx.router.Route(context.Background(), "sess-8", "random question")
	if res.Metadata["kb_used"] != "false" || res.Metadata["source_count"] != "0" {
		t.Errorf("metadata = %v", res.Metadata)
	}
	if len(res.Sources) != 0 {
		t.Errorf("sources = %v", res.Sources)
	}
}

func TestRouteUnownedStateFallsToKnowledge(t *testing.T) {
	fx := newFixture(t)
	const sid = "sess-9"
	fx.sessions.Update(sid, "legacy_awaiting_thing", nil)

	res := fx.router.Route(context.Background(), sid, "what do you do")
	if res.Kind != models.RouteKindKnowledge {
		t.Fatalf("kind = %q, want knowledge", res.Kind)
	}
	if st := fx.sessions.GetOrCreate(sid).State; st != models.StateIdle {
		t.Errorf("unowned state not cleared: %q", st)
	}
}

func TestRouteCompletedFlowSavesSingleLead(t *testing.T) {
	fx := newFixture(t)
	const sid = "sess-10"

	inputs := []string{"I want to book a demo", "Finance", "Jane Doe", "jane@co.com", "+1234567890", "Referral", "2025-12-01 3pm"}
	var last models.RoutedResult
	for _, in := range inputs {
		last = fx.router.Route(context.Background(), sid, in)
	}
	if !last.Completed {
		t.Fatal("flow did not complete")
	}
	if len(fx.sink.leads) != 1 {
		t.Errorf("got %d leads, want exactly 1", len(fx.sink.leads))
	}

	// The next turn routes to knowledge again.
	res := fx.router.Route(context.Background(), sid, "what are your services")
	if res.Kind != models.RouteKindKnowledge {
		t.Errorf("post-completion kind = %q, want knowledge", res.Kind)
	}
}

func TestKnowledgeTimeoutOption(t *testing.T) {
	fx := newFixture(t, WithKnowledgeTimeout(10*time.Millisecond))
	if fx.router.kbTimeout != 10*time.Millisecond {
		t.Errorf("timeout = %v", fx.router.kbTimeout)
	}
}
