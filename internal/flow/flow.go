// Package flow implements the multi-step transactional conversations: demo
// booking, career application, RFP submission, and contact requests.
//
// Each flow is a small state machine over the shared session store. A flow
// turn reads the session's current state, interprets the visitor's input for
// that state, persists the collected field, and returns the next prompt. The
// final step generates a ticket ID, persists a lead through the LeadSink, and
// clears the session.
package flow

import (
	"log/slog"
	"strings"

	"github.com/instalogic/sitebot/internal/models"
)

// LeadSink persists completed-flow leads. Satisfied by store.Store.
type LeadSink interface {
	SaveLead(lead models.Lead) (int64, error)
}

// Flow is one multi-step conversation machine.
type Flow interface {
	// Type identifies the flow.
	Type() models.FlowType
	// Advance consumes one visitor input and returns the next turn. Starting a
	// flow is an Advance from the idle state.
	Advance(sessionID, input string) models.RoutedResult
}

// Registry maps flow types to their machines and dispatches mid-flow turns by
// session state prefix.
type Registry struct {
	flows map[models.FlowType]Flow
}

// NewRegistry builds a registry over the given flows.
func NewRegistry(flows ...Flow) *Registry {
	r := &Registry{flows: make(map[models.FlowType]Flow, len(flows))}
	for _, f := range flows {
		r.flows[f.Type()] = f
	}
	return r
}

// Get returns the flow for a flow type.
func (r *Registry) Get(ft models.FlowType) (Flow, bool) {
	f, ok := r.flows[ft]
	return f, ok
}

// ForState resolves the flow owning a session state, if any.
func (r *Registry) ForState(st models.StateType) (Flow, bool) {
	ft, ok := models.FlowTypeForState(st)
	if !ok {
		return nil, false
	}
	return r.Get(ft)
}

// saveLead persists a lead, logging rather than failing the turn: the visitor
// already got their confirmation and the ticket ID is in the reply.
func saveLead(sink LeadSink, lead models.Lead) {
	if sink == nil {
		return
	}
	id, err := sink.SaveLead(lead)
	if err != nil {
		slog.Error("Flow lead save failed", "error", err, "type", lead.Type, "ticket_id", lead.TicketID)
		return
	}
	slog.Info("Flow lead saved", "id", id, "type", lead.Type, "ticket_id", lead.TicketID)
}

// isOtherDetour reports whether a button/text input picked the "Other" option
// that opens a free-text detour step.
func isOtherDetour(input string) bool {
	return strings.Contains(input, "🏢 Other") || strings.EqualFold(strings.TrimSpace(input), "other")
}

// validEmail is the minimal check used by email steps: reprompt rather than
// reject anything that plainly cannot be an address.
func validEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}
