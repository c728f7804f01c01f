package flow

import (
	"fmt"
	"strings"

	"github.com/instalogic/sitebot/internal/models"
	"github.com/instalogic/sitebot/internal/session"
	"github.com/instalogic/sitebot/internal/util"
)

const rfpTotalSteps = 4

// RFPFlow collects company, contact email, and a project brief for a
// request-for-proposal submission.
type RFPFlow struct {
	sessions *session.Store
	leads    LeadSink
}

// NewRFPFlow builds the RFP submission flow.
func NewRFPFlow(sessions *session.Store, leads LeadSink) *RFPFlow {
	return &RFPFlow{sessions: sessions, leads: leads}
}

func (f *RFPFlow) Type() models.FlowType { return models.FlowTypeRFP }

func (f *RFPFlow) Advance(sessionID, input string) models.RoutedResult {
	sess := f.sessions.GetOrCreate(sessionID)
	input = strings.TrimSpace(input)

	switch sess.State {
	case models.StateIdle:
		f.sessions.Update(sessionID, models.StateRFPAwaitingCompany, nil)
		return models.RoutedResult{
			Kind:       models.RouteKindTransaction,
			Flow:       models.FlowTypeRFP,
			Reply:      "Thank you for considering InstaLogic for your project! 📤\n\nWhat's your company name?",
			Payload:    &models.RichPayload{InputType: "text"},
			Step:       1,
			TotalSteps: rfpTotalSteps,
		}

	case models.StateRFPAwaitingCompany:
		f.sessions.Update(sessionID, models.StateRFPAwaitingContact, map[models.DataKey]string{models.DataKeyCompany: input})
		return models.RoutedResult{
			Kind:       models.RouteKindTransaction,
			Flow:       models.FlowTypeRFP,
			Reply:      "What's the best email to reach you at?",
			Payload:    &models.RichPayload{InputType: "email"},
			Step:       2,
			TotalSteps: rfpTotalSteps,
		}

	case models.StateRFPAwaitingContact:
		f.sessions.Update(sessionID, models.StateRFPAwaitingBrief, map[models.DataKey]string{models.DataKeyEmail: input})
		return models.RoutedResult{
			Kind:       models.RouteKindTransaction,
			Flow:       models.FlowTypeRFP,
			Reply:      "Please provide a brief description of your project:",
			Payload:    &models.RichPayload{InputType: "textarea", Placeholder: "Project requirements, timeline, budget range..."},
			Step:       3,
			TotalSteps: rfpTotalSteps,
		}

	case models.StateRFPAwaitingBrief:
		fields := sess.Fields
		fields[models.DataKeyBrief] = input

		ticketID := util.GenerateTicketID()
		saveLead(f.leads, models.NewRFPLead(fields, ticketID))
		f.sessions.Clear(sessionID)

		return models.RoutedResult{
			Kind:     models.RouteKindTransaction,
			Flow:     models.FlowTypeRFP,
			Reply:    fmt.Sprintf("✅ **RFP Received!**\n\nYour RFP has been submitted successfully. Reference ID: **%s**\n\nOur proposals team will review it and respond within 24-48 hours. You can also email your detailed RFP document to proposals@instalogic.in", ticketID),
			TicketID: ticketID,
			Payload: &models.RichPayload{
				Buttons: []models.Button{
					{Label: "📧 Email RFP Document", Action: models.ActionOpenEmail, Value: "proposals@instalogic.in"},
					{Label: "📞 Schedule Call", Action: models.ActionStartContactFlow},
				},
			},
			Step:       4,
			TotalSteps: rfpTotalSteps,
			Completed:  true,
		}
	}

	f.sessions.Clear(sessionID)
	return models.RoutedResult{
		Kind:  models.RouteKindError,
		Reply: "I'm sorry, something went wrong with your RFP submission. Would you like to start over?",
		Payload: &models.RichPayload{
			Buttons: []models.Button{
				{Label: "📤 Upload RFP", Action: models.ActionStartRFPFlow},
				{Label: "❌ Cancel", Action: models.ActionCancelFlow},
			},
		},
	}
}
