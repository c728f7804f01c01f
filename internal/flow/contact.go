package flow

import (
	"fmt"
	"strings"

	"github.com/instalogic/sitebot/internal/models"
	"github.com/instalogic/sitebot/internal/session"
	"github.com/instalogic/sitebot/internal/util"
)

const contactTotalSteps = 3

// contactInfoByMethod maps the preferred contact method vocabulary to the
// contact details shown in the confirmation. Unrecognized input renders the
// email entry.
var contactInfoByMethod = map[string]string{
	"email": "📧 info@instalogic.in",
	"phone": "📞 +91-XXX-XXX-XXXX",
	"both":  "📧 info@instalogic.in\n📞 +91-XXX-XXX-XXXX",
}

// ContactFlow collects a name and preferred contact method.
type ContactFlow struct {
	sessions *session.Store
	leads    LeadSink
}

// NewContactFlow builds the contact request flow.
func NewContactFlow(sessions *session.Store, leads LeadSink) *ContactFlow {
	return &ContactFlow{sessions: sessions, leads: leads}
}

func (f *ContactFlow) Type() models.FlowType { return models.FlowTypeContact }

func (f *ContactFlow) Advance(sessionID, input string) models.RoutedResult {
	sess := f.sessions.GetOrCreate(sessionID)
	input = strings.TrimSpace(input)

	switch sess.State {
	case models.StateIdle:
		f.sessions.Update(sessionID, models.StateContactAwaitingName, nil)
		return models.RoutedResult{
			Kind:       models.RouteKindTransaction,
			Flow:       models.FlowTypeContact,
			Reply:      "I'll help you get in touch with our team! 📞\n\nWhat's your name?",
			Payload:    &models.RichPayload{InputType: "text"},
			Step:       1,
			TotalSteps: contactTotalSteps,
		}

	case models.StateContactAwaitingName:
		f.sessions.Update(sessionID, models.StateContactAwaitingMethod, map[models.DataKey]string{models.DataKeyName: input})
		return models.RoutedResult{
			Kind:  models.RouteKindTransaction,
			Flow:  models.FlowTypeContact,
			Reply: fmt.Sprintf("Thanks, **%s**! How would you prefer to be contacted?", input),
			Payload: &models.RichPayload{
				Buttons: []models.Button{
					{Label: "📧 Email", Action: models.ActionSelectContactMode, Value: "email"},
					{Label: "📞 Phone", Action: models.ActionSelectContactMode, Value: "phone"},
					{Label: "💬 Both", Action: models.ActionSelectContactMode, Value: "both"},
				},
			},
			Step:       2,
			TotalSteps: contactTotalSteps,
		}

	case models.StateContactAwaitingMethod:
		method := strings.ToLower(input)
		fields := sess.Fields
		fields[models.DataKeyContactMethod] = method

		ticketID := util.GenerateTicketID()
		saveLead(f.leads, models.NewContactLead(fields, ticketID))
		f.sessions.Clear(sessionID)

		contactInfo, ok := contactInfoByMethod[method]
		if !ok {
			contactInfo = contactInfoByMethod["email"]
		}

		return models.RoutedResult{
			Kind:     models.RouteKindTransaction,
			Flow:     models.FlowTypeContact,
			Reply:    fmt.Sprintf("✅ **Contact Request Received!**\n\nReference ID: **%s**\n\nYou can also reach us directly at:\n%s", ticketID, contactInfo),
			TicketID: ticketID,
			Payload: &models.RichPayload{
				Buttons: []models.Button{
					{Label: "🌐 Visit Website", Action: models.ActionOpenLink, URL: "https://www.instalogic.in/contact-us/"},
					{Label: "📋 View Services", Action: models.ActionOpenLink, URL: "https://www.instalogic.in/our-services/"},
				},
			},
			Step:       3,
			TotalSteps: contactTotalSteps,
			Completed:  true,
		}
	}

	f.sessions.Clear(sessionID)
	return models.RoutedResult{
		Kind:  models.RouteKindError,
		Reply: "I'm sorry, something went wrong with your contact request. Would you like to start over?",
		Payload: &models.RichPayload{
			Buttons: []models.Button{
				{Label: "📞 Contact Sales", Action: models.ActionStartContactFlow},
				{Label: "❌ Cancel", Action: models.ActionCancelFlow},
			},
		},
	}
}
