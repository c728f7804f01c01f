package flow

import (
	"fmt"
	"strings"

	"github.com/instalogic/sitebot/internal/models"
	"github.com/instalogic/sitebot/internal/session"
	"github.com/instalogic/sitebot/internal/util"
)

const demoTotalSteps = 7

// DemoFlow collects industry, name, email, phone, referral source, and a
// preferred date across seven steps, with free-text detours when the visitor
// picks "Other" for industry or referral source.
type DemoFlow struct {
	sessions *session.Store
	leads    LeadSink
}

// NewDemoFlow builds the demo booking flow.
func NewDemoFlow(sessions *session.Store, leads LeadSink) *DemoFlow {
	return &DemoFlow{sessions: sessions, leads: leads}
}

func (f *DemoFlow) Type() models.FlowType { return models.FlowTypeDemo }

func (f *DemoFlow) Advance(sessionID, input string) models.RoutedResult {
	sess := f.sessions.GetOrCreate(sessionID)
	input = strings.TrimSpace(input)

	switch sess.State {
	case models.StateIdle:
		f.sessions.Update(sessionID, models.StateDemoAwaitingIndustry, nil)
		return models.RoutedResult{
			Kind:  models.RouteKindTransaction,
			Flow:  models.FlowTypeDemo,
			Reply: "I'd be happy to arrange a demo! 🎯\n\nWhich industry is this for?",
			Payload: &models.RichPayload{
				Buttons: []models.Button{
					{Label: "🏛️ Government", Action: models.ActionSelectIndustry, Value: "Government"},
					{Label: "💼 Finance", Action: models.ActionSelectIndustry, Value: "Finance"},
					{Label: "🛒 Retail", Action: models.ActionSelectIndustry, Value: "Retail"},
					{Label: "🏢 Other", Action: models.ActionSelectIndustry, Value: "Other"},
				},
			},
			Step:       1,
			TotalSteps: demoTotalSteps,
		}

	case models.StateDemoAwaitingIndustry:
		if isOtherDetour(input) {
			f.sessions.Update(sessionID, models.StateDemoAwaitingCustomIndustry, nil)
			return models.RoutedResult{
				Kind:       models.RouteKindTransaction,
				Flow:       models.FlowTypeDemo,
				Reply:      "Great! 👍\n\nWhich industry would you like the demo for? (Please specify)",
				Payload:    &models.RichPayload{InputType: "text", Placeholder: "e.g., Healthcare, Manufacturing, etc."},
				Step:       2,
				TotalSteps: demoTotalSteps,
			}
		}
		f.sessions.Update(sessionID, models.StateDemoAwaitingName, map[models.DataKey]string{models.DataKeyIndustry: input})
		return models.RoutedResult{
			Kind:       models.RouteKindTransaction,
			Flow:       models.FlowTypeDemo,
			Reply:      fmt.Sprintf("Great! **%s** industry. 👍\n\nWhat's your name?", input),
			Payload:    &models.RichPayload{InputType: "text", Placeholder: "Your full name"},
			Step:       2,
			TotalSteps: demoTotalSteps,
		}

	case models.StateDemoAwaitingCustomIndustry:
		f.sessions.Update(sessionID, models.StateDemoAwaitingName, map[models.DataKey]string{models.DataKeyIndustry: input})
		return models.RoutedResult{
			Kind:       models.RouteKindTransaction,
			Flow:       models.FlowTypeDemo,
			Reply:      fmt.Sprintf("Perfect! **%s** industry. 👍\n\nWhat's your name?", input),
			Payload:    &models.RichPayload{InputType: "text", Placeholder: "Your full name"},
			Step:       2,
			TotalSteps: demoTotalSteps,
		}

	case models.StateDemoAwaitingName:
		f.sessions.Update(sessionID, models.StateDemoAwaitingEmail, map[models.DataKey]string{models.DataKeyName: input})
		return models.RoutedResult{
			Kind:       models.RouteKindTransaction,
			Flow:       models.FlowTypeDemo,
			Reply:      fmt.Sprintf("Nice to meet you, **%s**! 👋\n\nWhat's your email?", input),
			Payload:    &models.RichPayload{InputType: "email", Placeholder: "your.email@company.com"},
			Step:       3,
			TotalSteps: demoTotalSteps,
		}

	case models.StateDemoAwaitingEmail:
		if !validEmail(input) {
			// Stay on this step until the address looks plausible.
			return models.RoutedResult{
				Kind:       models.RouteKindTransaction,
				Flow:       models.FlowTypeDemo,
				Reply:      "Please provide a valid email:",
				Payload:    &models.RichPayload{InputType: "email", Placeholder: "your.email@company.com"},
				Step:       3,
				TotalSteps: demoTotalSteps,
				InputError: true,
			}
		}
		f.sessions.Update(sessionID, models.StateDemoAwaitingPhone, map[models.DataKey]string{models.DataKeyEmail: input})
		return models.RoutedResult{
			Kind:       models.RouteKindTransaction,
			Flow:       models.FlowTypeDemo,
			Reply:      "Perfect! 📧\n\nWhat's your phone number?",
			Payload:    &models.RichPayload{InputType: "tel", Placeholder: "+91 XXXXX XXXXX"},
			Step:       4,
			TotalSteps: demoTotalSteps,
		}

	case models.StateDemoAwaitingPhone:
		f.sessions.Update(sessionID, models.StateDemoAwaitingReferral, map[models.DataKey]string{models.DataKeyPhone: input})
		return models.RoutedResult{
			Kind:  models.RouteKindTransaction,
			Flow:  models.FlowTypeDemo,
			Reply: "Thanks! 📱\n\nHow did you hear about us?",
			Payload: &models.RichPayload{
				Buttons: []models.Button{
					{Label: "🔍 Google Search", Action: models.ActionSelectReferral, Value: "Google Search"},
					{Label: "🤝 Referral", Action: models.ActionSelectReferral, Value: "Referral"},
					{Label: "📱 Social Media", Action: models.ActionSelectReferral, Value: "Social Media"},
					{Label: "📰 Advertisement", Action: models.ActionSelectReferral, Value: "Advertisement"},
					{Label: "🏢 Other", Action: models.ActionSelectReferral, Value: "Other"},
				},
			},
			Step:       5,
			TotalSteps: demoTotalSteps,
		}

	case models.StateDemoAwaitingReferral:
		if isOtherDetour(input) {
			f.sessions.Update(sessionID, models.StateDemoAwaitingCustomReferral, nil)
			return models.RoutedResult{
				Kind:       models.RouteKindTransaction,
				Flow:       models.FlowTypeDemo,
				Reply:      "Thanks! 👍\n\nHow did you hear about us? (Please specify)",
				Payload:    &models.RichPayload{InputType: "text", Placeholder: "e.g., LinkedIn, Blog, Conference, etc."},
				Step:       5,
				TotalSteps: demoTotalSteps,
			}
		}
		f.sessions.Update(sessionID, models.StateDemoAwaitingDate, map[models.DataKey]string{models.DataKeyReferralSource: input})
		return models.RoutedResult{
			Kind:       models.RouteKindTransaction,
			Flow:       models.FlowTypeDemo,
			Reply:      "Great! 👍\n\nWhat's your preferred date and time?",
			Payload:    &models.RichPayload{InputType: "datetime", Placeholder: "e.g., 12-11-25, 4:00 PM"},
			Step:       6,
			TotalSteps: demoTotalSteps,
		}

	case models.StateDemoAwaitingCustomReferral:
		f.sessions.Update(sessionID, models.StateDemoAwaitingDate, map[models.DataKey]string{models.DataKeyReferralSource: input})
		return models.RoutedResult{
			Kind:       models.RouteKindTransaction,
			Flow:       models.FlowTypeDemo,
			Reply:      "Perfect! 👍\n\nWhat's your preferred date and time?",
			Payload:    &models.RichPayload{InputType: "datetime", Placeholder: "e.g., 12-11-25, 4:00 PM"},
			Step:       6,
			TotalSteps: demoTotalSteps,
		}

	case models.StateDemoAwaitingDate:
		fields := sess.Fields
		fields[models.DataKeyPreferredDate] = input

		ticketID := util.GenerateTicketID()
		saveLead(f.leads, models.NewDemoLead(fields, ticketID))
		f.sessions.Clear(sessionID)

		confirmation := fmt.Sprintf(`✅ **Demo Confirmed!**

**Your Details:**
- Industry: %s
- Name: %s
- Email: %s
- Phone: %s
- Referral: %s
- Date: %s
- Ticket ID: **%s**

Our team will contact you shortly! 🚀`,
			fieldOrNA(fields, models.DataKeyIndustry),
			fieldOrNA(fields, models.DataKeyName),
			fieldOrNA(fields, models.DataKeyEmail),
			fieldOrNA(fields, models.DataKeyPhone),
			fieldOrNA(fields, models.DataKeyReferralSource),
			input, ticketID)

		return models.RoutedResult{
			Kind:     models.RouteKindTransaction,
			Flow:     models.FlowTypeDemo,
			Reply:    confirmation,
			TicketID: ticketID,
			Payload: &models.RichPayload{
				Buttons: []models.Button{
					{Label: "📋 View Services", Action: models.ActionOpenLink, URL: "https://www.instalogic.in/our-services/"},
					{Label: "📚 Case Studies", Action: models.ActionOpenLink, URL: "https://www.instalogic.in/case-studies/"},
				},
			},
			Step:       7,
			TotalSteps: demoTotalSteps,
			Completed:  true,
		}
	}

	// Unknown state: reset the session and offer to start over.
	f.sessions.Clear(sessionID)
	return models.RoutedResult{
		Kind:  models.RouteKindError,
		Reply: "I'm sorry, something went wrong with the demo request. Let's start over. Would you like to request a demo?",
		Payload: &models.RichPayload{
			Buttons: []models.Button{
				{Label: "🎯 Start Demo Request", Action: models.ActionStartDemoFlow},
				{Label: "❌ Cancel", Action: models.ActionCancelFlow},
			},
		},
	}
}

func fieldOrNA(fields map[models.DataKey]string, key models.DataKey) string {
	if v := fields[key]; v != "" {
		return v
	}
	return "N/A"
}
