package flow

import (
	"fmt"
	"strings"

	"github.com/instalogic/sitebot/internal/models"
	"github.com/instalogic/sitebot/internal/session"
	"github.com/instalogic/sitebot/internal/util"
)

const careerTotalSteps = 4

// CareerFlow collects name, email, and desired position for a job application.
type CareerFlow struct {
	sessions *session.Store
	leads    LeadSink
}

// NewCareerFlow builds the career application flow.
func NewCareerFlow(sessions *session.Store, leads LeadSink) *CareerFlow {
	return &CareerFlow{sessions: sessions, leads: leads}
}

func (f *CareerFlow) Type() models.FlowType { return models.FlowTypeCareer }

func (f *CareerFlow) Advance(sessionID, input string) models.RoutedResult {
	sess := f.sessions.GetOrCreate(sessionID)
	input = strings.TrimSpace(input)

	switch sess.State {
	case models.StateIdle:
		f.sessions.Update(sessionID, models.StateCareerAwaitingName, nil)
		return models.RoutedResult{
			Kind:       models.RouteKindTransaction,
			Flow:       models.FlowTypeCareer,
			Reply:      "Excited to hear you're interested in joining InstaLogic! 💼\n\nLet me collect some information. What's your full name?",
			Payload:    &models.RichPayload{InputType: "text"},
			Step:       1,
			TotalSteps: careerTotalSteps,
		}

	case models.StateCareerAwaitingName:
		f.sessions.Update(sessionID, models.StateCareerAwaitingEmail, map[models.DataKey]string{models.DataKeyName: input})
		return models.RoutedResult{
			Kind:       models.RouteKindTransaction,
			Flow:       models.FlowTypeCareer,
			Reply:      fmt.Sprintf("Great, **%s**! What's your email address?", input),
			Payload:    &models.RichPayload{InputType: "email"},
			Step:       2,
			TotalSteps: careerTotalSteps,
		}

	case models.StateCareerAwaitingEmail:
		f.sessions.Update(sessionID, models.StateCareerAwaitingPosition, map[models.DataKey]string{models.DataKeyEmail: input})
		return models.RoutedResult{
			Kind:  models.RouteKindTransaction,
			Flow:  models.FlowTypeCareer,
			Reply: "Which position are you interested in?",
			Payload: &models.RichPayload{
				Buttons: []models.Button{
					{Label: "Data Analyst", Action: models.ActionSelectPosition, Value: "Data Analyst"},
					{Label: "Software Engineer", Action: models.ActionSelectPosition, Value: "Software Engineer"},
					{Label: "BI Consultant", Action: models.ActionSelectPosition, Value: "BI Consultant"},
					{Label: "Other", Action: models.ActionSelectPosition, Value: "Other"},
				},
			},
			Step:       3,
			TotalSteps: careerTotalSteps,
		}

	case models.StateCareerAwaitingPosition:
		fields := sess.Fields
		fields[models.DataKeyPosition] = input

		ticketID := util.GenerateTicketID()
		saveLead(f.leads, models.NewCareerLead(fields, ticketID))
		f.sessions.Clear(sessionID)

		return models.RoutedResult{
			Kind:     models.RouteKindTransaction,
			Flow:     models.FlowTypeCareer,
			Reply:    fmt.Sprintf("✅ **Application Received!**\n\nThank you for your interest in the **%s** position. Your application ID is **%s**.\n\nPlease email your resume to careers@instalogic.in with this ID in the subject line.", input, ticketID),
			TicketID: ticketID,
			Payload: &models.RichPayload{
				Buttons: []models.Button{
					{Label: "📄 Upload Resume", Action: models.ActionShowResumeForm},
					{Label: "💼 View Careers Page", Action: models.ActionOpenLink, URL: "https://www.instalogic.in/careers/"},
				},
			},
			Step:       4,
			TotalSteps: careerTotalSteps,
			Completed:  true,
		}
	}

	f.sessions.Clear(sessionID)
	return models.RoutedResult{
		Kind:  models.RouteKindError,
		Reply: "I'm sorry, something went wrong with your application. Would you like to start over?",
		Payload: &models.RichPayload{
			Buttons: []models.Button{
				{Label: "💼 Apply Again", Action: models.ActionShowResumeForm},
				{Label: "❌ Cancel", Action: models.ActionCancelFlow},
			},
		},
	}
}
