// Package enrich decorates knowledge answers with actionable buttons.
//
// Topic detection is plain substring matching over the user query and the
// generated answer. Matching topics contribute buttons in a fixed order so
// the payload is deterministic for a given input.
package enrich

import (
	"log/slog"
	"strings"

	"github.com/instalogic/sitebot/internal/models"
)

// topicRule binds a topic's keyword list to its button contributions and an
// optional supplementary message.
type topicRule struct {
	topic    string
	keywords []string
	buttons  []models.Button
	message  string
}

// rules is evaluated in order. Button order in the payload follows rule order,
// and the first matching rule with a message wins the supplementary message.
var rules = []topicRule{
	{
		topic:    "careers",
		keywords: []string{"job", "career", "hiring", "apply", "resume", "position", "opening", "work at"},
		buttons: []models.Button{
			{Label: "📄 Upload Resume", Action: models.ActionShowResumeForm},
			{Label: "💼 View Open Positions", Action: models.ActionOpenLink, URL: "https://www.instalogic.in/careers/"},
		},
		message: "Interested in joining our team? Upload your resume to apply!",
	},
	{
		topic:    "demo",
		keywords: []string{"demo", "demonstration", "poc", "proof of concept", "trial", "sandbox"},
		buttons: []models.Button{
			{Label: "🎯 Request Demo", Action: models.ActionStartDemoFlow},
			{Label: "🔬 Request PoC", Action: models.ActionStartDemoFlow},
		},
	},
	{
		topic:    "services",
		keywords: []string{"service", "offering", "capability", "solution", "provide", "deliver"},
		buttons: []models.Button{
			{Label: "📋 View All Services", Action: models.ActionOpenLink, URL: "https://www.instalogic.in/our-services/"},
			{Label: "🎯 Request Demo", Action: models.ActionStartDemoFlow},
			{Label: "📞 Contact Sales", Action: models.ActionStartContactFlow},
		},
	},
	{
		topic:    "case_studies",
		keywords: []string{"case study", "case studies", "past work", "project", "client example"},
		buttons: []models.Button{
			{Label: "📚 View Case Studies", Action: models.ActionOpenLink, URL: "https://www.instalogic.in/case-studies/"},
			{Label: "🎯 Request Demo", Action: models.ActionStartDemoFlow},
		},
	},
	{
		topic:    "pricing",
		keywords: []string{"price", "cost", "pricing", "budget", "estimate", "quotation"},
		buttons: []models.Button{
			{Label: "💰 Get Quote", Action: models.ActionStartContactFlow},
			{Label: "📊 Request Estimate", Action: models.ActionStartDemoFlow},
		},
	},
	{
		topic:    "contact",
		keywords: []string{"contact", "reach", "phone", "email", "address", "location", "office"},
		buttons: []models.Button{
			{Label: "📞 Schedule Call", Action: models.ActionStartContactFlow},
			{Label: "✉️ Contact Us", Action: models.ActionOpenLink, URL: "https://www.instalogic.in/contact-us/"},
		},
	},
	{
		topic:    "procurement",
		keywords: []string{"rfp", "proposal", "tender", "procurement", "bid"},
		buttons: []models.Button{
			{Label: "📤 Upload RFP", Action: models.ActionStartRFPFlow},
			{Label: "📝 Request NDA", Action: models.ActionStartContactFlow},
		},
	},
}

// defaultButtons are offered when no topic matches.
var defaultButtons = []models.Button{
	{Label: "📋 View Services", Action: models.ActionOpenLink, URL: "https://www.instalogic.in/our-services/"},
	{Label: "🎯 Request Demo", Action: models.ActionStartDemoFlow},
	{Label: "📞 Contact Sales", Action: models.ActionStartContactFlow},
}

// Enrichment is the rich decoration for a knowledge answer.
type Enrichment struct {
	Buttons []models.Button
	Message string
}

// Enrich inspects the user query and the generated answer and returns topic
// buttons, capped at models.MaxButtons.
func Enrich(userQuery, answer string) Enrichment {
	combined := strings.ToLower(userQuery + " " + answer)

	var e Enrichment
	var matched []string
	for _, rule := range rules {
		if !matchesAny(combined, rule.keywords) {
			continue
		}
		matched = append(matched, rule.topic)
		e.Buttons = append(e.Buttons, rule.buttons...)
		if e.Message == "" && rule.message != "" {
			e.Message = rule.message
		}
	}

	if len(e.Buttons) == 0 {
		e.Buttons = append(e.Buttons, defaultButtons...)
	}
	if len(e.Buttons) > models.MaxButtons {
		e.Buttons = e.Buttons[:models.MaxButtons]
	}
	slog.Debug("Enricher built payload", "topics", matched, "buttons", len(e.Buttons))
	return e
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
