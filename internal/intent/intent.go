// Package intent classifies inbound messages for handoff urgency and
// transactional intent.
//
// This is a heuristic layer: ordered regular-expression rule lists, not a real
// NLU system. Precision depends entirely on pattern curation, and the default
// patterns assume English-language input. The Classifier interface exists so a
// model-based classifier can replace the rule lists without touching the
// router's priority contract.
package intent

import (
	"log/slog"
	"regexp"

	"github.com/instalogic/sitebot/internal/models"
)

// Classifier decides whether a message demands human escalation and whether it
// opens one of the fixed transactional flows.
type Classifier interface {
	// Handoff reports whether the message should escalate to a human agent.
	Handoff(text string) bool
	// Transactional returns the first flow whose patterns match the message.
	Transactional(text string) (models.FlowType, bool)
}

// intentRule binds a flow to its ordered pattern set.
type intentRule struct {
	flow     models.FlowType
	patterns []*regexp.Regexp
}

// RegexClassifier is the default rule-list Classifier. All patterns are
// case-insensitive and token-boundary anchored so that, e.g., "demonstrate"
// does not match the bare "demo" token.
type RegexClassifier struct {
	handoff []*regexp.Regexp
	intents []intentRule
}

// handoff patterns are intentionally broad: any explicit request for a human,
// declared urgency, or an escalate token must win priority over everything else.
var defaultHandoffPatterns = []string{
	`(?i)\b(speak|talk)\s+to\s+(a\s+)?(human|person|agent|representative)\b`,
	`(?i)\bconnect\s+me\s+to\s+(support|human|agent|someone)\b`,
	`(?i)\b(urgent|emergency|critical)\s+(issue|problem|matter)\b`,
	`(?i)\bneed\s+(immediate|urgent)\s+help\b`,
	`(?i)\bescalate\b`,
	`(?i)\bhuman\s+(agent|support)\b`,
}

// defaultIntentPatterns is an ordered mapping: the first flow whose pattern set
// matches wins.
var defaultIntentPatterns = []struct {
	flow     models.FlowType
	patterns []string
}{
	{models.FlowTypeDemo, []string{
		`(?i)\b(book|request|schedule|want|need|get)\s+(a\s+)?(demo|demonstration|poc|proof of concept)\b`,
		`(?i)\bshow\s+me\s+(a\s+)?demo\b`,
		`(?i)\bcan\s+i\s+(see|get|have)\s+(a\s+)?demo\b`,
	}},
	{models.FlowTypeCareer, []string{
		`(?i)\b(apply|submit|upload|send)\s+(my\s+)?(resume|cv|application)\b`,
		`(?i)\b(are\s+you\s+)?hiring\b`,
		`(?i)\bjob\s+(opening|opportunity|application|position)\b`,
		`(?i)\bcareer\s+(opportunity|page)\b`,
		`(?i)\bhow\s+(do|can)\s+i\s+apply\b`,
	}},
	{models.FlowTypeRFP, []string{
		`(?i)\b(upload|submit|send|share)\s+(an\s+|my\s+|our\s+)?rfp\b`,
		`(?i)\b(have|got)\s+(an\s+)?rfp\b`,
		`(?i)\bproposal\s+request\b`,
		`(?i)\brequest\s+for\s+proposal\b`,
	}},
	{models.FlowTypeContact, []string{
		`(?i)\b(contact|call|speak\s+to|talk\s+to)\s+(sales|team|someone)\b`,
		`(?i)\bschedule\s+(a\s+)?(call|meeting)\b`,
		`(?i)\bget\s+in\s+touch\b`,
	}},
}

// NewRegexClassifier builds a classifier with the default rule lists.
func NewRegexClassifier() *RegexClassifier {
	c := &RegexClassifier{}
	for _, p := range defaultHandoffPatterns {
		c.handoff = append(c.handoff, regexp.MustCompile(p))
	}
	for _, set := range defaultIntentPatterns {
		rule := intentRule{flow: set.flow}
		for _, p := range set.patterns {
			rule.patterns = append(rule.patterns, regexp.MustCompile(p))
		}
		c.intents = append(c.intents, rule)
	}
	return c
}

// Handoff checks the message against the handoff pattern list. The check is
// independent of transactional intent and is evaluated first by the router.
func (c *RegexClassifier) Handoff(text string) bool {
	for _, re := range c.handoff {
		if re.MatchString(text) {
			slog.Debug("RegexClassifier handoff pattern matched", "pattern", re.String())
			return true
		}
	}
	return false
}

// Transactional returns the first flow whose pattern set matches the message.
func (c *RegexClassifier) Transactional(text string) (models.FlowType, bool) {
	for _, rule := range c.intents {
		for _, re := range rule.patterns {
			if re.MatchString(text) {
				slog.Debug("RegexClassifier transactional intent matched", "flow", rule.flow, "pattern", re.String())
				return rule.flow, true
			}
		}
	}
	return "", false
}
