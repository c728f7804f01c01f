// Package models defines flow type definitions to avoid circular imports.
package models

import "strings"

// FlowType identifies one of the fixed multi-turn data-collection flows.
type FlowType string

// StateType represents a specific state within a flow. Every state tag is the
// owning flow's name followed by an underscore and a step name; the router
// dispatches purely on that prefix.
type StateType string

// DataKey represents a key for storing collected field values.
type DataKey string

// Flow type constants.
const (
	FlowTypeDemo    FlowType = "demo"
	FlowTypeCareer  FlowType = "career"
	FlowTypeRFP     FlowType = "rfp"
	FlowTypeContact FlowType = "contact"
)

// StateIdle marks a session with no active flow.
const StateIdle StateType = ""

// State constants for the demo request flow.
const (
	StateDemoAwaitingIndustry       StateType = "demo_awaiting_industry"
	StateDemoAwaitingCustomIndustry StateType = "demo_awaiting_custom_industry"
	StateDemoAwaitingName           StateType = "demo_awaiting_name"
	StateDemoAwaitingEmail          StateType = "demo_awaiting_email"
	StateDemoAwaitingPhone          StateType = "demo_awaiting_phone"
	StateDemoAwaitingReferral       StateType = "demo_awaiting_referral"
	StateDemoAwaitingCustomReferral StateType = "demo_awaiting_custom_referral"
	StateDemoAwaitingDate           StateType = "demo_awaiting_date"
)

// State constants for the career application flow.
const (
	StateCareerAwaitingName     StateType = "career_awaiting_name"
	StateCareerAwaitingEmail    StateType = "career_awaiting_email"
	StateCareerAwaitingPosition StateType = "career_awaiting_position"
)

// State constants for the RFP upload flow.
const (
	StateRFPAwaitingCompany StateType = "rfp_awaiting_company"
	StateRFPAwaitingContact StateType = "rfp_awaiting_contact"
	StateRFPAwaitingBrief   StateType = "rfp_awaiting_brief"
)

// State constants for the contact request flow.
const (
	StateContactAwaitingName   StateType = "contact_awaiting_name"
	StateContactAwaitingMethod StateType = "contact_awaiting_method"
)

// Data key constants for collected flow fields.
const (
	DataKeyIndustry       DataKey = "industry"
	DataKeyName           DataKey = "name"
	DataKeyEmail          DataKey = "email"
	DataKeyPhone          DataKey = "phone"
	DataKeyReferralSource DataKey = "referral_source"
	DataKeyPreferredDate  DataKey = "preferred_date"
	DataKeyPosition       DataKey = "position"
	DataKeyCompany        DataKey = "company"
	DataKeyBrief          DataKey = "brief"
	DataKeyContactMethod  DataKey = "contact_method"
)

// IsValidFlowType checks if the given flow type is supported.
func IsValidFlowType(ft FlowType) bool {
	switch ft {
	case FlowTypeDemo, FlowTypeCareer, FlowTypeRFP, FlowTypeContact:
		return true
	default:
		return false
	}
}

// FlowTypeForState maps a state tag to the flow that owns it by its prefix.
// The idle state belongs to no flow.
func FlowTypeForState(st StateType) (FlowType, bool) {
	s := string(st)
	switch {
	case strings.HasPrefix(s, "demo_"):
		return FlowTypeDemo, true
	case strings.HasPrefix(s, "career_"):
		return FlowTypeCareer, true
	case strings.HasPrefix(s, "rfp_"):
		return FlowTypeRFP, true
	case strings.HasPrefix(s, "contact_"):
		return FlowTypeContact, true
	default:
		return "", false
	}
}
