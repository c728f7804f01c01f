// Package models defines lead records produced at flow completion or handoff.
package models

import (
	"fmt"
	"time"
)

// LeadType is the tagged-union key of a lead record.
type LeadType string

const (
	LeadTypeDemoRequest       LeadType = "DEMO_REQUEST"
	LeadTypeCareerApplication LeadType = "CAREER_APPLICATION"
	LeadTypeRFPUpload         LeadType = "RFP_UPLOAD"
	LeadTypeHumanHandoff      LeadType = "HUMAN_HANDOFF"
	LeadTypeContactRequest    LeadType = "CONTACT_REQUEST"
)

// LeadStatus is the closed vocabulary of lead workflow states.
type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "NEW"
	LeadStatusContacted  LeadStatus = "CONTACTED"
	LeadStatusInProgress LeadStatus = "IN_PROGRESS"
	LeadStatusClosed     LeadStatus = "CLOSED"
)

// IsValidLeadStatus checks if the given lead status is part of the closed set.
func IsValidLeadStatus(s LeadStatus) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusInProgress, LeadStatusClosed:
		return true
	default:
		return false
	}
}

// Lead is a persisted record of a completed flow or handoff event.
// It is created exactly once per terminal transition and never mutated by the
// dialogue core afterward.
type Lead struct {
	ID          int64             `json:"id,omitempty"`
	Type        LeadType          `json:"type"`
	Name        string            `json:"name"`
	Contact     string            `json:"contact"`
	Info        string            `json:"info"`
	Status      LeadStatus        `json:"status"`
	AdminNotes  string            `json:"admin_notes"`
	TicketID    string            `json:"ticket_id"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	RequestedAt time.Time         `json:"requested_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// LeadStats summarizes the lead table for the admin surface.
type LeadStats struct {
	Total    int                `json:"total"`
	ByStatus map[LeadStatus]int `json:"by_status"`
	ByType   map[LeadType]int   `json:"by_type"`
}

func fieldOr(fields map[DataKey]string, key DataKey, fallback string) string {
	if v, ok := fields[key]; ok && v != "" {
		return v
	}
	return fallback
}

// NewDemoLead assembles a DEMO_REQUEST lead from collected demo flow fields.
func NewDemoLead(fields map[DataKey]string, ticketID string) Lead {
	return Lead{
		Type:    LeadTypeDemoRequest,
		Name:    fieldOr(fields, DataKeyName, "N/A"),
		Contact: fmt.Sprintf("%s | %s", fieldOr(fields, DataKeyEmail, "N/A"), fieldOr(fields, DataKeyPhone, "N/A")),
		Info: fmt.Sprintf("Industry: %s. Date: %s. Referral: %s",
			fieldOr(fields, DataKeyIndustry, "N/A"),
			fieldOr(fields, DataKeyPreferredDate, "N/A"),
			fieldOr(fields, DataKeyReferralSource, "N/A")),
		Status:   LeadStatusNew,
		TicketID: ticketID,
		Metadata: copyFields(fields),
	}
}

// NewCareerLead assembles a CAREER_APPLICATION lead from collected career flow fields.
func NewCareerLead(fields map[DataKey]string, ticketID string) Lead {
	return Lead{
		Type:     LeadTypeCareerApplication,
		Name:     fieldOr(fields, DataKeyName, "N/A"),
		Contact:  fieldOr(fields, DataKeyEmail, "N/A"),
		Info:     fmt.Sprintf("Position: %s", fieldOr(fields, DataKeyPosition, "N/A")),
		Status:   LeadStatusNew,
		TicketID: ticketID,
		Metadata: copyFields(fields),
	}
}

// NewRFPLead assembles an RFP_UPLOAD lead from collected RFP flow fields.
func NewRFPLead(fields map[DataKey]string, ticketID string) Lead {
	return Lead{
		Type:    LeadTypeRFPUpload,
		Name:    "RFP Submission",
		Contact: fieldOr(fields, DataKeyEmail, "N/A"),
		Info: fmt.Sprintf("Company: %s. Brief: %s",
			fieldOr(fields, DataKeyCompany, "N/A"),
			fieldOr(fields, DataKeyBrief, "N/A")),
		Status:   LeadStatusNew,
		TicketID: ticketID,
		Metadata: copyFields(fields),
	}
}

// NewContactLead assembles a CONTACT_REQUEST lead from collected contact flow fields.
func NewContactLead(fields map[DataKey]string, ticketID string) Lead {
	return Lead{
		Type:     LeadTypeContactRequest,
		Name:     fieldOr(fields, DataKeyName, "N/A"),
		Contact:  fieldOr(fields, DataKeyContactMethod, "email"),
		Info:     fmt.Sprintf("Preferred contact method: %s", fieldOr(fields, DataKeyContactMethod, "email")),
		Status:   LeadStatusNew,
		TicketID: ticketID,
		Metadata: copyFields(fields),
	}
}

// NewHandoffLead assembles a HUMAN_HANDOFF lead from the triggering query.
func NewHandoffLead(query, ticketID string) Lead {
	return Lead{
		Type:     LeadTypeHumanHandoff,
		Name:     "Urgent Request",
		Contact:  "See chat history",
		Info:     fmt.Sprintf("User requested human assistance: %s", query),
		Status:   LeadStatusNew,
		TicketID: ticketID,
		Metadata: map[string]string{
			"original_query": query,
			"priority":       "high",
		},
	}
}

func copyFields(fields map[DataKey]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[string(k)] = v
	}
	return out
}
