// Package models defines the core data structures for sitebot.
//
// It includes the routed-result contract returned for every chat turn, the rich
// payload UI hints, and the shared API response envelope.
package models

import (
	"errors"
	"strings"
)

// RouteKind discriminates the possible outcomes of routing a chat turn.
type RouteKind string

const (
	// RouteKindHandoff indicates the turn escalated to a human agent.
	RouteKindHandoff RouteKind = "handoff"
	// RouteKindTransaction indicates the turn advanced a multi-step flow.
	RouteKindTransaction RouteKind = "transaction"
	// RouteKindKnowledge indicates the turn was answered from the knowledge base.
	RouteKindKnowledge RouteKind = "knowledge"
	// RouteKindError indicates the turn hit a recoverable error.
	RouteKindError RouteKind = "error"
)

// Validation constants for chat input.
const (
	// MaxMessageLength defines the maximum allowed length for an inbound chat message.
	MaxMessageLength = 4096
	// MaxButtons is the hard cap on buttons in a rich payload.
	MaxButtons = 4
)

// Error variables for better error handling and testability
var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message exceeds maximum length")
	ErrInvalidStatus  = errors.New("invalid lead status")
	ErrLeadNotFound   = errors.New("lead not found")
)

// ButtonAction identifies what the UI should do when a button is pressed.
type ButtonAction string

const (
	ActionOpenLink          ButtonAction = "open_link"
	ActionOpenEmail         ButtonAction = "open_email"
	ActionShowPhone         ButtonAction = "show_phone"
	ActionShowEmail         ButtonAction = "show_email"
	ActionShowResumeForm    ButtonAction = "show_resume_form"
	ActionStartDemoFlow     ButtonAction = "start_demo_flow"
	ActionStartContactFlow  ButtonAction = "start_contact_flow"
	ActionStartRFPFlow      ButtonAction = "start_rfp_flow"
	ActionCancelFlow        ButtonAction = "cancel_flow"
	ActionSelectIndustry    ButtonAction = "select_industry"
	ActionSelectReferral    ButtonAction = "select_referral"
	ActionSelectPosition    ButtonAction = "select_position"
	ActionSelectContactMode ButtonAction = "select_contact_method"
)

// Button is a single suggested action rendered under a bot reply.
type Button struct {
	Label  string       `json:"label"`
	Action ButtonAction `json:"action"`
	Value  string       `json:"value,omitempty"`
	URL    string       `json:"url,omitempty"`
}

// RichPayload is an ephemeral per-turn UI hint: at most MaxButtons buttons plus
// an optional supplementary message and input hints for form-style steps.
type RichPayload struct {
	Buttons     []Button `json:"buttons,omitempty"`
	Message     string   `json:"message,omitempty"`
	InputType   string   `json:"input_type,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// RoutedResult is the per-turn output contract of the router.
// Fields beyond Kind and Reply are populated only when relevant to the kind.
type RoutedResult struct {
	Kind       RouteKind         `json:"type"`
	Reply      string            `json:"response"`
	Flow       FlowType          `json:"flow,omitempty"`
	TicketID   string            `json:"ticket_id,omitempty"`
	Payload    *RichPayload      `json:"rich_payload,omitempty"`
	Sources    []string          `json:"sources,omitempty"`
	Step       int               `json:"step,omitempty"`
	TotalSteps int               `json:"total_steps,omitempty"`
	Completed  bool              `json:"completed,omitempty"`
	InputError bool              `json:"input_error,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ChatRequest is the inbound payload of the chat endpoint.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// Validate checks the chat request for obviously malformed input.
func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return ErrEmptyMessage
	}
	if len(r.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`            // status of the API response
	Message string      `json:"message,omitempty"` // optional message for error responses or additional info
	Result  interface{} `json:"result,omitempty"`  // optional result data for successful responses
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message and optional result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
