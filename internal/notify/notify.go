// Package notify alerts the support team when a conversation escalates to a
// human. The default implementation sends an SMS through Twilio.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers escalation alerts to the on-call team.
type Notifier interface {
	NotifyHandoff(ctx context.Context, ticketID, sessionID, query string) error
}

// Opts holds configuration options for the Twilio notifier.
type Opts struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

// Option defines a configuration option for the Twilio notifier.
type Option func(*Opts)

// WithAccountSID sets the Twilio account SID, overriding TWILIO_ACCOUNT_SID.
func WithAccountSID(sid string) Option {
	return func(o *Opts) { o.AccountSID = sid }
}

// WithAuthToken sets the Twilio auth token, overriding TWILIO_AUTH_TOKEN.
func WithAuthToken(token string) Option {
	return func(o *Opts) { o.AuthToken = token }
}

// WithFrom sets the sending phone number, overriding TWILIO_FROM_NUMBER.
func WithFrom(from string) Option {
	return func(o *Opts) { o.From = from }
}

// WithTo sets the on-call phone number, overriding SUPPORT_PHONE_NUMBER.
func WithTo(to string) Option {
	return func(o *Opts) { o.To = to }
}

// TwilioNotifier sends handoff alerts as SMS messages.
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
	to     string
}

// NewTwilioNotifier builds a Twilio-backed notifier. Options fall back to
// environment variables.
func NewTwilioNotifier(opts ...Option) (*TwilioNotifier, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.AccountSID == "" {
		cfg.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	}
	if cfg.AuthToken == "" {
		cfg.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	}
	if cfg.From == "" {
		cfg.From = os.Getenv("TWILIO_FROM_NUMBER")
	}
	if cfg.To == "" {
		cfg.To = os.Getenv("SUPPORT_PHONE_NUMBER")
	}
	slog.Debug("Twilio notifier config loaded",
		"AccountSID_set", cfg.AccountSID != "",
		"AuthToken_set", cfg.AuthToken != "",
		"From_set", cfg.From != "",
		"To_set", cfg.To != "")

	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("account SID and auth token must be provided")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, fmt.Errorf("from and to numbers must be provided")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioNotifier{client: client, from: cfg.From, to: cfg.To}, nil
}

// NotifyHandoff sends the escalation SMS.
func (n *TwilioNotifier) NotifyHandoff(ctx context.Context, ticketID, sessionID, query string) error {
	body := fmt.Sprintf("Escalation %s\nSession: %s\nQuery: %s", ticketID, sessionID, query)
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(body)

	_, err := n.client.Api.CreateMessage(params)
	if err != nil {
		slog.Error("Twilio NotifyHandoff failed", "ticket_id", ticketID, "error", err)
		return fmt.Errorf("failed to send handoff alert for %s: %w", ticketID, err)
	}
	slog.Info("Twilio handoff alert sent", "ticket_id", ticketID)
	return nil
}

// MockNotifier records handoff alerts for tests.
type MockNotifier struct {
	Alerts []HandoffAlert
	Err    error
}

type HandoffAlert struct {
	TicketID  string
	SessionID string
	Query     string
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{Alerts: []HandoffAlert{}}
}

func (m *MockNotifier) NotifyHandoff(ctx context.Context, ticketID, sessionID, query string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Alerts = append(m.Alerts, HandoffAlert{TicketID: ticketID, SessionID: sessionID, Query: query})
	return nil
}
