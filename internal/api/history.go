package api

import (
	"strings"
	"sync"
	"time"
)

// maxHistoryMessages caps per-session transcript length (10 exchanges).
const maxHistoryMessages = 20

// HistoryMessage is one transcript entry.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// sessionHistory is the transcript and activity record of one chat session.
type sessionHistory struct {
	Messages     []HistoryMessage
	CreatedAt    time.Time
	LastActivity time.Time
}

// historyStore keeps per-session transcripts in memory for the history and
// admin session endpoints.
type historyStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionHistory
}

func newHistoryStore() *historyStore {
	return &historyStore{sessions: make(map[string]*sessionHistory)}
}

// exists reports whether a session has a transcript.
func (h *historyStore) exists(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sessions[sessionID]
	return ok
}

// append records one message, creating the session on first sight and
// trimming the transcript to the newest maxHistoryMessages entries.
func (h *historyStore) append(sessionID, role, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sess, ok := h.sessions[sessionID]
	if !ok {
		now := time.Now()
		sess = &sessionHistory{CreatedAt: now, LastActivity: now}
		h.sessions[sessionID] = sess
	}
	sess.Messages = append(sess.Messages, HistoryMessage{Role: role, Content: content})
	if len(sess.Messages) > maxHistoryMessages {
		sess.Messages = sess.Messages[len(sess.Messages)-maxHistoryMessages:]
	}
	sess.LastActivity = time.Now()
}

// get returns a copy of the session transcript.
func (h *historyStore) get(sessionID string) (sessionHistory, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sess, ok := h.sessions[sessionID]
	if !ok {
		return sessionHistory{}, false
	}
	cp := sessionHistory{
		Messages:     append([]HistoryMessage(nil), sess.Messages...),
		CreatedAt:    sess.CreatedAt,
		LastActivity: sess.LastActivity,
	}
	return cp, true
}

// delete removes a session transcript and reports whether it existed.
func (h *historyStore) delete(sessionID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[sessionID]; !ok {
		return false
	}
	delete(h.sessions, sessionID)
	return true
}

// sessionSummary is one row of the admin session listing.
type sessionSummary struct {
	SessionID    string    `json:"session_id"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// list summarizes all sessions.
func (h *historyStore) list() []sessionSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]sessionSummary, 0, len(h.sessions))
	for id, sess := range h.sessions {
		out = append(out, sessionSummary{
			SessionID:    id,
			MessageCount: len(sess.Messages),
			CreatedAt:    sess.CreatedAt,
			LastActivity: sess.LastActivity,
		})
	}
	return out
}

// quickReplies is the intent-keyed fallback suggestion table, used when a turn
// produced no buttons.
var quickReplies = map[string][]string{
	"initial": {
		"View Our Services",
		"Request a Demo",
		"See Case Studies",
		"Contact Sales",
		"Career Opportunities",
	},
	"services": {
		"Data Analytics & BI",
		"Software Development",
		"E-Governance Solutions",
		"Training Programs",
		"Request Demo",
	},
	"demo_request": {
		"Government Sector",
		"Finance",
		"Retail",
		"Other Industry",
	},
	"contact": {
		"Schedule a Call",
		"Send Email",
		"Request Callback",
		"Chat with Sales",
	},
}

// quickReplyIntents maps keyword lists to quick-reply table keys, checked in
// order.
var quickReplyIntents = []struct {
	intent   string
	keywords []string
}{
	{"demo_request", []string{"demo", "demonstration", "poc", "proof of concept", "trial"}},
	{"contact", []string{"contact", "call", "speak to", "human", "sales"}},
	{"services", []string{"service", "what do you", "capabilities", "offerings"}},
}

// fallbackQuickReplies picks suggestions for a turn with no payload buttons.
func fallbackQuickReplies(message string) []string {
	lower := strings.ToLower(message)
	for _, rule := range quickReplyIntents {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return quickReplies[rule.intent]
			}
		}
	}
	return quickReplies["initial"]
}
