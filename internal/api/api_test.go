package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/instalogic/sitebot/internal/models"
	"github.com/instalogic/sitebot/internal/store"
)

// stubChatRouter returns a canned result and records the routed inputs.
type stubChatRouter struct {
	result   models.RoutedResult
	sessions []string
	messages []string
}

func (s *stubChatRouter) Route(ctx context.Context, sessionID, message string) models.RoutedResult {
	s.sessions = append(s.sessions, sessionID)
	s.messages = append(s.messages, message)
	return s.result
}

func newTestServer(result models.RoutedResult) (*Server, *stubChatRouter) {
	router := &stubChatRouter{result: result}
	return NewServer(router, store.NewInMemoryStore()), router
}

func postChat(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	return rec
}

func TestChatHandlerIssuesSessionID(t *testing.T) {
	srv, router := newTestServer(models.RoutedResult{
		Kind:  models.RouteKindKnowledge,
		Reply: "We offer BI dashboards.",
	})

	rec := postChat(t, srv, `{"message": "what do you offer"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("no session id issued")
	}
	if resp.Response != "We offer BI dashboards." {
		t.Errorf("response = %q", resp.Response)
	}
	if len(router.sessions) != 1 || router.sessions[0] != resp.SessionID {
		t.Error("router did not receive the issued session id")
	}
}

func TestChatHandlerReusesKnownSessionID(t *testing.T) {
	srv, router := newTestServer(models.RoutedResult{Kind: models.RouteKindKnowledge, Reply: "hi"})

	rec := postChat(t, srv, `{"message": "first"}`)
	var first chatResponse
	json.Unmarshal(rec.Body.Bytes(), &first)

	rec = postChat(t, srv, `{"message": "second", "session_id": "`+first.SessionID+`"}`)
	var second chatResponse
	json.Unmarshal(rec.Body.Bytes(), &second)

	if second.SessionID != first.SessionID {
		t.Errorf("session id changed: %q vs %q", second.SessionID, first.SessionID)
	}
	if len(router.sessions) != 2 || router.sessions[1] != first.SessionID {
		t.Error("router did not see the reused session id")
	}
}

func TestChatHandlerReplacesUnknownSessionID(t *testing.T) {
	srv, _ := newTestServer(models.RoutedResult{Kind: models.RouteKindKnowledge, Reply: "hi"})

	rec := postChat(t, srv, `{"message": "hello", "session_id": "never-seen"}`)
	var resp chatResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.SessionID == "never-seen" || resp.SessionID == "" {
		t.Errorf("unknown session id not replaced: %q", resp.SessionID)
	}
}

func TestChatHandlerRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(models.RoutedResult{})

	rec := postChat(t, srv, `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON status = %d, want 400", rec.Code)
	}

	rec = postChat(t, srv, `{"message": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty message status = %d, want 400", rec.Code)
	}
}

func TestChatHandlerQuickRepliesFromButtons(t *testing.T) {
	srv, _ := newTestServer(models.RoutedResult{
		Kind:  models.RouteKindTransaction,
		Reply: "Which industry is this for?",
		Payload: &models.RichPayload{
			Buttons: []models.Button{
				{Label: "🏛️ Government"},
				{Label: "💼 Finance"},
				{Label: "🛒 Retail"},
				{Label: "🏢 Other"},
			},
		},
	})

	rec := postChat(t, srv, `{"message": "book a demo"}`)
	var resp chatResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	want := []string{"🏛️ Government", "💼 Finance", "🛒 Retail", "🏢 Other"}
	if len(resp.QuickReplies) != len(want) {
		t.Fatalf("quick replies = %v", resp.QuickReplies)
	}
	for i := range want {
		if resp.QuickReplies[i] != want[i] {
			t.Errorf("quick reply %d = %q, want %q", i, resp.QuickReplies[i], want[i])
		}
	}
}

func TestChatHandlerQuickRepliesFallback(t *testing.T) {
	srv, _ := newTestServer(models.RoutedResult{Kind: models.RouteKindKnowledge, Reply: "answer"})

	rec := postChat(t, srv, `{"message": "I want a demo"}`)
	var resp chatResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.QuickReplies) == 0 {
		t.Fatal("no fallback quick replies")
	}
	if resp.QuickReplies[0] != "Government Sector" {
		t.Errorf("demo fallback replies = %v", resp.QuickReplies)
	}

	rec = postChat(t, srv, `{"message": "blah blah"}`)
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.QuickReplies[0] != "View Our Services" {
		t.Errorf("initial fallback replies = %v", resp.QuickReplies)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	srv, _ := newTestServer(models.RoutedResult{Kind: models.RouteKindKnowledge, Reply: "answer"})

	rec := postChat(t, srv, `{"message": "hello"}`)
	var resp chatResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	sid := resp.SessionID

	// History holds the user message and the reply.
	req := httptest.NewRequest(http.MethodGet, "/api/chat/history/"+sid, nil)
	hrec := httptest.NewRecorder()
	srv.routes().ServeHTTP(hrec, req)
	if hrec.Code != http.StatusOK {
		t.Fatalf("history status = %d", hrec.Code)
	}
	var envelope struct {
		Status string `json:"status"`
		Result struct {
			SessionID string           `json:"session_id"`
			Messages  []HistoryMessage `json:"messages"`
		} `json:"result"`
	}
	if err := json.Unmarshal(hrec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(envelope.Result.Messages) != 2 {
		t.Fatalf("history messages = %v", envelope.Result.Messages)
	}
	if envelope.Result.Messages[0].Role != "user" || envelope.Result.Messages[1].Role != "assistant" {
		t.Errorf("history roles = %v", envelope.Result.Messages)
	}

	// Sessions listing includes it.
	req = httptest.NewRequest(http.MethodGet, "/api/chat/sessions", nil)
	srec := httptest.NewRecorder()
	srv.routes().ServeHTTP(srec, req)
	if srec.Code != http.StatusOK {
		t.Fatalf("sessions status = %d", srec.Code)
	}

	// Delete then 404 on history.
	req = httptest.NewRequest(http.MethodDelete, "/api/chat/session/"+sid, nil)
	drec := httptest.NewRecorder()
	srv.routes().ServeHTTP(drec, req)
	if drec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", drec.Code)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/chat/history/"+sid, nil)
	hrec = httptest.NewRecorder()
	srv.routes().ServeHTTP(hrec, req)
	if hrec.Code != http.StatusNotFound {
		t.Errorf("history after delete status = %d, want 404", hrec.Code)
	}
}

func TestHistoryUnknownSession(t *testing.T) {
	srv, _ := newTestServer(models.RoutedResult{})
	req := httptest.NewRequest(http.MethodGet, "/api/chat/history/nope", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	srv, _ := newTestServer(models.RoutedResult{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != string(models.APIStatusOK) {
		t.Errorf("status field = %q", resp.Status)
	}
}

func newLeadTestServer(t *testing.T) (*Server, *store.InMemoryStore, int64) {
	t.Helper()
	st := store.NewInMemoryStore()
	lead := models.NewDemoLead(map[models.DataKey]string{
		models.DataKeyName:     "Jane Doe",
		models.DataKeyEmail:    "jane@co.com",
		models.DataKeyIndustry: "Finance",
	}, "AB12CD34")
	id, err := st.SaveLead(lead)
	if err != nil {
		t.Fatalf("SaveLead: %v", err)
	}
	srv := NewServer(&stubChatRouter{}, st)
	return srv, st, id
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	return rec
}

func TestListLeadsHandler(t *testing.T) {
	srv, _, _ := newLeadTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/leads", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var envelope struct {
		Result struct {
			Count int           `json:"count"`
			Leads []models.Lead `json:"leads"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Result.Count != 1 || len(envelope.Result.Leads) != 1 {
		t.Fatalf("leads = %+v", envelope.Result)
	}
	if envelope.Result.Leads[0].Name != "Jane Doe" {
		t.Errorf("lead name = %q", envelope.Result.Leads[0].Name)
	}

	// Status filter excludes the NEW lead.
	rec = doJSON(t, srv, http.MethodGet, "/api/leads?status=CLOSED", "")
	json.Unmarshal(rec.Body.Bytes(), &envelope)
	if envelope.Result.Count != 0 {
		t.Errorf("filtered count = %d, want 0", envelope.Result.Count)
	}

	// Bad filter value rejected.
	rec = doJSON(t, srv, http.MethodGet, "/api/leads?status=BOGUS", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad filter status = %d, want 400", rec.Code)
	}
}

func TestGetLeadHandler(t *testing.T) {
	srv, _, id := newLeadTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/leads/"+strconv.FormatInt(id, 10), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/leads/9999", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing lead status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/leads/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

func TestUpdateLeadStatusHandler(t *testing.T) {
	srv, st, id := newLeadTestServer(t)
	path := "/api/leads/" + strconv.FormatInt(id, 10) + "/status"

	rec := doJSON(t, srv, http.MethodPut, path, `{"status": "CONTACTED"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	lead, err := st.GetLead(id)
	if err != nil || lead == nil {
		t.Fatalf("GetLead: %v %v", lead, err)
	}
	if lead.Status != models.LeadStatusContacted {
		t.Errorf("lead status = %q", lead.Status)
	}

	rec = doJSON(t, srv, http.MethodPut, path, `{"status": "WAT"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid vocabulary status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/leads/9999/status", `{"status": "CLOSED"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing lead status = %d, want 404", rec.Code)
	}
}

func TestUpdateLeadNotesHandler(t *testing.T) {
	srv, st, id := newLeadTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/leads/"+strconv.FormatInt(id, 10)+"/notes", `{"notes": "called back"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	lead, _ := st.GetLead(id)
	if lead.AdminNotes != "called back" {
		t.Errorf("notes = %q", lead.AdminNotes)
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/leads/9999/notes", `{"notes": "x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing lead status = %d, want 404", rec.Code)
	}
}

func TestDeleteLeadHandler(t *testing.T) {
	srv, st, id := newLeadTestServer(t)

	rec := doJSON(t, srv, http.MethodDelete, "/api/leads/"+strconv.FormatInt(id, 10), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if lead, _ := st.GetLead(id); lead != nil {
		t.Error("lead still present after delete")
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/leads/9999", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing lead status = %d, want 404", rec.Code)
	}
}

func TestLeadStatsHandler(t *testing.T) {
	srv, _, _ := newLeadTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/leads/statistics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var envelope struct {
		Result struct {
			Statistics models.LeadStats `json:"statistics"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Result.Statistics.Total != 1 {
		t.Errorf("total = %d, want 1", envelope.Result.Statistics.Total)
	}
}
