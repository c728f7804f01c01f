// Package api provides lead administration handlers for sitebot endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/instalogic/sitebot/internal/models"
)

// parseLeadID extracts and validates the {leadID} path value.
func parseLeadID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("leadID"), 10, 64)
}

// listLeadsHandler handles GET /api/leads?status=NEW.
func (s *Server) listLeadsHandler(w http.ResponseWriter, r *http.Request) {
	status := models.LeadStatus(r.URL.Query().Get("status"))
	if status != "" && !models.IsValidLeadStatus(status) {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid status filter"))
		return
	}
	leads, err := s.st.ListLeads(status)
	if err != nil {
		slog.Error("Server.listLeadsHandler: list failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch leads"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"leads": leads,
		"count": len(leads),
	}))
}

// leadStatsHandler handles GET /api/leads/statistics.
func (s *Server) leadStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.st.GetLeadStats()
	if err != nil {
		slog.Error("Server.leadStatsHandler: stats failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch statistics"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"statistics": stats,
	}))
}

// getLeadHandler handles GET /api/leads/{leadID}.
func (s *Server) getLeadHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseLeadID(r)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid lead ID"))
		return
	}
	lead, err := s.st.GetLead(id)
	if err != nil {
		slog.Error("Server.getLeadHandler: get failed", "error", err, "id", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch lead"))
		return
	}
	if lead == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Lead not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"lead": lead,
	}))
}

// leadStatusRequest is the body of the status update endpoint.
type leadStatusRequest struct {
	Status string `json:"status"`
}

// updateLeadStatusHandler handles PUT /api/leads/{leadID}/status.
func (s *Server) updateLeadStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	id, err := parseLeadID(r)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid lead ID"))
		return
	}
	var req leadStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	status := models.LeadStatus(req.Status)
	if !models.IsValidLeadStatus(status) {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid status. Must be one of: NEW, CONTACTED, IN_PROGRESS, CLOSED"))
		return
	}
	if err := s.st.UpdateLeadStatus(id, status); err != nil {
		if errors.Is(err, models.ErrLeadNotFound) {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Lead not found"))
			return
		}
		slog.Error("Server.updateLeadStatusHandler: update failed", "error", err, "id", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to update status"))
		return
	}
	slog.Info("Server.updateLeadStatusHandler: status updated", "id", id, "status", status)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Lead status updated to "+string(status), nil))
}

// leadNotesRequest is the body of the notes update endpoint.
type leadNotesRequest struct {
	Notes string `json:"notes"`
}

// updateLeadNotesHandler handles PUT /api/leads/{leadID}/notes.
func (s *Server) updateLeadNotesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	id, err := parseLeadID(r)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid lead ID"))
		return
	}
	var req leadNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := s.st.UpdateLeadNotes(id, req.Notes); err != nil {
		if errors.Is(err, models.ErrLeadNotFound) {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Lead not found"))
			return
		}
		slog.Error("Server.updateLeadNotesHandler: update failed", "error", err, "id", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to update notes"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Lead notes updated", nil))
}

// deleteLeadHandler handles DELETE /api/leads/{leadID}.
func (s *Server) deleteLeadHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseLeadID(r)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid lead ID"))
		return
	}
	if err := s.st.DeleteLead(id); err != nil {
		if errors.Is(err, models.ErrLeadNotFound) {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Lead not found"))
			return
		}
		slog.Error("Server.deleteLeadHandler: delete failed", "error", err, "id", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to delete lead"))
		return
	}
	slog.Info("Server.deleteLeadHandler: lead deleted", "id", id)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Lead deleted successfully", nil))
}
