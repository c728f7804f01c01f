package store

import (
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/instalogic/sitebot/internal/models"
)

// rowScanner abstracts *sql.Row and *sql.Rows so scanLead serves both.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (models.Lead, error) {
	var lead models.Lead
	var info, adminNotes, ticketID, metadataJSON sql.NullString
	var requestedDate sql.NullTime

	err := row.Scan(&lead.ID, &lead.Type, &lead.Name, &lead.Contact, &info,
		&lead.Status, &adminNotes, &ticketID, &metadataJSON, &requestedDate,
		&lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return lead, err
	}

	lead.Info = info.String
	lead.AdminNotes = adminNotes.String
	lead.TicketID = ticketID.String
	if requestedDate.Valid {
		lead.RequestedAt = requestedDate.Time
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		lead.Metadata = make(map[string]string)
		if err := json.Unmarshal([]byte(metadataJSON.String), &lead.Metadata); err != nil {
			// Continue with empty metadata rather than failing the read.
			slog.Error("Lead metadata unmarshal failed", "error", err, "id", lead.ID)
			lead.Metadata = nil
		}
	}
	return lead, nil
}

func marshalMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "", nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func requireRowAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		slog.Debug("Lead update matched no rows", "id", id)
		return models.ErrLeadNotFound
	}
	return nil
}

func leadStats(db *sql.DB) (models.LeadStats, error) {
	stats := models.LeadStats{
		ByStatus: make(map[models.LeadStatus]int),
		ByType:   make(map[models.LeadType]int),
	}

	rows, err := db.Query(`SELECT type, status, COUNT(*) FROM chatbot_leads GROUP BY type, status`)
	if err != nil {
		slog.Error("Lead stats query failed", "error", err)
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var leadType models.LeadType
		var status models.LeadStatus
		var count int
		if err := rows.Scan(&leadType, &status, &count); err != nil {
			slog.Error("Lead stats scan failed", "error", err)
			return stats, err
		}
		stats.Total += count
		stats.ByStatus[status] += count
		stats.ByType[leadType] += count
	}
	return stats, rows.Err()
}
