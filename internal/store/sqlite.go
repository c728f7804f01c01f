// Package store provides lead storage backends for the site bot.
//
// This file implements the SQLite-backed lead store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/instalogic/sitebot/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite lead store with the given DSN.
// The DSN is a file path; the containing directory is created if missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveLead(lead models.Lead) (int64, error) {
	metadataJSON, err := marshalMetadata(lead.Metadata)
	if err != nil {
		slog.Error("SQLiteStore SaveLead metadata marshal failed", "error", err, "type", lead.Type)
		return 0, err
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	now := time.Now()
	res, err := s.db.Exec(`
		INSERT INTO chatbot_leads (type, name, contact, info, status, admin_notes, ticket_id, metadata, requested_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.Type, lead.Name, lead.Contact, lead.Info, lead.Status, lead.AdminNotes,
		lead.TicketID, metadataJSON, lead.RequestedAt, now, now)
	if err != nil {
		slog.Error("SQLiteStore SaveLead failed", "error", err, "type", lead.Type)
		return 0, fmt.Errorf("failed to insert lead: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		slog.Error("SQLiteStore SaveLead LastInsertId failed", "error", err)
		return 0, err
	}
	slog.Debug("SQLiteStore SaveLead succeeded", "id", id, "type", lead.Type)
	return id, nil
}

func (s *SQLiteStore) ListLeads(status models.LeadStatus) ([]models.Lead, error) {
	query := `SELECT id, type, name, contact, info, status, admin_notes, ticket_id, metadata, requested_date, created_at, updated_at
			  FROM chatbot_leads`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("SQLiteStore ListLeads query failed", "error", err)
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			slog.Error("SQLiteStore ListLeads scan failed", "error", err)
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore ListLeads rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate lead rows: %w", err)
	}
	slog.Debug("SQLiteStore ListLeads succeeded", "count", len(leads))
	return leads, nil
}

func (s *SQLiteStore) GetLead(id int64) (*models.Lead, error) {
	row := s.db.QueryRow(`SELECT id, type, name, contact, info, status, admin_notes, ticket_id, metadata, requested_date, created_at, updated_at
						  FROM chatbot_leads WHERE id = ?`, id)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		slog.Debug("SQLiteStore GetLead not found", "id", id)
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetLead failed", "error", err, "id", id)
		return nil, err
	}
	return &lead, nil
}

func (s *SQLiteStore) UpdateLeadStatus(id int64, status models.LeadStatus) error {
	res, err := s.db.Exec(`UPDATE chatbot_leads SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now(), id)
	if err != nil {
		slog.Error("SQLiteStore UpdateLeadStatus failed", "error", err, "id", id)
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	return requireRowAffected(res, id)
}

func (s *SQLiteStore) UpdateLeadNotes(id int64, notes string) error {
	res, err := s.db.Exec(`UPDATE chatbot_leads SET admin_notes = ?, updated_at = ? WHERE id = ?`, notes, time.Now(), id)
	if err != nil {
		slog.Error("SQLiteStore UpdateLeadNotes failed", "error", err, "id", id)
		return fmt.Errorf("failed to update lead notes: %w", err)
	}
	return requireRowAffected(res, id)
}

func (s *SQLiteStore) DeleteLead(id int64) error {
	res, err := s.db.Exec(`DELETE FROM chatbot_leads WHERE id = ?`, id)
	if err != nil {
		slog.Error("SQLiteStore DeleteLead failed", "error", err, "id", id)
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return requireRowAffected(res, id)
}

func (s *SQLiteStore) GetLeadStats() (models.LeadStats, error) {
	return leadStats(s.db)
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}
