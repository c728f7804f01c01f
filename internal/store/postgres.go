// Package store provides lead storage backends for the site bot.
//
// This file implements the PostgreSQL-backed lead store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/instalogic/sitebot/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres lead store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) SaveLead(lead models.Lead) (int64, error) {
	metadataJSON, err := marshalMetadata(lead.Metadata)
	if err != nil {
		slog.Error("PostgresStore SaveLead metadata marshal failed", "error", err, "type", lead.Type)
		return 0, err
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	now := time.Now()
	var metadataArg any
	if metadataJSON != "" {
		metadataArg = metadataJSON
	}
	var id int64
	err = s.db.QueryRow(`
		INSERT INTO chatbot_leads (type, name, contact, info, status, admin_notes, ticket_id, metadata, requested_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		lead.Type, lead.Name, lead.Contact, lead.Info, lead.Status, lead.AdminNotes,
		lead.TicketID, metadataArg, lead.RequestedAt, now, now).Scan(&id)
	if err != nil {
		slog.Error("PostgresStore SaveLead failed", "error", err, "type", lead.Type)
		return 0, fmt.Errorf("failed to insert lead: %w", err)
	}
	slog.Debug("PostgresStore SaveLead succeeded", "id", id, "type", lead.Type)
	return id, nil
}

func (s *PostgresStore) ListLeads(status models.LeadStatus) ([]models.Lead, error) {
	query := `SELECT id, type, name, contact, info, status, admin_notes, ticket_id, metadata, requested_date, created_at, updated_at
			  FROM chatbot_leads`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("PostgresStore ListLeads query failed", "error", err)
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			slog.Error("PostgresStore ListLeads scan failed", "error", err)
			return nil, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore ListLeads rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate lead rows: %w", err)
	}
	slog.Debug("PostgresStore ListLeads succeeded", "count", len(leads))
	return leads, nil
}

func (s *PostgresStore) GetLead(id int64) (*models.Lead, error) {
	row := s.db.QueryRow(`SELECT id, type, name, contact, info, status, admin_notes, ticket_id, metadata, requested_date, created_at, updated_at
						  FROM chatbot_leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetLead not found", "id", id)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetLead failed", "error", err, "id", id)
		return nil, err
	}
	return &lead, nil
}

func (s *PostgresStore) UpdateLeadStatus(id int64, status models.LeadStatus) error {
	res, err := s.db.Exec(`UPDATE chatbot_leads SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		slog.Error("PostgresStore UpdateLeadStatus failed", "error", err, "id", id)
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	return requireRowAffected(res, id)
}

func (s *PostgresStore) UpdateLeadNotes(id int64, notes string) error {
	res, err := s.db.Exec(`UPDATE chatbot_leads SET admin_notes = $1, updated_at = $2 WHERE id = $3`, notes, time.Now(), id)
	if err != nil {
		slog.Error("PostgresStore UpdateLeadNotes failed", "error", err, "id", id)
		return fmt.Errorf("failed to update lead notes: %w", err)
	}
	return requireRowAffected(res, id)
}

func (s *PostgresStore) DeleteLead(id int64) error {
	res, err := s.db.Exec(`DELETE FROM chatbot_leads WHERE id = $1`, id)
	if err != nil {
		slog.Error("PostgresStore DeleteLead failed", "error", err, "id", id)
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return requireRowAffected(res, id)
}

func (s *PostgresStore) GetLeadStats() (models.LeadStats, error) {
	return leadStats(s.db)
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
