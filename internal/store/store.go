// Package store provides lead storage backends for the site bot.
//
// It includes an in-memory store for tests and development, plus SQLite and
// PostgreSQL backed stores for deployment.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/instalogic/sitebot/internal/models"
)

// Store is the persistence interface for captured leads.
type Store interface {
	// SaveLead persists a lead and returns its assigned ID.
	SaveLead(lead models.Lead) (int64, error)
	// ListLeads returns leads newest first, optionally filtered by status
	// (empty status means all).
	ListLeads(status models.LeadStatus) ([]models.Lead, error)
	// GetLead fetches a single lead by ID, nil when absent.
	GetLead(id int64) (*models.Lead, error)
	UpdateLeadStatus(id int64, status models.LeadStatus) error
	UpdateLeadNotes(id int64, notes string) error
	DeleteLead(id int64) error
	GetLeadStats() (models.LeadStats, error)
	Close() error
}

// Opts holds configuration options for store creation.
type Opts struct {
	DSN string
}

// Option defines a functional option for store configuration.
type Option func(*Opts)

// WithSQLiteDSN sets the SQLite file path for the store.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets the PostgreSQL connection string for the store.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType inspects a DSN and reports "postgres" or "sqlite".
// Anything that does not look like a Postgres URL or key=value connection
// string is treated as a SQLite file path.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	if strings.Contains(dsn, "host=") || strings.Contains(dsn, "dbname=") {
		return "postgres"
	}
	return "sqlite"
}

// InMemoryStore is a mutex-guarded map-backed Store for tests and development.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	leads  map[int64]models.Lead
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, leads: make(map[int64]models.Lead)}
}

func (s *InMemoryStore) SaveLead(lead models.Lead) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead.ID = s.nextID
	s.nextID++
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	s.leads[lead.ID] = lead
	return lead.ID, nil
}

func (s *InMemoryStore) ListLeads(status models.LeadStatus) ([]models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Lead
	for _, l := range s.leads {
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *InMemoryStore) GetLead(id int64) (*models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leads[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (s *InMemoryStore) UpdateLeadStatus(id int64, status models.LeadStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[id]
	if !ok {
		return models.ErrLeadNotFound
	}
	l.Status = status
	l.UpdatedAt = time.Now()
	s.leads[id] = l
	return nil
}

func (s *InMemoryStore) UpdateLeadNotes(id int64, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[id]
	if !ok {
		return models.ErrLeadNotFound
	}
	l.AdminNotes = notes
	l.UpdatedAt = time.Now()
	s.leads[id] = l
	return nil
}

func (s *InMemoryStore) DeleteLead(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leads[id]; !ok {
		return models.ErrLeadNotFound
	}
	delete(s.leads, id)
	return nil
}

func (s *InMemoryStore) GetLeadStats() (models.LeadStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := models.LeadStats{
		ByStatus: make(map[models.LeadStatus]int),
		ByType:   make(map[models.LeadType]int),
	}
	for _, l := range s.leads {
		stats.Total++
		stats.ByStatus[l.Status]++
		stats.ByType[l.Type]++
	}
	return stats, nil
}

func (s *InMemoryStore) Close() error { return nil }
