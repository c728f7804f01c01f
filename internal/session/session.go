// Package session keeps per-conversation flow state in memory.
package session

import (
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/instalogic/sitebot/internal/models"
)

const shardCount = 16

// Session is the mutable state of one conversation. State is the current flow
// step ("" when no flow is active) and Fields accumulates the answers collected
// so far.
type Session struct {
	State       models.StateType
	Fields      map[models.DataKey]string
	CreatedAt   time.Time
	LastUpdated time.Time
}

// Store is a sharded in-memory session registry. Each shard holds its own
// mutex so concurrent conversations on different sessions never contend.
type Store struct {
	shards [shardCount]*shard
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[string]*Session)}
	}
	return s
}

func (s *Store) shardFor(sessionID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return s.shards[h.Sum32()%shardCount]
}

// GetOrCreate returns a copy of the session for sessionID, creating an idle
// session on first sight. Callers get a copy so reads never race with Update.
func (s *Store) GetOrCreate(sessionID string) Session {
	sh := s.shardFor(sessionID)

	sh.mu.RLock()
	sess, ok := sh.sessions[sessionID]
	if ok {
		cp := copySession(sess)
		sh.mu.RUnlock()
		return cp
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sess, ok = sh.sessions[sessionID]; ok {
		return copySession(sess)
	}
	now := time.Now()
	sess = &Session{
		State:       models.StateIdle,
		Fields:      make(map[models.DataKey]string),
		CreatedAt:   now,
		LastUpdated: now,
	}
	sh.sessions[sessionID] = sess
	slog.Debug("Session store created session", "session_id", sessionID)
	return copySession(sess)
}

// Update sets the session's state and merges fields into the accumulated
// answers. Keys present in fields overwrite existing values; keys absent from
// fields are untouched.
func (s *Store) Update(sessionID string, state models.StateType, fields map[models.DataKey]string) {
	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[sessionID]
	if !ok {
		sess = &Session{
			Fields:    make(map[models.DataKey]string),
			CreatedAt: time.Now(),
		}
		sh.sessions[sessionID] = sess
	}
	sess.State = state
	for k, v := range fields {
		sess.Fields[k] = v
	}
	sess.LastUpdated = time.Now()
}

// Clear resets the session to idle and drops all collected fields. The session
// itself survives so CreatedAt is preserved across flows.
func (s *Store) Clear(sessionID string) {
	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[sessionID]
	if !ok {
		return
	}
	sess.State = models.StateIdle
	sess.Fields = make(map[models.DataKey]string)
	sess.LastUpdated = time.Now()
	slog.Debug("Session store cleared session", "session_id", sessionID)
}

func copySession(sess *Session) Session {
	cp := Session{
		State:       sess.State,
		Fields:      make(map[models.DataKey]string, len(sess.Fields)),
		CreatedAt:   sess.CreatedAt,
		LastUpdated: sess.LastUpdated,
	}
	for k, v := range sess.Fields {
		cp.Fields[k] = v
	}
	return cp
}
