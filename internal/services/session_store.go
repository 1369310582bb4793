package services

import (
	"log"
	"sync"
	"time"

	"honeynet/internal/models"
)

// SessionStore owns all conversation state. Sessions are created lazily on
// first append and live in memory for the process lifetime unless the
// retention sweeper removes them.
//
// Turns for different sessions proceed fully in parallel; turns for the same
// session serialize on that session's own mutex, held only across the
// append+aggregate step. No oracle call ever runs under a session lock.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session models.Session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
	}
}

func (s *SessionStore) getOrCreate(sessionID string) *sessionEntry {
	s.mu.RLock()
	entry, exists := s.sessions[sessionID]
	s.mu.RUnlock()
	if exists {
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another turn may have created it between the two locks.
	if entry, exists = s.sessions[sessionID]; exists {
		return entry
	}

	now := time.Now()
	entry = &sessionEntry{
		session: models.Session{
			ID:             sessionID,
			Turns:          []models.Turn{},
			Aggregate:      models.NewIntelligenceSet(),
			CreatedAt:      now,
			LastActivityAt: now,
		},
	}
	s.sessions[sessionID] = entry
	log.Printf("✅ Session created: %s (Total: %d)", sessionID, len(s.sessions))
	return entry
}

// Recent returns up to k most recent turns of a session, oldest first.
// An unknown session yields no context; it is not created.
func (s *SessionStore) Recent(sessionID string, k int) []models.Turn {
	s.mu.RLock()
	entry, exists := s.sessions[sessionID]
	s.mu.RUnlock()
	if !exists || k <= 0 {
		return nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	turns := entry.session.Turns
	if len(turns) > k {
		turns = turns[len(turns)-k:]
	}
	out := make([]models.Turn, len(turns))
	copy(out, turns)
	return out
}

// Append records a completed turn, assigns its immutable index, and unions
// its extracted intelligence into the session aggregate. This is the only
// state mutation in the pipeline. Returns the stored turn and a snapshot of
// the updated aggregate.
func (s *SessionStore) Append(sessionID string, turn models.Turn) (models.Turn, models.IntelligenceSet) {
	entry := s.getOrCreate(sessionID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	turn.Index = len(entry.session.Turns)
	entry.session.Turns = append(entry.session.Turns, turn)
	entry.session.Aggregate.Merge(turn.Intelligence)
	entry.session.LastActivityAt = time.Now()

	return turn, entry.session.Aggregate.Clone()
}

// History returns a snapshot of a session's full turn log and aggregate.
// Unknown IDs surface ErrSessionNotFound rather than an empty session.
func (s *SessionStore) History(sessionID string) (models.Session, error) {
	s.mu.RLock()
	entry, exists := s.sessions[sessionID]
	s.mu.RUnlock()
	if !exists {
		return models.Session{}, ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	snapshot := models.Session{
		ID:             entry.session.ID,
		Turns:          make([]models.Turn, len(entry.session.Turns)),
		Aggregate:      entry.session.Aggregate.Clone(),
		CreatedAt:      entry.session.CreatedAt,
		LastActivityAt: entry.session.LastActivityAt,
	}
	copy(snapshot.Turns, entry.session.Turns)
	return snapshot, nil
}

// Aggregate returns a snapshot of the running intelligence aggregate for a
// session, or an empty set for unknown IDs.
func (s *SessionStore) Aggregate(sessionID string) models.IntelligenceSet {
	s.mu.RLock()
	entry, exists := s.sessions[sessionID]
	s.mu.RUnlock()
	if !exists {
		return models.NewIntelligenceSet()
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session.Aggregate.Clone()
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than ttl and returns how many were
// dropped. Called by the retention sweeper; a ttl of zero removes nothing.
func (s *SessionStore) Sweep(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		entry.mu.Lock()
		idle := entry.session.LastActivityAt.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("🧹 Session sweep removed %d idle sessions (Total: %d)", removed, len(s.sessions))
	}
	return removed
}
