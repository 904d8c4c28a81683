// Package session keeps uploaded datasets in memory between dashboard
// requests. Nothing is persisted; a session disappears once it has been idle
// for longer than the configured TTL.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	"github.com/couchcryptid/recruit-map-etl/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Session is one uploaded batch and the dataset built from it.
type Session struct {
	ID         string
	Dataset    domain.Dataset
	CreatedAt  time.Time
	LastAccess time.Time
}

// Store holds sessions keyed by ID. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	clock    clockwork.Clock
	metrics  *observability.Metrics
}

// NewStore creates a Store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		clock:    clock,
		metrics:  metrics,
	}
}

// Create stores ds under a fresh random ID.
func (s *Store) Create(ds domain.Dataset) Session {
	now := s.clock.Now()
	sess := &Session{
		ID:         uuid.NewString(),
		Dataset:    ds,
		CreatedAt:  now,
		LastAccess: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.ActiveSessions.Set(float64(n))
	return *sess
}

// Get returns the session and marks it as used. Expired sessions are removed
// and reported as ErrNotFound.
func (s *Store) Get(id string) (Session, error) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if s.expired(sess, now) {
		delete(s.sessions, id)
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
		return Session{}, ErrNotFound
	}
	sess.LastAccess = now
	return *sess, nil
}

// Delete removes a session. Unknown IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.ActiveSessions.Set(float64(n))
}

// Len returns the number of sessions held, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops every expired session and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return removed
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.Sweep()
		}
	}
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return now.Sub(sess.LastAccess) > s.ttl
}
