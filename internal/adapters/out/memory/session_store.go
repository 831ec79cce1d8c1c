// Package memory provides in-memory adapters: a session store for
// single-node and test deployments, seeded menu and directory fixtures, a
// keyword intent classifier, and a notification recorder. Everything here
// is safe for concurrent use.
package memory

import (
	"context"
	"sync"
	"time"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/session"
	"voiceorder/internal/pkg/errs"
)

// SessionStore implements ports.SessionStore on a mutex-guarded map.
// Unlike the Redis store there is no native TTL, so expired sessions linger
// until a PurgeExpired sweep or a Get trips over the deadline.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*session.Session)}
}

// Add persists a new session.
func (s *SessionStore) Add(_ context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[aggregate.ID().String()] = aggregate
	return nil
}

// Update persists changes to an existing session.
func (s *SessionStore) Update(_ context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[aggregate.ID().String()]; !ok {
		return errs.NewObjectNotFoundError("session", aggregate.ID().String())
	}
	s.sessions[aggregate.ID().String()] = aggregate
	return nil
}

// Get retrieves a session by identifier.
func (s *SessionStore) Get(_ context.Context, id kernel.UUID) (*session.Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	aggregate, ok := s.sessions[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("session", id.String())
	}
	return aggregate, nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (s *SessionStore) Delete(_ context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id.String())
	return nil
}

// PurgeExpired removes sessions whose deadline lies before now.
func (s *SessionStore) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for key, aggregate := range s.sessions {
		if aggregate.ExpiresAt().Before(now) {
			delete(s.sessions, key)
			purged++
		}
	}
	return purged, nil
}
