package ports

import (
	"context"
	"time"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/session"
)

// SessionStore defines the persistence contract for call sessions. Sessions
// are short-lived and TTL-bound, so the store is a key-value contract rather
// than part of the order unit of work: a Redis-backed store applies the TTL
// natively, the in-memory store relies on PurgeExpired sweeps plus the
// aggregate's lazy expiry check.
type SessionStore interface {
	// Add persists a new session.
	Add(ctx context.Context, aggregate *session.Session) error

	// Update persists changes to an existing session and refreshes its TTL.
	Update(ctx context.Context, aggregate *session.Session) error

	// Get retrieves a session by its identifier. Returns an
	// errs.ObjectNotFoundError if the session does not exist or the backing
	// store already evicted it.
	Get(ctx context.Context, id kernel.UUID) (*session.Session, error)

	// Delete removes a session at call end. Deleting an absent session is
	// not an error.
	Delete(ctx context.Context, id kernel.UUID) error

	// PurgeExpired removes sessions whose deadline lies before now and
	// returns how many were removed. TTL-native backends may have nothing
	// to do here.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}
