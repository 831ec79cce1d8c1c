package commands

import (
	"context"
	"time"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/session"
	"voiceorder/internal/core/ports"
)

// BeginSessionCommandHandler handles the business logic for opening call
// sessions. New sessions always start with the customer order agent so the
// caller can begin assembling a cart right away.
type BeginSessionCommandHandler struct {
	sessionStore ports.SessionStore
	ttl          time.Duration
}

// NewBeginSessionCommandHandler creates a handler for session creation.
// The ttl is the idle deadline applied to every new session.
func NewBeginSessionCommandHandler(sessionStore ports.SessionStore, ttl time.Duration) BeginSessionCommandHandler {
	return BeginSessionCommandHandler{
		sessionStore: sessionStore,
		ttl:          ttl,
	}
}

// Handle processes the session creation command and returns the stored
// session so callers can report its expiry deadline.
func (h *BeginSessionCommandHandler) Handle(ctx context.Context, cmd BeginSessionCommand) (*session.Session, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	sess, err := session.NewSession(cmd.SessionID(), cmd.CustomerRef(), agent.CustomerOrder, time.Now().UTC(), h.ttl)
	if err != nil {
		return nil, err
	}

	if err := h.sessionStore.Add(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}
