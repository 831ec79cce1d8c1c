package commands

import (
	"context"

	"voiceorder/internal/core/ports"
)

// EndSessionCommandHandler handles call-session teardown.
type EndSessionCommandHandler struct {
	sessionStore ports.SessionStore
}

// NewEndSessionCommandHandler creates a handler for session teardown.
func NewEndSessionCommandHandler(sessionStore ports.SessionStore) EndSessionCommandHandler {
	return EndSessionCommandHandler{sessionStore: sessionStore}
}

// Handle removes the session from the store. Orders referenced by the
// session are untouched: an in-flight delivery outlives the call that
// placed it.
func (h *EndSessionCommandHandler) Handle(ctx context.Context, cmd EndSessionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.sessionStore.Delete(ctx, cmd.SessionID())
}
