package commands

import (
	"context"
	"time"

	"voiceorder/internal/core/ports"
)

// PurgeExpiredSessionsCommandHandler removes sessions past their idle
// deadline from the store.
type PurgeExpiredSessionsCommandHandler struct {
	sessionStore ports.SessionStore
}

// NewPurgeExpiredSessionsCommandHandler creates a handler for the session sweep.
func NewPurgeExpiredSessionsCommandHandler(sessionStore ports.SessionStore) PurgeExpiredSessionsCommandHandler {
	return PurgeExpiredSessionsCommandHandler{sessionStore: sessionStore}
}

// Handle runs one sweep and returns how many sessions were removed.
func (h *PurgeExpiredSessionsCommandHandler) Handle(ctx context.Context, cmd PurgeExpiredSessionsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	return h.sessionStore.PurgeExpired(ctx, time.Now().UTC())
}
