package commands

import (
	"errors"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/pkg/guard"
)

var ErrEndSessionCommandIsNotConstructed = errors.New(
	"EndSessionCommand must be created via NewEndSessionCommand constructor",
)

// EndSessionCommand represents a request to close a call session. Closing
// is idempotent: ending a session that already expired or was never opened
// is not an error.
type EndSessionCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewEndSessionCommand creates a command to close the given session.
func NewEndSessionCommand(sessionID kernel.UUID) (EndSessionCommand, error) {
	if err := sessionID.Validate(); err != nil {
		return EndSessionCommand{}, err
	}

	return EndSessionCommand{
		sessionID: sessionID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrEndSessionCommandIsNotConstructed if validation fails.
func (c EndSessionCommand) Validate() error {
	return c.guard.Validate(ErrEndSessionCommandIsNotConstructed)
}

// SessionID returns the identifier of the session to close.
func (c EndSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}
