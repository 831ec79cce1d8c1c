package commands

import (
	"errors"

	"voiceorder/internal/pkg/guard"
)

var ErrPurgeExpiredSessionsCommandIsNotConstructed = errors.New(
	"PurgeExpiredSessionsCommand must be created via NewPurgeExpiredSessionsCommand constructor",
)

// PurgeExpiredSessionsCommand sweeps sessions whose idle deadline has
// passed. Expiry is otherwise lazy, so the sweep exists to reclaim storage
// for sessions nobody ever touched again.
type PurgeExpiredSessionsCommand struct {
	guard guard.ConstructorGuard
}

// NewPurgeExpiredSessionsCommand creates the parameterless sweep command.
func NewPurgeExpiredSessionsCommand() PurgeExpiredSessionsCommand {
	return PurgeExpiredSessionsCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
// Returns ErrPurgeExpiredSessionsCommandIsNotConstructed if validation fails.
func (c PurgeExpiredSessionsCommand) Validate() error {
	return c.guard.Validate(ErrPurgeExpiredSessionsCommandIsNotConstructed)
}
