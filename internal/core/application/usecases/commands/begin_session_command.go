package commands

import (
	"errors"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/pkg/guard"
)

var (
	ErrBeginSessionCommandIsNotConstructed = errors.New(
		"BeginSessionCommand must be created via NewBeginSessionCommand constructor",
	)
	ErrCustomerRefIsRequired = errors.New("customer reference is required")
)

// BeginSessionCommand represents a request to start a new call session.
// The session opens with the order-taking agent active and an empty
// transcript.
//
// Example:
//
//	sessionID := kernel.NewUUID()
//	cmd, err := NewBeginSessionCommand(sessionID, "caller_42")
//	if err != nil {
//	    return fmt.Errorf("invalid session data: %w", err)
//	}
//
//	handler := NewBeginSessionCommandHandler(sessionStore, 30*time.Minute)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to begin session: %w", err)
//	}
type BeginSessionCommand struct { //nolint:recvcheck //using for validation
	sessionID   kernel.UUID
	customerRef string

	guard guard.ConstructorGuard
}

// NewBeginSessionCommand creates a command to open a call session.
// Validates that the session ID is valid and the customer reference is not
// empty.
func NewBeginSessionCommand(sessionID kernel.UUID, customerRef string) (BeginSessionCommand, error) {
	sessionCommand := BeginSessionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		sessionCommand.setSessionID(sessionID),
		sessionCommand.setCustomerRef(customerRef),
	); err != nil {
		return BeginSessionCommand{}, err
	}

	return sessionCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrBeginSessionCommandIsNotConstructed if validation fails.
func (c BeginSessionCommand) Validate() error {
	return c.guard.Validate(ErrBeginSessionCommandIsNotConstructed)
}

// SessionID returns the unique identifier for the session.
func (c BeginSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// CustomerRef returns the caller's customer reference.
func (c BeginSessionCommand) CustomerRef() string {
	return c.customerRef
}

func (c *BeginSessionCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *BeginSessionCommand) setCustomerRef(customerRef string) error {
	if customerRef == "" {
		return ErrCustomerRefIsRequired
	}

	c.customerRef = customerRef
	return nil
}
