package commands

import (
	"errors"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/pkg/guard"
)

var (
	ErrHandleTurnCommandIsNotConstructed = errors.New(
		"HandleTurnCommand must be created via NewHandleTurnCommand constructor",
	)
	ErrUtteranceIsRequired = errors.New("utterance is required")
)

// HandleTurnCommand represents one caller utterance applied to a session.
// This is the system's main write operation: each turn may move the active
// agent, mutate the draft order, and trigger collaborator notifications.
//
// Example:
//
//	cmd, err := NewHandleTurnCommand(sessionID, "one margherita pizza please")
//	if err != nil {
//	    return fmt.Errorf("invalid turn: %w", err)
//	}
//
//	handler := NewHandleTurnCommandHandler(uowFactory, sessionStore, orchestrator, classifier, sink, logger)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("turn failed: %w", err)
//	}
//	fmt.Println(result.Reply)
type HandleTurnCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	utterance string
	intent    agent.Intent

	guard guard.ConstructorGuard
}

// NewHandleTurnCommand creates a command for one caller turn.
// Validates that the session ID is valid and the utterance is not empty.
func NewHandleTurnCommand(sessionID kernel.UUID, utterance string) (HandleTurnCommand, error) {
	turnCommand := HandleTurnCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		turnCommand.setSessionID(sessionID),
		turnCommand.setUtterance(utterance),
	); err != nil {
		return HandleTurnCommand{}, err
	}

	return turnCommand, nil
}

// NewHandleTurnCommandWithIntent creates a command for a turn the upstream
// voice pipeline has already classified. The supplied tag is authoritative;
// the handler will not run its own classifier for this turn.
func NewHandleTurnCommandWithIntent(
	sessionID kernel.UUID,
	utterance string,
	intent agent.Intent,
) (HandleTurnCommand, error) {
	turnCommand, err := NewHandleTurnCommand(sessionID, utterance)
	if err != nil {
		return HandleTurnCommand{}, err
	}
	if err := turnCommand.setIntent(intent); err != nil {
		return HandleTurnCommand{}, err
	}
	return turnCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrHandleTurnCommandIsNotConstructed if validation fails.
func (c HandleTurnCommand) Validate() error {
	return c.guard.Validate(ErrHandleTurnCommandIsNotConstructed)
}

// SessionID returns the identifier of the session this turn belongs to.
func (c HandleTurnCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// Utterance returns the raw caller text.
func (c HandleTurnCommand) Utterance() string {
	return c.utterance
}

// Intent returns the upstream-supplied intent tag, or IntentUnknown when
// the turn arrived unclassified.
func (c HandleTurnCommand) Intent() agent.Intent {
	if c.intent == "" {
		return agent.IntentUnknown
	}
	return c.intent
}

func (c *HandleTurnCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *HandleTurnCommand) setUtterance(utterance string) error {
	if utterance == "" {
		return ErrUtteranceIsRequired
	}

	c.utterance = utterance
	return nil
}

func (c *HandleTurnCommand) setIntent(intent agent.Intent) error {
	parsed, err := agent.IntentFromString(intent.String())
	if err != nil {
		return err
	}

	c.intent = parsed
	return nil
}
