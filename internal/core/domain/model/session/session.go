// Package session provides the per-call conversational state: transcript,
// active agent, draft order reference, and the handoff log. A session lives
// for one phone call, or until its idle TTL lapses.
package session

import (
	"errors"
	"fmt"
	"time"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/pkg/errs"
)

var (
	// ErrSessionIsNotConstructed is returned when a Session instance was not
	// created through NewSession or RestoreSession.
	ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession or RestoreSession")

	// ErrSessionExpired is the unwrap target for any access to a session
	// whose idle TTL has lapsed.
	ErrSessionExpired = errors.New("session expired")
)

// SessionExpiredError reports access to a session past its expiry timestamp.
type SessionExpiredError struct {
	SessionID kernel.UUID
	ExpiredAt time.Time
}

// NewSessionExpiredError creates a SessionExpiredError for the given session.
func NewSessionExpiredError(sessionID kernel.UUID, expiredAt time.Time) *SessionExpiredError {
	return &SessionExpiredError{SessionID: sessionID, ExpiredAt: expiredAt}
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("%s: session %s expired at %s", ErrSessionExpired, e.SessionID, e.ExpiredAt.Format(time.RFC3339))
}

func (e *SessionExpiredError) Unwrap() error {
	return ErrSessionExpired
}

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerCaller Speaker = "caller"
	SpeakerAgent  Speaker = "agent"
)

// Utterance is one entry of the append-only call transcript.
type Utterance struct {
	Speaker Speaker
	Text    string
	At      time.Time
}

// Handoff is one entry of the append-only handoff log.
type Handoff struct {
	From   agent.ID
	To     agent.ID
	Reason string
	At     time.Time
}

// Session is the aggregate for one active call. It owns the transcript, the
// active agent, and a weak reference to the draft order the call is
// assembling. Expiry is checked lazily on every access rather than by a
// background timer, keeping the core deterministic.
type Session struct {
	id          kernel.UUID
	customerRef string
	activeAgent agent.ID
	transcript  []Utterance
	draftOrder  *kernel.UUID
	handoffs    []Handoff
	createdAt   time.Time
	expiresAt   time.Time
	ttl         time.Duration

	isConstructed bool
}

// NewSession starts a session for a call from customerRef, with the given
// initial agent and idle TTL.
func NewSession(
	id kernel.UUID,
	customerRef string,
	initialAgent agent.ID,
	now time.Time,
	ttl time.Duration,
) (*Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if customerRef == "" {
		return nil, errs.NewValueIsRequiredError("customer reference")
	}
	if err := initialAgent.Validate(); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("ttl", fmt.Errorf("%s is not positive", ttl))
	}

	return &Session{
		id:            id,
		customerRef:   customerRef,
		activeAgent:   initialAgent,
		createdAt:     now,
		expiresAt:     now.Add(ttl),
		ttl:           ttl,
		isConstructed: true,
	}, nil
}

// RestoreSession reconstructs a session from persistence.
func RestoreSession(
	id kernel.UUID,
	customerRef string,
	activeAgent agent.ID,
	transcript []Utterance,
	draftOrder *kernel.UUID,
	handoffs []Handoff,
	createdAt time.Time,
	expiresAt time.Time,
	ttl time.Duration,
) (*Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if customerRef == "" {
		return nil, errs.NewValueIsRequiredError("customer reference")
	}
	if err := activeAgent.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		id:            id,
		customerRef:   customerRef,
		activeAgent:   activeAgent,
		transcript:    append([]Utterance(nil), transcript...),
		draftOrder:    draftOrder,
		handoffs:      append([]Handoff(nil), handoffs...),
		createdAt:     createdAt,
		expiresAt:     expiresAt,
		ttl:           ttl,
		isConstructed: true,
	}, nil
}

// Validate ensures the Session instance was properly constructed.
func (s *Session) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSessionIsNotConstructed
	}
	return nil
}

// ID returns the session identifier.
func (s *Session) ID() kernel.UUID {
	return s.id
}

// CustomerRef returns the caller's opaque identity.
func (s *Session) CustomerRef() string {
	return s.customerRef
}

// ActiveAgent returns the agent currently handling the call.
func (s *Session) ActiveAgent() agent.ID {
	return s.activeAgent
}

// Transcript returns a copy of the append-only transcript.
func (s *Session) Transcript() []Utterance {
	return append([]Utterance(nil), s.transcript...)
}

// DraftOrderID returns the referenced order, nil if none is attached. The
// reference is weak: the order outlives the session once placed.
func (s *Session) DraftOrderID() *kernel.UUID {
	return s.draftOrder
}

// Handoffs returns a copy of the append-only handoff log.
func (s *Session) Handoffs() []Handoff {
	return append([]Handoff(nil), s.handoffs...)
}

// CreatedAt returns when the call started.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// ExpiresAt returns the current expiry deadline.
func (s *Session) ExpiresAt() time.Time {
	return s.expiresAt
}

// TTL returns the configured idle timeout.
func (s *Session) TTL() time.Duration {
	return s.ttl
}

// CheckExpired returns SessionExpiredError if the idle deadline has passed.
// Every access path through the orchestrator calls this before touching the
// session.
func (s *Session) CheckExpired(now time.Time) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if now.After(s.expiresAt) {
		return NewSessionExpiredError(s.id, s.expiresAt)
	}
	return nil
}

// Touch extends the expiry deadline by the session TTL from now.
func (s *Session) Touch(now time.Time) {
	s.expiresAt = now.Add(s.ttl)
}

// AppendUtterance records one line of the conversation.
func (s *Session) AppendUtterance(speaker Speaker, text string, at time.Time) {
	s.transcript = append(s.transcript, Utterance{Speaker: speaker, Text: text, At: at})
}

// AttachDraftOrder links the order this call is assembling. A session
// references at most one order at a time.
func (s *Session) AttachDraftOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	s.draftOrder = &orderID
	return nil
}

// RecordHandoff appends to the handoff log and reassigns the active agent.
// Graph legality is the orchestrator's responsibility; the session only
// guarantees the log is append-only and consistent with activeAgent.
func (s *Session) RecordHandoff(to agent.ID, reason string, at time.Time) error {
	if err := to.Validate(); err != nil {
		return err
	}

	s.handoffs = append(s.handoffs, Handoff{
		From:   s.activeAgent,
		To:     to,
		Reason: reason,
		At:     at,
	})
	s.activeAgent = to
	return nil
}

// ContextSummary produces the condensed context replayed to an agent on
// handoff: the caller identity, the referenced order, and the last few
// caller utterances. The full transcript is never replayed.
func (s *Session) ContextSummary(lastN int) string {
	summary := "caller " + s.customerRef
	if s.draftOrder != nil {
		summary += ", order " + s.draftOrder.String()
	}

	var callerLines []string
	for _, u := range s.transcript {
		if u.Speaker == SpeakerCaller {
			callerLines = append(callerLines, u.Text)
		}
	}
	if len(callerLines) > lastN {
		callerLines = callerLines[len(callerLines)-lastN:]
	}
	for _, line := range callerLines {
		summary += "; " + line
	}
	return summary
}
