// Package redis provides the Redis-backed session store and the pub/sub
// notification sink. Sessions live under a TTL so an abandoned call
// disappears on its own; Redis eviction and the aggregate's expiry deadline
// are kept in step on every write.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/session"
	"voiceorder/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "voiceorder:session:"

// sessionDTO is the JSON layout of a stored session.
type sessionDTO struct {
	ID           string         `json:"id"`
	CustomerRef  string         `json:"customer_ref"`
	ActiveAgent  string         `json:"active_agent"`
	Transcript   []utteranceDTO `json:"transcript,omitempty"`
	DraftOrderID *string        `json:"draft_order_id,omitempty"`
	Handoffs     []handoffDTO   `json:"handoffs,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	TTLSeconds   int64          `json:"ttl_seconds"`
}

type utteranceDTO struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

type handoffDTO struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// SessionStore implements ports.SessionStore on a Redis client. Every write
// refreshes the key's TTL to the session's remaining lifetime so Redis
// evicts exactly when the aggregate would have reported expiry.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a session store over the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Add persists a new session.
func (s *SessionStore) Add(ctx context.Context, aggregate *session.Session) error {
	return s.write(ctx, aggregate)
}

// Update persists changes to an existing session and refreshes its TTL.
func (s *SessionStore) Update(ctx context.Context, aggregate *session.Session) error {
	return s.write(ctx, aggregate)
}

func (s *SessionStore) write(ctx context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(fromDomainSession(aggregate))
	if err != nil {
		return err
	}

	ttl := time.Until(aggregate.ExpiresAt())
	if ttl <= 0 {
		// Already past the deadline; store nothing and let lazy expiry
		// report it if the caller still holds the aggregate.
		return s.Delete(ctx, aggregate.ID())
	}

	return s.client.Set(ctx, sessionKey(aggregate.ID()), payload, ttl).Err()
}

// Get retrieves a session by identifier. Evicted and unknown sessions both
// come back as errs.ObjectNotFoundError.
func (s *SessionStore) Get(ctx context.Context, id kernel.UUID) (*session.Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errs.NewObjectNotFoundError("session", id.String())
		}
		return nil, err
	}

	var dto sessionDTO
	if err = json.Unmarshal(payload, &dto); err != nil {
		return nil, err
	}

	return toDomainSession(dto)
}

// Delete removes a session. Deleting an absent session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	return s.client.Del(ctx, sessionKey(id)).Err()
}

// PurgeExpired is a no-op for Redis: keys carry their own TTL and the
// server evicts them natively.
func (s *SessionStore) PurgeExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func sessionKey(id kernel.UUID) string {
	return sessionKeyPrefix + id.String()
}

func fromDomainSession(aggregate *session.Session) sessionDTO {
	transcript := make([]utteranceDTO, 0, len(aggregate.Transcript()))
	for _, utterance := range aggregate.Transcript() {
		transcript = append(transcript, utteranceDTO{
			Speaker: string(utterance.Speaker),
			Text:    utterance.Text,
			At:      utterance.At,
		})
	}

	handoffs := make([]handoffDTO, 0, len(aggregate.Handoffs()))
	for _, handoff := range aggregate.Handoffs() {
		handoffs = append(handoffs, handoffDTO{
			From:   handoff.From.String(),
			To:     handoff.To.String(),
			Reason: handoff.Reason,
			At:     handoff.At,
		})
	}

	var draftOrderID *string
	if orderID := aggregate.DraftOrderID(); orderID != nil {
		raw := orderID.String()
		draftOrderID = &raw
	}

	return sessionDTO{
		ID:           aggregate.ID().String(),
		CustomerRef:  aggregate.CustomerRef(),
		ActiveAgent:  aggregate.ActiveAgent().String(),
		Transcript:   transcript,
		DraftOrderID: draftOrderID,
		Handoffs:     handoffs,
		CreatedAt:    aggregate.CreatedAt(),
		ExpiresAt:    aggregate.ExpiresAt(),
		TTLSeconds:   int64(aggregate.TTL() / time.Second),
	}
}

func toDomainSession(dto sessionDTO) (*session.Session, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	var draftOrderID *kernel.UUID
	if dto.DraftOrderID != nil {
		orderID, orderErr := kernel.UUIDFromString(*dto.DraftOrderID)
		if orderErr != nil {
			return nil, orderErr
		}
		draftOrderID = &orderID
	}

	transcript := make([]session.Utterance, 0, len(dto.Transcript))
	for _, utterance := range dto.Transcript {
		transcript = append(transcript, session.Utterance{
			Speaker: session.Speaker(utterance.Speaker),
			Text:    utterance.Text,
			At:      utterance.At,
		})
	}

	handoffs := make([]session.Handoff, 0, len(dto.Handoffs))
	for _, handoff := range dto.Handoffs {
		handoffs = append(handoffs, session.Handoff{
			From:   agent.ID(handoff.From),
			To:     agent.ID(handoff.To),
			Reason: handoff.Reason,
			At:     handoff.At,
		})
	}

	return session.RestoreSession(
		id,
		dto.CustomerRef,
		agent.ID(dto.ActiveAgent),
		transcript,
		draftOrderID,
		handoffs,
		dto.CreatedAt,
		dto.ExpiresAt,
		time.Duration(dto.TTLSeconds)*time.Second,
	)
}
