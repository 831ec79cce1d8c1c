package session_test

import (
	"testing"
	"time"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.NewSession(kernel.NewUUID(), "+919900112233", agent.CustomerOrder, testNow, 10*time.Minute)
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	t.Run("starts with the initial agent and empty logs", func(t *testing.T) {
		s := newSession(t)

		assert.Equal(t, agent.CustomerOrder, s.ActiveAgent())
		assert.Empty(t, s.Transcript())
		assert.Empty(t, s.Handoffs())
		assert.Nil(t, s.DraftOrderID())
		assert.Equal(t, testNow.Add(10*time.Minute), s.ExpiresAt())
	})

	t.Run("requires a registered initial agent", func(t *testing.T) {
		_, err := session.NewSession(kernel.NewUUID(), "+91", agent.ID("concierge"), testNow, time.Minute)
		require.Error(t, err)
	})

	t.Run("requires a positive TTL", func(t *testing.T) {
		_, err := session.NewSession(kernel.NewUUID(), "+91", agent.CustomerOrder, testNow, 0)
		require.Error(t, err)
	})
}

func TestSession_CheckExpired(t *testing.T) {
	t.Run("fresh session is not expired", func(t *testing.T) {
		s := newSession(t)

		require.NoError(t, s.CheckExpired(testNow.Add(9*time.Minute)))
	})

	t.Run("lapsed session fails with SessionExpired", func(t *testing.T) {
		s := newSession(t)

		err := s.CheckExpired(testNow.Add(11 * time.Minute))

		require.ErrorIs(t, err, session.ErrSessionExpired)
	})

	t.Run("Touch extends the deadline", func(t *testing.T) {
		s := newSession(t)
		s.Touch(testNow.Add(9 * time.Minute))

		require.NoError(t, s.CheckExpired(testNow.Add(15*time.Minute)))
	})

	t.Run("zero value session fails validation", func(t *testing.T) {
		var s session.Session
		require.ErrorIs(t, s.CheckExpired(testNow), session.ErrSessionIsNotConstructed)
	})
}

func TestSession_Transcript(t *testing.T) {
	t.Run("is append-only and ordered", func(t *testing.T) {
		s := newSession(t)
		s.AppendUtterance(session.SpeakerCaller, "I want pizza", testNow)
		s.AppendUtterance(session.SpeakerAgent, "One Margherita Pizza added.", testNow.Add(time.Second))

		transcript := s.Transcript()
		require.Len(t, transcript, 2)
		assert.Equal(t, session.SpeakerCaller, transcript[0].Speaker)
		assert.Equal(t, "I want pizza", transcript[0].Text)
		assert.Equal(t, session.SpeakerAgent, transcript[1].Speaker)
	})
}

func TestSession_RecordHandoff(t *testing.T) {
	t.Run("logs the transition and reassigns the agent", func(t *testing.T) {
		s := newSession(t)

		require.NoError(t, s.RecordHandoff(agent.CustomerSupport, "complaint", testNow))

		assert.Equal(t, agent.CustomerSupport, s.ActiveAgent())
		handoffs := s.Handoffs()
		require.Len(t, handoffs, 1)
		assert.Equal(t, agent.CustomerOrder, handoffs[0].From)
		assert.Equal(t, agent.CustomerSupport, handoffs[0].To)
		assert.Equal(t, "complaint", handoffs[0].Reason)
	})

	t.Run("rejects agents outside the closed set", func(t *testing.T) {
		s := newSession(t)

		require.Error(t, s.RecordHandoff(agent.ID("concierge"), "", testNow))
		assert.Equal(t, agent.CustomerOrder, s.ActiveAgent())
	})
}

func TestSession_ContextSummary(t *testing.T) {
	t.Run("condenses to the last caller utterances", func(t *testing.T) {
		s := newSession(t)
		orderID := kernel.NewUUID()
		require.NoError(t, s.AttachDraftOrder(orderID))

		for _, text := range []string{"hello", "I want pizza", "and a burger", "that is all"} {
			s.AppendUtterance(session.SpeakerCaller, text, testNow)
			s.AppendUtterance(session.SpeakerAgent, "ok", testNow)
		}

		summary := s.ContextSummary(2)

		assert.Contains(t, summary, "+919900112233")
		assert.Contains(t, summary, orderID.String())
		assert.Contains(t, summary, "and a burger")
		assert.Contains(t, summary, "that is all")
		assert.NotContains(t, summary, "hello", "older utterances are dropped")
		assert.NotContains(t, summary, "ok", "agent lines are not replayed")
	})
}

func TestRestoreSession(t *testing.T) {
	t.Run("round trips through restore", func(t *testing.T) {
		original := newSession(t)
		original.AppendUtterance(session.SpeakerCaller, "I want pizza", testNow)
		require.NoError(t, original.RecordHandoff(agent.CustomerSupport, "complaint", testNow))
		orderID := kernel.NewUUID()
		require.NoError(t, original.AttachDraftOrder(orderID))

		restored, err := session.RestoreSession(
			original.ID(),
			original.CustomerRef(),
			original.ActiveAgent(),
			original.Transcript(),
			original.DraftOrderID(),
			original.Handoffs(),
			original.CreatedAt(),
			original.ExpiresAt(),
			original.TTL(),
		)

		require.NoError(t, err)
		assert.Equal(t, original.ActiveAgent(), restored.ActiveAgent())
		assert.Len(t, restored.Transcript(), 1)
		assert.Len(t, restored.Handoffs(), 1)
		require.NotNil(t, restored.DraftOrderID())
		assert.True(t, orderID.IsEqual(*restored.DraftOrderID()))
	})
}
