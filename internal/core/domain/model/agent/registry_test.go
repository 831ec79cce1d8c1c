package agent_test

import (
	"testing"

	"voiceorder/internal/core/domain/model/agent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Validate(t *testing.T) {
	t.Run("accepts every member of the closed set", func(t *testing.T) {
		for _, id := range agent.AllIDs() {
			require.NoError(t, id.Validate(), "%s must validate", id)
		}
	})

	t.Run("rejects identifiers outside the set", func(t *testing.T) {
		require.Error(t, agent.ID("concierge").Validate())
		require.Error(t, agent.ID("").Validate())
	})
}

func TestNewRegistry(t *testing.T) {
	t.Run("rejects handoff to an unregistered agent", func(t *testing.T) {
		_, err := agent.NewRegistry(
			agent.Capability{
				AgentID:        agent.CustomerOrder,
				Accepted:       agent.NewIntentSet(agent.IntentAddItem),
				HandoffTargets: []agent.ID{agent.CustomerSupport},
			},
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unregistered agent")
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		_, err := agent.NewRegistry(
			agent.Capability{AgentID: agent.CustomerOrder},
			agent.Capability{AgentID: agent.CustomerOrder},
		)

		require.Error(t, err)
	})

	t.Run("rejects identifiers outside the closed set", func(t *testing.T) {
		_, err := agent.NewRegistry(agent.Capability{AgentID: agent.ID("concierge")})

		require.Error(t, err)
	})
}

func TestDefaultRegistry(t *testing.T) {
	registry := agent.DefaultRegistry()

	t.Run("registers all six agents", func(t *testing.T) {
		for _, id := range agent.AllIDs() {
			assert.True(t, registry.Contains(id), "%s must be registered", id)
		}
	})

	t.Run("handoff graph is closed", func(t *testing.T) {
		for _, id := range agent.AllIDs() {
			capability, err := registry.Lookup(id)
			require.NoError(t, err)
			for _, target := range capability.HandoffTargets {
				assert.True(t, registry.Contains(target),
					"%s hands off to unregistered %s", id, target)
			}
		}
	})

	t.Run("order agent accepts cart intents", func(t *testing.T) {
		capability, err := registry.Lookup(agent.CustomerOrder)

		require.NoError(t, err)
		assert.True(t, capability.Accepted.Contains(agent.IntentAddItem))
		assert.True(t, capability.Accepted.Contains(agent.IntentConfirmOrder))
		assert.False(t, capability.Accepted.Contains(agent.IntentComplaint))
	})

	t.Run("support is reachable from every other agent", func(t *testing.T) {
		for _, id := range agent.AllIDs() {
			if id == agent.CustomerSupport {
				continue
			}
			capability, err := registry.Lookup(id)
			require.NoError(t, err)
			assert.True(t, capability.CanHandOffTo(agent.CustomerSupport),
				"%s must be able to reach support", id)
		}
	})

	t.Run("unknown intent is accepted by no agent", func(t *testing.T) {
		for _, id := range agent.AllIDs() {
			capability, err := registry.Lookup(id)
			require.NoError(t, err)
			assert.False(t, capability.Accepted.Contains(agent.IntentUnknown))
		}
	})
}

func TestRegistry_Lookup(t *testing.T) {
	t.Run("fails for an unregistered agent", func(t *testing.T) {
		registry := agent.DefaultRegistry()

		_, err := registry.Lookup(agent.ID("concierge"))

		require.Error(t, err)
	})
}
