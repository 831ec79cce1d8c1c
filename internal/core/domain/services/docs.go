// Package services provides domain services that coordinate business
// operations across the session, agent, and order aggregates.
//
// The package includes:
//   - Orchestrator: the per-turn reducer that routes caller intents to the
//     active agent, performs graph-constrained handoffs, and translates every
//     typed domain failure into a caller-safe spoken reply
//   - the six conversational agents as a closed set of tagged variants behind
//     one Agent interface
//   - Fanout: the pure lifecycle-transition to collaborator-notification
//     mapping
//
// Domain services hold no mutable state of their own; all call state lives
// in the Session aggregate and all order state in the Order aggregate.
package services
