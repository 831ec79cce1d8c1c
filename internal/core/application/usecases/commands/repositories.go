// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/core/domain/services"
	"voiceorder/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order aggregate operations. Every
	// tool call that mutates an order commits or rolls back as one unit:
	// no reader ever observes item changes against a stale status.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// IntentClassifier tags a caller utterance with an intent and the structured
// arguments the agents consume. The core treats the classifier as an
// external collaborator and never inspects raw text itself.
type IntentClassifier interface {
	Classify(utterance string) (agent.Intent, map[string]string)
}

// NotificationSink delivers lifecycle notifications to external
// collaborators after the transition has committed. Delivery failures are
// logged, never surfaced to the caller: the transition already happened.
type NotificationSink interface {
	Publish(ctx context.Context, event order.LifecycleTransitioned, recipients []services.Collaborator) error
}
