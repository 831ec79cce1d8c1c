package memory

import (
	"context"
	"log/slog"
	"sync"

	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/core/domain/services"
)

// RecordedNotification is one delivered notification, kept for inspection.
type RecordedNotification struct {
	Event      order.LifecycleTransitioned
	Recipients []services.Collaborator
}

// NotificationRecorder implements commands.NotificationSink by logging each
// notification and keeping it in memory. Used when no Redis is configured
// and in tests that assert on the fanout.
type NotificationRecorder struct {
	mu       sync.Mutex
	logger   *slog.Logger
	recorded []RecordedNotification
}

// NewNotificationRecorder creates a recorder that logs through the given logger.
func NewNotificationRecorder(logger *slog.Logger) *NotificationRecorder {
	return &NotificationRecorder{logger: logger}
}

// Publish records the notification and logs it per recipient.
func (r *NotificationRecorder) Publish(_ context.Context, event order.LifecycleTransitioned, recipients []services.Collaborator) error {
	r.mu.Lock()
	r.recorded = append(r.recorded, RecordedNotification{Event: event, Recipients: recipients})
	r.mu.Unlock()

	for _, recipient := range recipients {
		r.logger.Info("lifecycle notification",
			"recipient", string(recipient),
			"order_id", event.OrderID.String(),
			"from", event.From.String(),
			"to", event.To.String(),
		)
	}
	return nil
}

// Recorded returns a copy of everything published so far.
func (r *NotificationRecorder) Recorded() []RecordedNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedNotification, len(r.recorded))
	copy(out, r.recorded)
	return out
}
