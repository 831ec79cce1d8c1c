package redis

import (
	"context"
	"encoding/json"
	"time"

	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/core/domain/services"

	"github.com/redis/go-redis/v9"
)

const notificationChannelPrefix = "voiceorder:notifications:"

// notificationDTO is the JSON payload published for one lifecycle milestone.
type notificationDTO struct {
	OrderID string    `json:"order_id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
}

// NotificationSink publishes lifecycle notifications over Redis pub/sub,
// one channel per collaborator. Subscribers (restaurant console, driver
// app, customer SMS bridge) each listen on their own channel.
type NotificationSink struct {
	client *redis.Client
}

// NewNotificationSink creates a notification sink over the given Redis client.
func NewNotificationSink(client *redis.Client) *NotificationSink {
	return &NotificationSink{client: client}
}

// Publish sends the event to every recipient's channel. The first publish
// failure aborts the loop; the caller logs and moves on, since the
// transition this notifies about has already committed.
func (s *NotificationSink) Publish(ctx context.Context, event order.LifecycleTransitioned, recipients []services.Collaborator) error {
	payload, err := json.Marshal(notificationDTO{
		OrderID: event.OrderID.String(),
		From:    event.From.String(),
		To:      event.To.String(),
		At:      event.At,
	})
	if err != nil {
		return err
	}

	for _, recipient := range recipients {
		channel := notificationChannelPrefix + string(recipient)
		if err := s.client.Publish(ctx, channel, payload).Err(); err != nil {
			return err
		}
	}

	return nil
}
