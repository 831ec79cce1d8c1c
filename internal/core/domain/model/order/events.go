package order

import (
	"time"

	"voiceorder/internal/core/domain/model/kernel"
)

// LifecycleTransitioned records one validated advance of an order's status.
// It is the unit of notification fan-out: the aggregate collects these
// events during mutation and the application layer drains them after commit.
type LifecycleTransitioned struct {
	OrderID kernel.UUID
	From    Status
	To      Status
	At      time.Time
}

// StatusChange is one entry of the append-only status history.
type StatusChange struct {
	Status Status
	At     time.Time
	Note   string
}
