// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and their database
// representation.
package orderrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Items and history travel in the same row as the status so the whole
// aggregate is written atomically.
type OrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerRef   string    `gorm:"index"`
	Address       string
	PaymentMethod string
	Status        int `gorm:"index"`
	DriverRef     string
	Items         ItemsDTO   `gorm:"type:jsonb"`
	History       HistoryDTO `gorm:"type:jsonb"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one order line as stored. Unit prices are serialized as
// strings to keep decimal precision intact across the round trip.
type ItemDTO struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// ItemsDTO stores the order lines as a jsonb column.
type ItemsDTO []ItemDTO

// Value implements driver.Valuer for jsonb storage.
func (d ItemsDTO) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for jsonb retrieval.
func (d *ItemsDTO) Scan(src any) error {
	return scanJSON(src, d)
}

// StatusChangeDTO is one status history entry as stored.
type StatusChangeDTO struct {
	Status int       `json:"status"`
	At     time.Time `json:"at"`
	Note   string    `json:"note,omitempty"`
}

// HistoryDTO stores the append-only status history as a jsonb column.
type HistoryDTO []StatusChangeDTO

// Value implements driver.Valuer for jsonb storage.
func (d HistoryDTO) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for jsonb retrieval.
func (d *HistoryDTO) Scan(src any) error {
	return scanJSON(src, d)
}

func scanJSON(src, dst any) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make(ItemsDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			Name:      item.Name(),
			UnitPrice: item.UnitPrice().String(),
			Quantity:  item.Quantity(),
		})
	}

	history := make(HistoryDTO, 0, len(aggregate.History()))
	for _, change := range aggregate.History() {
		history = append(history, StatusChangeDTO{
			Status: int(change.Status),
			At:     change.At,
			Note:   change.Note,
		})
	}

	// PaymentUnknown persists as an empty string: it is the absence of a
	// choice, not a parseable method.
	paymentMethod := ""
	if aggregate.PaymentMethod() != order.PaymentUnknown {
		paymentMethod = aggregate.PaymentMethod().String()
	}

	return OrderDTO{
		ID:            aggregate.ID().Bytes(),
		CustomerRef:   aggregate.CustomerRef(),
		Address:       aggregate.Address(),
		PaymentMethod: paymentMethod,
		Status:        int(aggregate.Status()),
		DriverRef:     aggregate.DriverRef(),
		Items:         items,
		History:       history,
	}
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder, which validates identity and state consistency.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, record := range dto.Items {
		price, priceErr := kernel.MoneyFromString(record.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}
		item, itemErr := order.NewItem(record.Name, price, record.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history := make([]order.StatusChange, 0, len(dto.History))
	for _, record := range dto.History {
		history = append(history, order.StatusChange{
			Status: order.Status(record.Status),
			At:     record.At,
			Note:   record.Note,
		})
	}

	paymentMethod := order.PaymentUnknown
	if dto.PaymentMethod != "" {
		paymentMethod, err = order.PaymentMethodFromString(dto.PaymentMethod)
		if err != nil {
			return nil, err
		}
	}

	return order.RestoreOrder(
		id,
		dto.CustomerRef,
		items,
		dto.Address,
		paymentMethod,
		order.Status(dto.Status),
		history,
		dto.DriverRef,
	)
}
