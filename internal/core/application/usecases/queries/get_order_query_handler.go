package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// itemRecord mirrors the jsonb layout of one stored order line.
type itemRecord struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// historyRecord mirrors the jsonb layout of one stored status change.
type historyRecord struct {
	Status int       `json:"status"`
	At     time.Time `json:"at"`
	Note   string    `json:"note"`
}

// GetOrderQueryHandler reads order snapshots straight from the database,
// bypassing the aggregate.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order snapshot queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query and returns the order snapshot.
// Returns an errs.ObjectNotFoundError when no order matches.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_ref,
			address,
			payment_method,
			status,
			driver_ref,
			items,
			history
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	response, err := scanOrderRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	return response, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrderRow(row rowScanner) (GetOrderQueryResponse, error) {
	var (
		id            uuid.UUID
		customerRef   string
		address       string
		paymentMethod string
		status        int
		driverRef     string
		itemsRaw      []byte
		historyRaw    []byte
	)

	if err := row.Scan(&id, &customerRef, &address, &paymentMethod, &status, &driverRef, &itemsRaw, &historyRaw); err != nil {
		return GetOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	var items []itemRecord
	if len(itemsRaw) > 0 {
		if err = json.Unmarshal(itemsRaw, &items); err != nil {
			return GetOrderQueryResponse{}, err
		}
	}

	var history []historyRecord
	if len(historyRaw) > 0 {
		if err = json.Unmarshal(historyRaw, &history); err != nil {
			return GetOrderQueryResponse{}, err
		}
	}

	itemResponses := make([]OrderItemResponse, 0, len(items))
	total := kernel.ZeroMoney()
	for _, record := range items {
		price, priceErr := kernel.MoneyFromString(record.UnitPrice)
		if priceErr != nil {
			return GetOrderQueryResponse{}, priceErr
		}
		lineTotal := price.MulQuantity(record.Quantity)
		total = total.Add(lineTotal)
		itemResponses = append(itemResponses, OrderItemResponse{
			Name:      record.Name,
			UnitPrice: price.String(),
			Quantity:  record.Quantity,
			LineTotal: lineTotal.String(),
		})
	}

	historyResponses := make([]StatusChangeResponse, 0, len(history))
	for _, record := range history {
		historyResponses = append(historyResponses, StatusChangeResponse{
			Status: order.Status(record.Status).String(),
			At:     record.At.UTC().Format(time.RFC3339),
			Note:   record.Note,
		})
	}

	return GetOrderQueryResponse{
		ID:            orderID,
		CustomerRef:   customerRef,
		Status:        order.Status(status).String(),
		Items:         itemResponses,
		Address:       address,
		PaymentMethod: paymentMethod,
		DriverRef:     driverRef,
		Total:         total.String(),
		History:       historyResponses,
	}, nil
}
