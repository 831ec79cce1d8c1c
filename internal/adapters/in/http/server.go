package http

import (
	"errors"
	"net/http"
	"time"

	"voiceorder/internal/core/application/usecases/commands"
	"voiceorder/internal/core/application/usecases/queries"
	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/core/domain/model/session"
	"voiceorder/internal/generated/servers"
	"voiceorder/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	beginSessionHandler commands.BeginSessionCommandHandler
	handleTurnHandler   commands.HandleTurnCommandHandler
	endSessionHandler   commands.EndSessionCommandHandler
	createOrderHandler  commands.CreateOrderCommandHandler
	advanceOrderHandler commands.AdvanceOrderCommandHandler
	cancelOrderHandler  commands.CancelOrderCommandHandler

	// Query handlers
	getOrderHandler          queries.GetOrderQueryHandler
	getCustomerOrdersHandler queries.GetCustomerOrdersQueryHandler

	validate *validator.Validate
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	beginSessionHandler commands.BeginSessionCommandHandler,
	handleTurnHandler commands.HandleTurnCommandHandler,
	endSessionHandler commands.EndSessionCommandHandler,
	createOrderHandler commands.CreateOrderCommandHandler,
	advanceOrderHandler commands.AdvanceOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getCustomerOrdersHandler queries.GetCustomerOrdersQueryHandler,
) *Server {
	return &Server{
		beginSessionHandler:      beginSessionHandler,
		handleTurnHandler:        handleTurnHandler,
		endSessionHandler:        endSessionHandler,
		createOrderHandler:       createOrderHandler,
		advanceOrderHandler:      advanceOrderHandler,
		cancelOrderHandler:       cancelOrderHandler,
		getOrderHandler:          getOrderHandler,
		getCustomerOrdersHandler: getCustomerOrdersHandler,
		validate:                 validator.New(),
	}
}

// BeginSession handles POST /api/v1/sessions - opens a new call session.
func (s *Server) BeginSession(ctx echo.Context) error {
	var req servers.NewSession
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := s.validate.Var(req.CustomerRef, "required"); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "customerRef is required",
		})
	}

	cmd, err := commands.NewBeginSessionCommand(kernel.NewUUID(), req.CustomerRef)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid session data: " + err.Error(),
		})
	}

	sess, err := s.beginSessionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.Session{
		SessionId:   sess.ID().Bytes(),
		CustomerRef: sess.CustomerRef(),
		ActiveAgent: string(sess.ActiveAgent()),
		ExpiresAt:   sess.ExpiresAt(),
	})
}

// HandleTurn handles POST /api/v1/sessions/{sessionId}/turns - processes one utterance.
func (s *Server) HandleTurn(ctx echo.Context, sessionId openapi_types.UUID) error {
	var req servers.NewTurn
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := s.validate.Var(req.Utterance, "required"); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "utterance is required",
		})
	}

	id, err := kernel.UUIDFromBytes(sessionId[:])
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid session id",
		})
	}

	var cmd commands.HandleTurnCommand
	if req.Intent != nil && *req.Intent != "" {
		intent, err := agent.IntentFromString(*req.Intent)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, servers.Error{
				Code:    http.StatusBadRequest,
				Message: "Unknown intent: " + *req.Intent,
			})
		}
		cmd, err = commands.NewHandleTurnCommandWithIntent(id, req.Utterance, intent)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, servers.Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid turn data: " + err.Error(),
			})
		}
	} else {
		cmd, err = commands.NewHandleTurnCommand(id, req.Utterance)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, servers.Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid turn data: " + err.Error(),
			})
		}
	}

	result, err := s.handleTurnHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	outcome := servers.TurnOutcome{
		Reply:       result.Reply,
		ActiveAgent: string(result.ActiveAgent),
	}
	if result.OrderID != nil {
		orderUUID := result.OrderID.Bytes()
		outcome.OrderId = &orderUUID
	}

	return ctx.JSON(http.StatusOK, outcome)
}

// EndSession handles DELETE /api/v1/sessions/{sessionId} - closes a session.
func (s *Server) EndSession(ctx echo.Context, sessionId openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(sessionId[:])
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid session id",
		})
	}

	cmd, err := commands.NewEndSessionCommand(id)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid session data: " + err.Error(),
		})
	}

	if err := s.endSessionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreateOrder handles POST /api/v1/orders - opens a draft order outside the
// conversational flow.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req servers.NewOrder
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := s.validate.Var(req.CustomerRef, "required"); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "customerRef is required",
		})
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, it := range req.Items {
		price, err := kernel.MoneyFromString(it.UnitPrice)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, servers.Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid unit price for " + it.Name + ": " + err.Error(),
			})
		}
		item, err := order.NewItem(it.Name, price, it.Quantity)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, servers.Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid item: " + err.Error(),
			})
		}
		items = append(items, item)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, req.CustomerRef, items)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.OrderCreated{
		OrderId: orderID.Bytes(),
	})
}

// GetOrder handles GET /api/v1/orders/{orderId} - retrieves one order snapshot.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid query: " + err.Error(),
		})
	}

	snapshot, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(snapshot))
}

// GetCustomerOrders handles GET /api/v1/customers/{customerRef}/orders.
func (s *Server) GetCustomerOrders(ctx echo.Context, customerRef string) error {
	query, err := queries.NewGetCustomerOrdersQuery(customerRef)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid query: " + err.Error(),
		})
	}

	snapshots, err := s.getCustomerOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	response := make([]servers.Order, len(snapshots))
	for i, snapshot := range snapshots {
		response[i] = toOrderResponse(snapshot)
	}

	return ctx.JSON(http.StatusOK, response)
}

// AdvanceOrder handles POST /api/v1/orders/{orderId}/advance - moves an order
// along its lifecycle.
func (s *Server) AdvanceOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	var req servers.AdvanceOrder
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	target, err := order.StatusFromString(req.Target)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Unknown target status: " + req.Target,
		})
	}

	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	note := ""
	if req.Note != nil {
		note = *req.Note
	}

	cmd, err := commands.NewAdvanceOrderCommand(id, target, note)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid advance data: " + err.Error(),
		})
	}

	if err := s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel - cancels an order
// and reports the refund owed.
func (s *Server) CancelOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	var req servers.CancelOrder
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}

	cmd, err := commands.NewCancelOrderCommand(id, reason)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid cancel data: " + err.Error(),
		})
	}

	decision, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Refund{
		Kind:   decision.Kind.String(),
		Amount: decision.Amount.String(),
	})
}

// errorResponse translates application and domain errors into HTTP statuses.
func (s *Server) errorResponse(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrSessionExpired):
		return ctx.JSON(http.StatusGone, servers.Error{
			Code:    http.StatusGone,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, servers.Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrIncompleteOrder):
		return ctx.JSON(http.StatusUnprocessableEntity, servers.Error{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrTerminalStateViolation),
		errors.Is(err, order.ErrLifecycleViolation),
		errors.Is(err, order.ErrInvalidOrderState):
		return ctx.JSON(http.StatusConflict, servers.Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}

func toOrderResponse(snapshot queries.GetOrderQueryResponse) servers.Order {
	items := make([]servers.OrderItem, len(snapshot.Items))
	for i, item := range snapshot.Items {
		items[i] = servers.OrderItem{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		}
	}

	history := make([]servers.StatusChange, len(snapshot.History))
	for i, change := range snapshot.History {
		at, _ := time.Parse(time.RFC3339, change.At)
		history[i] = servers.StatusChange{
			Status: change.Status,
			At:     at,
		}
		if change.Note != "" {
			note := change.Note
			history[i].Note = &note
		}
	}

	response := servers.Order{
		Id:          snapshot.ID.Bytes(),
		CustomerRef: snapshot.CustomerRef,
		Status:      snapshot.Status,
		Items:       items,
		Total:       snapshot.Total,
		History:     history,
	}
	if snapshot.Address != "" {
		address := snapshot.Address
		response.Address = &address
	}
	if snapshot.PaymentMethod != "" {
		payment := snapshot.PaymentMethod
		response.PaymentMethod = &payment
	}
	if snapshot.DriverRef != "" {
		driver := snapshot.DriverRef
		response.DriverRef = &driver
	}
	return response
}
