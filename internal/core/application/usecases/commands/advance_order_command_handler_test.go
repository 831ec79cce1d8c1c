package commands_test

import (
	"testing"
	"time"

	"voiceorder/internal/core/application/usecases/commands"
	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func placedOrder(t *testing.T) *order.Order {
	t.Helper()
	now := time.Now().UTC()
	draft, err := order.NewOrder(kernel.NewUUID(), "caller_42", now)
	require.NoError(t, err)

	price, err := kernel.NewMoneyFromFloat(299)
	require.NoError(t, err)
	item, err := order.NewItem("Margherita Pizza", price, 1)
	require.NoError(t, err)
	require.NoError(t, draft.AddItem(item))
	require.NoError(t, draft.SetAddress("12 MG Road, Bengaluru"))
	require.NoError(t, draft.SetPaymentMethod(order.CashOnDelivery))
	require.NoError(t, draft.Advance(order.Placed, "test", now))
	draft.TakeEvents() // discard placement event, tests care about the next one
	return draft
}

func TestAdvanceOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := placedOrder(t)
	cmd, err := commands.NewAdvanceOrderCommand(aggregate.ID(), order.Confirmed, "restaurant accepted")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	sink := new(MockNotificationSink)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		sink.On("Publish", mock.Anything, mock.AnythingOfType("order.LifecycleTransitioned"),
			[]services.Collaborator{services.CollaboratorDriverPool}).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAdvanceOrderCommandHandler(factory, sink, quietLogger())
	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, order.Confirmed, aggregate.Status())

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestAdvanceOrderCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	aggregate := placedOrder(t)
	cmd, err := commands.NewAdvanceOrderCommand(aggregate.ID(), order.Delivered, "skipping ahead")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAdvanceOrderCommandHandler(factory, new(MockNotificationSink), quietLogger())
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.Equal(t, order.Placed, aggregate.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCancelOrderCommandHandler_Handle_FullRefund(t *testing.T) {
	ctx := t.Context()
	aggregate := placedOrder(t)
	cmd, err := commands.NewCancelOrderCommand(aggregate.ID(), "caller changed mind")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	fee, err := kernel.NewMoneyFromFloat(50)
	require.NoError(t, err)

	h := commands.NewCancelOrderCommandHandler(factory, order.NewRefundPolicy(fee))
	decision, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.RefundFull, decision.Kind)
	assert.Equal(t, "299.00", decision.Amount.String())
	assert.Equal(t, order.Cancelled, aggregate.Status())
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()

	price, err := kernel.NewMoneyFromFloat(299)
	require.NoError(t, err)
	item, err := order.NewItem("Margherita Pizza", price, 2)
	require.NoError(t, err)

	cmd, err := commands.NewCreateOrderCommand(id, "caller_42", []order.Item{item})
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	var persisted *order.Order
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) { persisted = args.Get(1).(*order.Order) }).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	require.NotNil(t, persisted)
	assert.True(t, persisted.ID().IsEqual(id))
	assert.Equal(t, order.Cart, persisted.Status())
	require.Len(t, persisted.Items(), 1)
	assert.Equal(t, "598.00", persisted.Total().String())

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}
