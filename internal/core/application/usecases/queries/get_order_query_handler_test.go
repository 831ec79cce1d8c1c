package queries_test

import (
	"context"
	"testing"
	"time"

	"voiceorder/internal/adapters/out/postgres/orderrepo"
	"voiceorder/internal/core/application/usecases/queries"
	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type OrderQueriesTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *orderrepo.GormOrderRepository
}

func (suite *OrderQueriesTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
	suite.repo = orderrepo.NewGormOrderRepository(db, noopTracker{})
}

func (suite *OrderQueriesTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)
}

func (suite *OrderQueriesTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderQueriesTestSuite) seedOrder(customerRef string, target order.Status) *order.Order {
	now := time.Now().UTC()
	aggregate, err := order.NewOrder(kernel.NewUUID(), customerRef, now)
	suite.Require().NoError(err)

	pizza, err := kernel.NewMoneyFromFloat(299)
	suite.Require().NoError(err)
	burger, err := kernel.NewMoneyFromFloat(199)
	suite.Require().NoError(err)

	item, err := order.NewItem("Margherita Pizza", pizza, 1)
	suite.Require().NoError(err)
	suite.Require().NoError(aggregate.AddItem(item))
	item, err = order.NewItem("Chicken Burger", burger, 1)
	suite.Require().NoError(err)
	suite.Require().NoError(aggregate.AddItem(item))

	suite.Require().NoError(aggregate.SetAddress("12 MG Road, Bengaluru"))
	suite.Require().NoError(aggregate.SetPaymentMethod(order.Online))

	for next := order.Placed; next <= target; next++ {
		suite.Require().NoError(aggregate.Advance(next, "seed", now))
	}
	aggregate.TakeEvents()

	suite.Require().NoError(suite.repo.Add(context.Background(), aggregate))
	return aggregate
}

func (suite *OrderQueriesTestSuite) TestGetOrder_ReturnsSnapshot() {
	aggregate := suite.seedOrder("caller_42", order.Preparing)

	query, err := queries.NewGetOrderQuery(aggregate.ID())
	suite.Require().NoError(err)

	handler := queries.NewGetOrderQueryHandler(suite.db)
	snapshot, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.True(snapshot.ID.IsEqual(aggregate.ID()))
	suite.Equal("preparing", snapshot.Status)
	suite.Equal("498.00", snapshot.Total)
	suite.Len(snapshot.Items, 2)
	suite.Equal("online", snapshot.PaymentMethod)
	suite.Len(snapshot.History, len(aggregate.History()))
	suite.Equal("cart", snapshot.History[0].Status)
}

func (suite *OrderQueriesTestSuite) TestGetOrder_NotFound() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	handler := queries.NewGetOrderQueryHandler(suite.db)
	_, err = handler.Handle(context.Background(), query)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderQueriesTestSuite) TestGetCustomerOrders_FiltersByCustomer() {
	suite.seedOrder("caller_42", order.Placed)
	suite.seedOrder("caller_42", order.Delivered)
	suite.seedOrder("caller_99", order.Placed)

	query, err := queries.NewGetCustomerOrdersQuery("caller_42")
	suite.Require().NoError(err)

	handler := queries.NewGetCustomerOrdersQueryHandler(suite.db)
	orders, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Len(orders, 2)
	for _, snapshot := range orders {
		suite.Equal("caller_42", snapshot.CustomerRef)
	}
}

func (suite *OrderQueriesTestSuite) TestGetCustomerOrders_EmptyForUnknownCustomer() {
	query, err := queries.NewGetCustomerOrdersQuery("caller_unknown")
	suite.Require().NoError(err)

	handler := queries.NewGetCustomerOrdersQueryHandler(suite.db)
	orders, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Empty(orders)
}

func TestOrderQueriesTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OrderQueriesTestSuite))
}

func TestNewGetOrderQuery_InvalidID(t *testing.T) {
	_, err := queries.NewGetOrderQuery(kernel.UUID{})
	if err == nil {
		t.Fatal("expected error for zero UUID")
	}
}

func TestNewGetCustomerOrdersQuery_EmptyRef(t *testing.T) {
	_, err := queries.NewGetCustomerOrdersQuery("")
	if err == nil {
		t.Fatal("expected error for empty customer ref")
	}
}
