package orderrepo_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"voiceorder/internal/adapters/out/postgres/orderrepo"
	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/pkg/errs"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for
// OrderRepository using PostgreSQL containers to verify persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	// Reachability check over the raw driver before handing the DSN to gorm.
	sqlDB, err := sql.Open("postgres", connStr)
	suite.Require().NoError(err)
	suite.Require().NoError(sqlDB.PingContext(ctx))
	suite.Require().NoError(sqlDB.Close())

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createDraftOrder(customerRef string) *order.Order {
	aggregate, err := order.NewOrder(kernel.NewUUID(), customerRef, time.Now().UTC())
	suite.Require().NoError(err)

	price, err := kernel.NewMoneyFromFloat(299)
	suite.Require().NoError(err)
	item, err := order.NewItem("Margherita Pizza", price, 2)
	suite.Require().NoError(err)
	suite.Require().NoError(aggregate.AddItem(item))

	return aggregate
}

func (suite *OrderRepositoryIntegrationTestSuite) createPlacedOrder(customerRef string) *order.Order {
	aggregate := suite.createDraftOrder(customerRef)
	suite.Require().NoError(aggregate.SetAddress("12 MG Road, Bengaluru"))
	suite.Require().NoError(aggregate.SetPaymentMethod(order.CashOnDelivery))
	suite.Require().NoError(aggregate.Advance(order.Placed, "caller confirmed", time.Now().UTC()))
	aggregate.TakeEvents()
	return aggregate
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()
	aggregate := suite.createDraftOrder("caller_42")

	suite.tracker.On("TrackAggregate", aggregate.ID(), aggregate).Once()

	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTripPreservesAggregate() {
	ctx := context.Background()
	aggregate := suite.createPlacedOrder("caller_42")
	suite.Require().NoError(aggregate.Advance(order.Confirmed, "restaurant accepted", time.Now().UTC()))
	suite.Require().NoError(aggregate.AssignDriver("drv_001"))
	aggregate.TakeEvents()

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	restored, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)

	suite.True(restored.ID().IsEqual(aggregate.ID()))
	suite.Equal("caller_42", restored.CustomerRef())
	suite.Equal(order.Confirmed, restored.Status())
	suite.Equal("drv_001", restored.DriverRef())
	suite.Equal("12 MG Road, Bengaluru", restored.Address())
	suite.Equal(order.CashOnDelivery, restored.PaymentMethod())
	suite.True(restored.Total().IsEqual(aggregate.Total()))
	suite.Len(restored.History(), len(aggregate.History()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsTransition() {
	ctx := context.Background()
	aggregate := suite.createPlacedOrder("caller_42")

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	suite.Require().NoError(aggregate.Advance(order.Confirmed, "restaurant accepted", time.Now().UTC()))
	aggregate.TakeEvents()
	suite.Require().NoError(suite.repository.Update(ctx, aggregate))

	restored, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, restored.Status())
	suite.Equal("restaurant accepted", restored.History()[len(restored.History())-1].Note)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_MissingOrder() {
	aggregate := suite.createDraftOrder("caller_42")

	err := suite.repository.Update(context.Background(), aggregate)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByCustomer_ReturnsOnlyOwnOrders() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	first := suite.createPlacedOrder("caller_42")
	second := suite.createDraftOrder("caller_42")
	other := suite.createDraftOrder("caller_99")
	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, second))
	suite.Require().NoError(suite.repository.Add(ctx, other))

	orders, err := suite.repository.GetByCustomer(ctx, "caller_42")
	suite.Require().NoError(err)
	suite.Len(orders, 2)
	for _, aggregate := range orders {
		suite.Equal("caller_42", aggregate.CustomerRef())
	}
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
