package cmd

import (
	"fmt"
	"log/slog"

	"voiceorder/internal/adapters/out/memory"
	"voiceorder/internal/adapters/out/postgres"
	redisout "voiceorder/internal/adapters/out/redis"
	"voiceorder/internal/core/application/usecases/commands"
	"voiceorder/internal/core/application/usecases/queries"
	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/core/domain/services"
	"voiceorder/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters to use case handlers. Handlers are created
// per request; shared collaborators (database, session store, orchestrator)
// are built once here.
type CompositionRoot struct {
	configs      Config
	gormDB       *gorm.DB
	uowFactory   postgres.GormUnitOfWorkFactory
	sessionStore ports.SessionStore
	sink         commands.NotificationSink
	classifier   commands.IntentClassifier
	orchestrator *services.Orchestrator
	refundPolicy order.RefundPolicy
	logger       *slog.Logger
}

// NewCompositionRoot builds the object graph. A nil redisClient selects the
// in-memory session store and notification recorder.
func NewCompositionRoot(
	configs Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	logger *slog.Logger,
) (CompositionRoot, error) {
	preparationFee, err := kernel.MoneyFromString(configs.RefundPreparationFee)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("invalid refund preparation fee %q: %w", configs.RefundPreparationFee, err)
	}
	refundPolicy := order.NewRefundPolicy(preparationFee)

	orchestrator, err := services.NewOrchestrator(
		agent.DefaultRegistry(),
		configs.HandoffBound,
		services.NewCustomerOrderAgent(memory.SeededMenu()),
		services.NewRestaurantCoordinationAgent(memory.SeededRestaurantDirectory()),
		services.NewDriverAssignmentAgent(memory.SeededDriverDirectory()),
		services.NewDeliveryTrackingAgent(),
		services.NewCustomerSupportAgent(refundPolicy),
		services.NewPostDeliveryAgent(),
	)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("building orchestrator: %w", err)
	}

	var sessionStore ports.SessionStore
	var sink commands.NotificationSink
	if redisClient != nil {
		sessionStore = redisout.NewSessionStore(redisClient)
		sink = redisout.NewNotificationSink(redisClient)
	} else {
		sessionStore = memory.NewSessionStore()
		sink = memory.NewNotificationRecorder(logger)
	}

	return CompositionRoot{
		configs:      configs,
		gormDB:       gormDB,
		uowFactory:   *postgres.NewGormUnitOfWorkFactory(gormDB),
		sessionStore: sessionStore,
		sink:         sink,
		classifier:   memory.NewKeywordIntentClassifier(),
		orchestrator: orchestrator,
		refundPolicy: refundPolicy,
		logger:       logger,
	}, nil
}

func (c *CompositionRoot) CreateBeginSessionCommandHandler() commands.BeginSessionCommandHandler {
	return commands.NewBeginSessionCommandHandler(c.sessionStore, c.configs.SessionTTL)
}

func (c *CompositionRoot) CreateEndSessionCommandHandler() commands.EndSessionCommandHandler {
	return commands.NewEndSessionCommandHandler(c.sessionStore)
}

func (c *CompositionRoot) CreateHandleTurnCommandHandler() commands.HandleTurnCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewHandleTurnCommandHandler(f, c.sessionStore, c.orchestrator, c.classifier, c.sink, c.logger)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdvanceOrderCommandHandler(f, c.sink, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.refundPolicy)
}

func (c *CompositionRoot) CreatePurgeExpiredSessionsCommandHandler() commands.PurgeExpiredSessionsCommandHandler {
	return commands.NewPurgeExpiredSessionsCommandHandler(c.sessionStore)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
