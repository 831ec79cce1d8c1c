package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"voiceorder/cmd"
	_ "voiceorder/docs"
	httpin "voiceorder/internal/adapters/in/http"
	"voiceorder/internal/adapters/out/postgres/orderrepo"
	"voiceorder/internal/generated/servers"
	"voiceorder/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// @title Voice Order API
// @version 1.0
// @description Voice-driven food ordering coordination service.
// @BasePath /api/v1
func main() {
	// A missing .env is fine: the environment may already be populated.
	_ = godotenv.Load(".env")

	var configs cmd.Config
	if err := envconfig.Process("", &configs); err != nil {
		log.Fatalf("reading configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := connectDB(configs)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}

	redisClient, err := connectRedis(configs)
	if err != nil {
		log.Fatalf("connecting to redis: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, redisClient, logger)
	if err != nil {
		log.Fatalf("building composition root: %v", err)
	}

	jobManager := jobs.NewJobManager(app.CreatePurgeExpiredSessionsCommandHandler(), logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func connectDB(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := gormDB.AutoMigrate(&orderrepo.OrderDTO{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return gormDB, nil
}

func connectRedis(configs cmd.Config) (*redis.Client, error) {
	if configs.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(configs.RedisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.json", func(c echo.Context) error {
		swagger, err := servers.GetSwagger()
		if err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, swagger)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	server := httpin.NewServer(
		app.CreateBeginSessionCommandHandler(),
		app.CreateHandleTurnCommandHandler(),
		app.CreateEndSessionCommandHandler(),
		app.CreateCreateOrderCommandHandler(),
		app.CreateAdvanceOrderCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetCustomerOrdersQueryHandler(),
	)
	servers.RegisterHandlers(e, server)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
