package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"isucari/app"
	"isucari/infra/httpserver"
	"isucari/infra/postgres"
	"isucari/infra/rabbitmq"
	"isucari/pkg/config"
	"isucari/pkg/events"
)

func main() {
	appConfig := config.Read()

	logger := newLogger(appConfig.LogFormat)
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	zap.L().Info("app starting...",
		zap.String("port", appConfig.Port),
		zap.String("postgresHost", appConfig.PostgresHost),
		zap.Int("itemsPerPage", appConfig.ItemsPerPage),
		zap.Int("categoryMaxDepth", appConfig.CategoryMaxDepth),
	)

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	publisher := newPublisher(appConfig)
	defer publisher.Close()

	resolver := app.NewCategoryResolver(appConfig.CategoryMaxDepth)
	pipeline := app.NewListingPipeline(resolver, appConfig.ItemsPerPage, appConfig.ImageURLPrefix)

	server := httpserver.New(httpserver.Handlers{
		NewItems:         app.NewGetNewItemsHandler(pgRepository, pipeline),
		NewCategoryItems: app.NewGetNewCategoryItemsHandler(pgRepository, pipeline, resolver),
		UserItems:        app.NewGetUserItemsHandler(pgRepository, pipeline),
		Settings:         app.NewGetSettingsHandler(pgRepository, resolver),
		Initialize:       app.NewInitializeHandler(pgRepository, publisher),
	})

	go func() {
		if err := server.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(server)
}

func newLogger(format string) *zap.Logger {
	var zapConfig zap.Config
	if format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newPublisher falls back to dropping events when no broker is configured or
// reachable; /initialize still succeeds without one.
func newPublisher(cfg *config.AppConfig) events.Publisher {
	if cfg.RabbitMQURL == "" {
		zap.L().Info("RABBITMQ_URL not set, domain events disabled")
		return events.NopPublisher{}
	}

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.ServiceName)
	if err != nil {
		zap.L().Warn("RabbitMQ unavailable, domain events disabled", zap.Error(err))
		return events.NopPublisher{}
	}
	return publisher
}

func gracefulShutdown(server *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := server.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
