package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"isucari/infra/postgres"
	"isucari/infra/rabbitmq"
	"isucari/internal/consumers"
	"isucari/pkg/config"
	"isucari/pkg/events"
)

const poolStatsInterval = 30 * time.Second

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, _ := zapConfig.Build()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	zap.L().Info("Isucari worker starting...")

	appConfig := config.Read()
	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	itemHandler := consumers.NewItemEventHandler(pgRepository)

	// Queue name: {service}.{domain}.{events}.{version}
	itemConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:       events.ItemExchange,
		QueueName:      appConfig.ServiceName + "." + events.ItemDomain + ".all." + events.EventVersionV1,
		RoutingKeys:    []string{events.ItemDomain + ".*." + events.EventVersionV1},
		ServiceName:    appConfig.ServiceName,
		PrefetchCount:  10,
		WorkerPoolSize: 8,
	})
	if err != nil {
		zap.L().Fatal("Failed to create item consumer", zap.Error(err))
	}
	defer itemConsumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return itemConsumer.Consume(ctx, itemHandler.HandleEvent)
	})
	g.Go(func() error {
		monitorPool(ctx, pgRepository)
		return nil
	})

	zap.L().Info("Worker service started. Waiting for events...",
		zap.String("exchange", events.ItemExchange))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		zap.L().Error("Worker stopped with error", zap.Error(err))
		return
	}
	zap.L().Info("Worker service stopped gracefully")
}

func monitorPool(ctx context.Context, repo *postgres.PgRepository) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := repo.Stats()
			zap.L().Info("Connection pool stats",
				zap.Int("max_open", stats.MaxOpenConnections),
				zap.Int("open", stats.OpenConnections),
				zap.Int("in_use", stats.InUse),
				zap.Int("idle", stats.Idle),
				zap.Int64("wait_count", stats.WaitCount),
				zap.Duration("wait_duration", stats.WaitDuration),
			)
		}
	}
}
