package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"isucari/infra/grpc"
	"isucari/infra/postgres"
	"isucari/pkg/config"
)

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, _ := zapConfig.Build()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	zap.L().Info("Isucari gRPC health service starting...")

	appConfig := config.Read()

	grpcServer, err := grpc.NewServer(appConfig.GRPCPort)
	if err != nil {
		zap.L().Error("failed to create grpc server", zap.Error(err))
		os.Exit(1)
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	probe := grpc.NewStoreProbe(pgRepository, grpcServer.Health(), appConfig.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
		return grpcServer.Start()
	})
	g.Go(func() error {
		return probe.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		zap.L().Info("Shutting down server...")
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		zap.L().Error("gRPC service stopped with error", zap.Error(err))
		os.Exit(1)
	}

	zap.L().Info("Server gracefully stopped")
}
