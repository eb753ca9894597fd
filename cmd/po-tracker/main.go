package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/po-tracker/internal/app"
	"github.com/joseph-ayodele/po-tracker/internal/async"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
	"github.com/joseph-ayodele/po-tracker/internal/server/grpcapi"
	"github.com/joseph-ayodele/po-tracker/internal/server/httpapi"
	"github.com/joseph-ayodele/po-tracker/internal/tempfiles"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log, os.Stdout)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := repository.HealthCheck(ctx, a.DB, 5*time.Second, logger); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	janitor, err := tempfiles.NewJanitor(a.Temp, cfg.TempDir.SweepSchedule, cfg.TempDir.MaxAge, logger)
	if err != nil {
		logger.Error("failed to schedule temp sweep", "error", err)
		os.Exit(1)
	}
	janitor.Start()

	queue := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
	)

	api := httpapi.NewServer(httpapi.Deps{
		Results:        a.Results,
		Queue:          queue,
		Engine:         a.Engine,
		PurchaseOrders: a.PurchaseOrders,
		Health: func(ctx context.Context) error {
			return repository.HealthCheck(ctx, a.DB, 2*time.Second, logger)
		},
		Metrics: a.Metrics.Handler(),
	}, httpapi.Options{
		MaxUploadBytes: cfg.Upload.MaxBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer, grpcHealth := grpcapi.NewServer(a.Engine, logger)
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("http listening", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		logger.Info("grpc listening", "addr", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()

	grpcHealth.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	queue.Shutdown(shutdownCtx)
	janitor.Stop(shutdownCtx)
	logger.Info("stopped")
}
