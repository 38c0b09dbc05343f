package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BrandonDHaskell/gymgate/internal/app"
	"github.com/BrandonDHaskell/gymgate/internal/config"
	"github.com/BrandonDHaskell/gymgate/internal/grpcapi"
	"github.com/BrandonDHaskell/gymgate/internal/httpapi"
	"github.com/BrandonDHaskell/gymgate/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("gymgate-server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	m.SetCapacity(cfg.Capacity)

	engine, err := app.NewEngine(ctx, cfg, logger, m)
	if err != nil {
		return err
	}
	defer engine.Close()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:           logger.With("component", "http"),
		Addr:             cfg.HTTPAddr,
		AdmissionService: engine.Admission,
		Metrics:          m.Handler(),
	})

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "capacity", cfg.Capacity)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	// gRPC health
	var health *grpcapi.Server
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		health = grpcapi.NewServer(logger.With("component", "grpc"))
		go func() {
			logger.Info("grpc health listening", "addr", cfg.GRPCAddr)
			if err := health.Serve(lis); err != nil {
				logger.Error("grpc server error", "error", err)
				stop()
			}
		}()
		health.SetServing(true)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	if health != nil {
		health.SetServing(false)
		health.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.Env == "prod" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(h).With("app", "gymgate-server")
}
