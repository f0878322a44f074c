package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/craftyourstyle/backend/internal/api"
	"github.com/craftyourstyle/backend/internal/broker"
	"github.com/craftyourstyle/backend/internal/config"
	"github.com/craftyourstyle/backend/internal/consumer"
	"github.com/craftyourstyle/backend/internal/db"
	"github.com/craftyourstyle/backend/internal/metrics"
	"github.com/craftyourstyle/backend/internal/repository"
	"github.com/craftyourstyle/backend/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	repo := repository.NewPgNotificationRepository(pool)
	svc := service.NewNotificationService(repo, logger)

	// ---- broker consumers ----
	// Consumers are daemon-style: StartAll returns immediately and the
	// goroutines are abandoned on shutdown. Unacknowledged messages are
	// redelivered by the broker after the connection drops.
	brokerCfg := broker.Config{
		Host:        cfg.BrokerHost,
		Port:        cfg.BrokerPort,
		User:        cfg.BrokerUser,
		Password:    cfg.BrokerPassword,
		Heartbeat:   cfg.BrokerHeartbeat,
		DialTimeout: cfg.BrokerDialTimeout,
	}
	sup := consumer.NewSupervisor(brokerCfg, repo, m, cfg.BrokerReconnectDelay, logger)
	sup.StartAll(ctx, consumer.DefaultBindings())

	// ---- HTTP server ----
	router := api.NewNotificationsRouter(svc, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("notifications server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown (HTTP only; consumers are not drained) ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}
