package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/recruit-map-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/recruit-map-etl/internal/adapter/kafka"
	"github.com/couchcryptid/recruit-map-etl/internal/adapter/tabular"
	"github.com/couchcryptid/recruit-map-etl/internal/config"
	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	"github.com/couchcryptid/recruit-map-etl/internal/observability"
	"github.com/couchcryptid/recruit-map-etl/internal/pipeline"
	"github.com/couchcryptid/recruit-map-etl/internal/session"
	"github.com/jonboulle/clockwork"
)

const sessionSweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Record sink is feature-flagged via KAFKA_BROKERS.
	var (
		sink   pipeline.RecordSink
		writer *kafkaadapter.Writer
	)
	if cfg.SinkEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		logger.Info("kafka record sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka record sink disabled")
	}

	resolver := domain.NewResolver(cfg.UnresolvedPolicy, cfg.Fallback)
	logger.Info("city resolver ready", "cities", domain.KnownCities(), "policy", cfg.UnresolvedPolicy)

	p := pipeline.New(tabular.NewParser(), resolver, sink, logger, metrics)
	sessions := session.NewStore(cfg.SessionTTL, clockwork.NewRealClock(), metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, sessions, httpadapter.Options{
		MapCenter:         cfg.MapCenter,
		ClusterResolution: cfg.ClusterResolution,
		MaxUploadBytes:    cfg.MaxUploadBytes,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Expire idle sessions.
	go sessions.Run(ctx, sessionSweepInterval)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
