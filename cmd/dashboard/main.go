package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/temperature-dashboard/internal/adapter/chartimg"
	"github.com/couchcryptid/temperature-dashboard/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/temperature-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/temperature-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/temperature-dashboard/internal/adapter/xlsx"
	"github.com/couchcryptid/temperature-dashboard/internal/config"
	"github.com/couchcryptid/temperature-dashboard/internal/dashboard"
	"github.com/couchcryptid/temperature-dashboard/internal/domain"
	"github.com/couchcryptid/temperature-dashboard/internal/observability"
	"github.com/couchcryptid/temperature-dashboard/internal/pipeline"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Optional Kafka sink (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var loader pipeline.Loader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(
		csvfile.NewReader(cfg.DataPath, logger),
		csvfile.NewReader(cfg.MapDataPath, logger),
		pipeline.NewTransformer(logger),
		loader,
		logger,
		metrics,
	)
	snap, err := p.Run(ctx)
	if err != nil {
		logger.Error("failed to build dashboard", "error", err)
		os.Exit(1)
	}

	countdown := domain.NewCountdown(domain.MilestoneTarget())
	logger.Info("countdown target", "target", countdown.Target())

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Ready:     p,
		Dashboard: dashboard.New(snap, countdown, cfg.DefaultCountry),
		Renderer:  chartimg.NewRenderer(960, 480),
		Exporter:  xlsx.NewExporter(),
		Metrics:   metrics,
		Logger:    logger,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

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
	metrics.DashboardReady.Set(0)

	logger.Info("shutdown complete")
}
