package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/zip-forecast/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/zip-forecast/internal/adapter/kafka"
	"github.com/couchcryptid/zip-forecast/internal/adapter/nominatim"
	"github.com/couchcryptid/zip-forecast/internal/adapter/nws"
	"github.com/couchcryptid/zip-forecast/internal/config"
	"github.com/couchcryptid/zip-forecast/internal/lookup"
	"github.com/couchcryptid/zip-forecast/internal/observability"
	"github.com/couchcryptid/zip-forecast/internal/presenter"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; the environment alone is authoritative.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	geocoder := nominatim.NewClient(cfg.NominatimURL, cfg.GeocoderCountry, cfg.UserAgent, cfg.RequestTimeout, metrics, logger)
	forecasts := nws.NewClient(cfg.NWSURL, cfg.UserAgent, cfg.RequestTimeout, metrics, logger)

	// Lookup event publishing (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var publisher lookup.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		metrics.PublisherEnabled.Set(1)
		logger.Info("lookup event publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("lookup event publishing disabled")
	}

	chain := lookup.New(geocoder, forecasts, publisher, logger, metrics)
	widget := presenter.New(chain, cfg.WindowSize, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, widget, chain, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	logger.Info("shutdown complete")
}
