package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/recruiting-territories-service/internal/adapter/csvdata"
	httpadapter "github.com/couchcryptid/recruiting-territories-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/recruiting-territories-service/internal/adapter/kafka"
	"github.com/couchcryptid/recruiting-territories-service/internal/adapter/mapbox"
	"github.com/couchcryptid/recruiting-territories-service/internal/config"
	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
	"github.com/couchcryptid/recruiting-territories-service/internal/observability"
	"github.com/couchcryptid/recruiting-territories-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Hometowns without coordinates are geocoded when MAPBOX_ENABLED / MAPBOX_TOKEN allow it.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	loader := csvdata.NewCachedLoader(
		csvdata.NewLoader(csvdata.Options{
			RecruitsURL:  cfg.RecruitsURL,
			TeamsURL:     cfg.TeamsURL,
			FetchTimeout: cfg.FetchTimeout,
			OrphanPolicy: domain.OrphanPolicy(cfg.OrphanCommitPolicy),
			Geocoder:     geocoder,
		}, metrics, logger),
		cfg.DatasetTTL,
		clockwork.NewRealClock(),
		logger,
	)

	var (
		publisher pipeline.ConnectionPublisher
		kafkaPub  *kafkaadapter.Publisher
	)
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaConnectionsTopic)
	}

	p := pipeline.New(loader, publisher, cfg.DefaultTeams, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Load the dataset in the background; /readyz reports 503 until it lands.
	go func() {
		if err := p.Warm(ctx); err != nil {
			logger.Error("initial dataset load failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
