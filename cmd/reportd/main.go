// Command reportd serves the crime report API: report listing and
// submission, map markers, dashboard statistics, and geocoding.
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

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/adapter/firebase"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/adapter/geocache"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/adapter/httpadapter"
	kafkaadapter "github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/adapter/kafka"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/adapter/mapbox"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/adapter/memstore"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/adapter/nominatim"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/adapter/redisstore"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/config"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/locate"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/observability"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/store"
)

const (
	startupWait       = 30 * time.Second
	maxStartupBackoff = 5 * time.Second
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Redis is shared by the redis store backend and the geocode cache.
	var rc *redis.Client
	if cfg.StoreBackend == config.BackendRedis || cfg.GeocoderRedisCache {
		rc = redisstore.Open(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}

	kv := newKV(cfg, rc, logger)
	geocoder := newGeocoder(cfg, rc, logger, metrics)

	var publisher store.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("report events enabled", "topic", cfg.KafkaReportsTopic, "brokers", cfg.KafkaBrokers)
	}

	reports := store.New(kv, cfg.StoreCollection, publisher, logger, metrics)
	resolver := locate.NewResolver(geocoder, cfg.GeocoderTimeout, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, reports, resolver, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	waitForStore(ctx, reports, logger)

	// Start HTTP server.
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
	if rc != nil {
		if err := rc.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func newKV(cfg *config.Config, rc *redis.Client, logger *slog.Logger) store.KV {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		logger.Info("report store: redis", "addr", cfg.RedisAddr, "prefix", cfg.RedisKeyPrefix)
		return redisstore.New(rc, cfg.RedisKeyPrefix)
	case config.BackendFirebase:
		logger.Info("report store: firebase", "url", cfg.FirebaseDatabaseURL)
		return firebase.NewClient(cfg.FirebaseDatabaseURL, cfg.FirebaseAuth, cfg.StoreTimeout, logger)
	default:
		logger.Warn("report store: in-memory, reports are lost on restart")
		return memstore.New()
	}
}

// newGeocoder builds provider -> LRU -> optional Redis. It returns nil when
// geocoding is disabled; reverse lookups then fall back to coordinates.
func newGeocoder(cfg *config.Config, rc *redis.Client, logger *slog.Logger, metrics *observability.Metrics) domain.Geocoder {
	var provider domain.Geocoder
	switch cfg.GeocoderProvider {
	case config.GeocoderNominatim:
		provider = nominatim.NewClient(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.NominatimRate, cfg.GeocoderTimeout, logger)
	case config.GeocoderMapbox:
		provider = mapbox.NewClient(cfg.MapboxToken, cfg.GeocoderTimeout, logger)
	default:
		metrics.GeocodeEnabled.Set(0)
		logger.Info("geocoding disabled")
		return nil
	}
	metrics.GeocodeEnabled.Set(1)

	var g domain.Geocoder = geocache.NewCachedGeocoder(provider, cfg.GeocoderCacheSize, metrics)
	if cfg.GeocoderRedisCache {
		g = geocache.NewRedisGeocoder(g, rc, cfg.RedisKeyPrefix, cfg.GeocoderCacheTTL, logger, metrics)
	}
	logger.Info("geocoding enabled",
		"provider", cfg.GeocoderProvider,
		"cache_size", cfg.GeocoderCacheSize,
		"redis_cache", cfg.GeocoderRedisCache,
		"timeout", cfg.GeocoderTimeout,
	)
	return g
}

// waitForStore pings the backend with exponential backoff so the first
// requests do not race a store that is still starting. It gives up after
// startupWait and leaves /readyz to report the problem.
func waitForStore(ctx context.Context, s *store.Store, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, startupWait)
	defer cancel()

	backoff := 250 * time.Millisecond
	for {
		err := s.CheckReadiness(ctx)
		if err == nil {
			return
		}
		logger.Warn("report store not ready", "error", err, "retry_in", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			logger.Error("report store still unavailable, serving anyway")
			return
		}
		backoff = retry.NextBackoff(backoff, maxStartupBackoff)
	}
}
