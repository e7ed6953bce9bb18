package geocache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/observability"
)

// DefaultTTL is how long a shared geocode answer is kept.
const DefaultTTL = 24 * time.Hour

// RedisGeocoder shares geocode answers between service instances through
// Redis. Redis failures are logged and the lookup goes to the inner
// geocoder, so the cache never makes geocoding less available.
type RedisGeocoder struct {
	inner   domain.Geocoder
	rc      *redis.Client
	prefix  string
	ttl     time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRedisGeocoder creates a Redis-backed cache decorator. Keys are
// "<prefix>:geocode:<fwd|rev>:...".
func NewRedisGeocoder(inner domain.Geocoder, rc *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics) *RedisGeocoder {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisGeocoder{
		inner:   inner,
		rc:      rc,
		prefix:  prefix,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

func (g *RedisGeocoder) key(k string) string {
	if g.prefix == "" {
		return "geocode:" + k
	}
	return g.prefix + ":geocode:" + k
}

func (g *RedisGeocoder) Search(ctx context.Context, text string) ([]domain.Place, error) {
	key := g.key(searchKey(text))
	var places []domain.Place
	if g.load(ctx, key, "forward", &places) {
		return places, nil
	}

	places, err := g.inner.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(places) > 0 {
		g.store(ctx, key, places)
	}
	return places, nil
}

func (g *RedisGeocoder) Reverse(ctx context.Context, lat, lon float64) (domain.Place, error) {
	key := g.key(reverseKey(lat, lon))
	var place domain.Place
	if g.load(ctx, key, "reverse", &place) {
		return place, nil
	}

	place, err := g.inner.Reverse(ctx, lat, lon)
	if err != nil {
		return place, err
	}
	if place.DisplayName != "" {
		g.store(ctx, key, place)
	}
	return place, nil
}

func (g *RedisGeocoder) load(ctx context.Context, key, method string, out any) bool {
	s, err := g.rc.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			g.logger.Warn("geocode cache read failed", "key", key, "error", err)
		}
		g.metrics.GeocodeCache.WithLabelValues("redis", method, "miss").Inc()
		return false
	}
	if err := json.Unmarshal([]byte(s), out); err != nil {
		g.logger.Warn("discarding corrupt geocode cache entry", "key", key, "error", err)
		g.metrics.GeocodeCache.WithLabelValues("redis", method, "miss").Inc()
		return false
	}
	g.metrics.GeocodeCache.WithLabelValues("redis", method, "hit").Inc()
	return true
}

func (g *RedisGeocoder) store(ctx context.Context, key string, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := g.rc.Set(ctx, key, b, g.ttl).Err(); err != nil {
		g.logger.Warn("geocode cache write failed", "key", key, "error", err)
	}
}
