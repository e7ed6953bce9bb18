package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendFirebase = "firebase"
)

// Geocoding providers.
const (
	GeocoderNominatim = "nominatim"
	GeocoderMapbox    = "mapbox"
	GeocoderNone      = "none"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Report store.
	StoreBackend    string
	StoreCollection string
	StoreTimeout    time.Duration

	FirebaseDatabaseURL string
	FirebaseAuth        string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	// Geocoding.
	GeocoderProvider   string
	GeocoderTimeout    time.Duration
	GeocoderCacheSize  int
	GeocoderCacheTTL   time.Duration
	GeocoderRedisCache bool

	NominatimURL       string
	NominatimUserAgent string
	NominatimRate      float64

	MapboxToken string

	// Report-created events.
	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaReportsTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	geocoderTimeout, err := parseDuration("GEOCODER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	storeTimeout, err := parseDuration("STORE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("GEOCODER_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}

	redisDB, err := strconv.Atoi(sharedcfg.EnvOrDefault("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		return nil, errors.New("invalid REDIS_DB")
	}

	rate, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NOMINATIM_RATE", "1"), 64)
	if err != nil || rate < 0 {
		return nil, errors.New("invalid NOMINATIM_RATE")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		StoreBackend:    sharedcfg.EnvOrDefault("STORE_BACKEND", BackendMemory),
		StoreCollection: sharedcfg.EnvOrDefault("STORE_COLLECTION", "reports"),
		StoreTimeout:    storeTimeout,

		FirebaseDatabaseURL: os.Getenv("FIREBASE_DATABASE_URL"),
		FirebaseAuth:        os.Getenv("FIREBASE_AUTH"),

		RedisAddr:      sharedcfg.EnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		RedisKeyPrefix: sharedcfg.EnvOrDefault("REDIS_KEY_PREFIX", "crimemap"),

		GeocoderProvider:   sharedcfg.EnvOrDefault("GEOCODER_PROVIDER", GeocoderNominatim),
		GeocoderTimeout:    geocoderTimeout,
		GeocoderCacheSize:  parsePositiveInt("GEOCODER_CACHE_SIZE", 1000),
		GeocoderCacheTTL:   cacheTTL,
		GeocoderRedisCache: os.Getenv("GEOCODER_REDIS_CACHE") == "true",

		NominatimURL:       sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: sharedcfg.EnvOrDefault("NOMINATIM_USER_AGENT", "crime-hotspot-mapping/1.0"),
		NominatimRate:      rate,

		MapboxToken: os.Getenv("MAPBOX_TOKEN"),

		KafkaEnabled:      os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:      sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaReportsTopic: sharedcfg.EnvOrDefault("KAFKA_REPORTS_TOPIC", "crime-reports"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required")
		}
	case BackendFirebase:
		if c.FirebaseDatabaseURL == "" {
			return errors.New("FIREBASE_DATABASE_URL is required")
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q", c.StoreBackend)
	}
	if c.StoreCollection == "" {
		return errors.New("STORE_COLLECTION is required")
	}

	switch c.GeocoderProvider {
	case GeocoderNominatim, GeocoderNone:
	case GeocoderMapbox:
		if c.MapboxToken == "" {
			return errors.New("GEOCODER_PROVIDER is mapbox but MAPBOX_TOKEN is not set")
		}
	default:
		return fmt.Errorf("invalid GEOCODER_PROVIDER %q", c.GeocoderProvider)
	}
	if c.GeocoderRedisCache && c.RedisAddr == "" {
		return errors.New("GEOCODER_REDIS_CACHE is true but REDIS_ADDR is not set")
	}

	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required")
		}
		if c.KafkaReportsTopic == "" {
			return errors.New("KAFKA_REPORTS_TOPIC is required")
		}
	}
	return nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
