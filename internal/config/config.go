package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Geocoding providers.
const (
	GeocoderNominatim = "nominatim"
	GeocoderMapbox    = "mapbox"
	GeocoderNone      = "none"
)

// Config holds all program settings, populated from environment variables.
// The interactive answers (directory, mail identities) are not part of it.
type Config struct {
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	MaxParallelFiles int
	SkipInvalidFiles bool

	// Geocoding configuration.
	Geocoder           string
	NominatimURL       string
	NominatimUserAgent string
	NominatimRateLimit float64
	MapboxToken        string
	GeocodeTimeout     time.Duration
	GeocodeCacheSize   int
	MemcacheAddrs      string
	MemcacheTTL        time.Duration

	// Mail transport.
	SMTPHost    string
	SMTPPort    int
	SMTPTimeout time.Duration

	// Optional sinks.
	KafkaBrokers   []string
	KafkaTopic     string
	PushgatewayURL string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	geocodeTimeout, err := parseDuration("GEOCODE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	memcacheTTL, err := parseDuration("MEMCACHE_TTL", "720h")
	if err != nil {
		return nil, err
	}
	smtpTimeout, err := parseDuration("SMTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	smtpPort, err := parsePositiveInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	maxParallel, err := parsePositiveInt("MAX_PARALLEL_FILES", 4)
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NOMINATIM_RATE_LIMIT", "1"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid NOMINATIM_RATE_LIMIT")
	}

	skipInvalid, err := strconv.ParseBool(sharedcfg.EnvOrDefault("SKIP_INVALID_FILES", "false"))
	if err != nil {
		return nil, errors.New("invalid SKIP_INVALID_FILES")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,

		MaxParallelFiles: maxParallel,
		SkipInvalidFiles: skipInvalid,

		Geocoder:           sharedcfg.EnvOrDefault("GEOCODER", GeocoderNominatim),
		NominatimURL:       sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: sharedcfg.EnvOrDefault("NOMINATIM_USER_AGENT", "launch-site-etl/1.0"),
		NominatimRateLimit: rateLimit,
		MapboxToken:        os.Getenv("MAPBOX_TOKEN"),
		GeocodeTimeout:     geocodeTimeout,
		GeocodeCacheSize:   parseCacheSize(),
		MemcacheAddrs:      os.Getenv("MEMCACHE_ADDRS"),
		MemcacheTTL:        memcacheTTL,

		SMTPHost:    sharedcfg.EnvOrDefault("SMTP_HOST", "smtp-mail.outlook.com"),
		SMTPPort:    smtpPort,
		SMTPTimeout: smtpTimeout,

		KafkaBrokers:   brokers,
		KafkaTopic:     sharedcfg.EnvOrDefault("KAFKA_TOPIC", "launch-decisions"),
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
	}

	switch cfg.Geocoder {
	case GeocoderNominatim, GeocoderMapbox, GeocoderNone:
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q: want nominatim, mapbox or none", cfg.Geocoder)
	}
	if cfg.Geocoder == GeocoderMapbox && cfg.MapboxToken == "" {
		return nil, errors.New("GEOCODER is mapbox but MAPBOX_TOKEN is not set")
	}
	if cfg.SMTPHost == "" {
		return nil, errors.New("SMTP_HOST is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether decisions should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseCacheSize() int {
	if s := os.Getenv("GEOCODE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
