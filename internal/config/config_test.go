package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapboxToken = "pk.test-token"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 4, cfg.MaxParallelFiles)
	assert.False(t, cfg.SkipInvalidFiles)
	assert.Equal(t, GeocoderNominatim, cfg.Geocoder)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.NominatimURL)
	assert.Equal(t, "launch-site-etl/1.0", cfg.NominatimUserAgent)
	assert.Equal(t, 1.0, cfg.NominatimRateLimit)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
	assert.Empty(t, cfg.MemcacheAddrs)
	assert.Equal(t, 720*time.Hour, cfg.MemcacheTTL)
	assert.Equal(t, "smtp-mail.outlook.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 30*time.Second, cfg.SMTPTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "launch-decisions", cfg.KafkaTopic)
	assert.Empty(t, cfg.PushgatewayURL)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MAX_PARALLEL_FILES", "1")
	t.Setenv("SKIP_INVALID_FILES", "true")
	t.Setenv("GEOCODER", GeocoderMapbox)
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("NOMINATIM_RATE_LIMIT", "0.5")
	t.Setenv("GEOCODE_TIMEOUT", "2s")
	t.Setenv("GEOCODE_CACHE_SIZE", "50")
	t.Setenv("MEMCACHE_ADDRS", "cache1:11211,cache2:11211")
	t.Setenv("MEMCACHE_TTL", "1h")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_TIMEOUT", "5s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-decisions")
	t.Setenv("PUSHGATEWAY_URL", "http://pushgateway:9091")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 1, cfg.MaxParallelFiles)
	assert.True(t, cfg.SkipInvalidFiles)
	assert.Equal(t, GeocoderMapbox, cfg.Geocoder)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 0.5, cfg.NominatimRateLimit)
	assert.Equal(t, 2*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 50, cfg.GeocodeCacheSize)
	assert.Equal(t, "cache1:11211,cache2:11211", cfg.MemcacheAddrs)
	assert.Equal(t, time.Hour, cfg.MemcacheTTL)
	assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, 5*time.Second, cfg.SMTPTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "custom-decisions", cfg.KafkaTopic)
	assert.Equal(t, "http://pushgateway:9091", cfg.PushgatewayURL)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"GEOCODE_TIMEOUT", "bad"},
		{"GEOCODE_TIMEOUT", "-1s"},
		{"MEMCACHE_TTL", "forever"},
		{"SMTP_TIMEOUT", "0s"},
		{"SMTP_PORT", "smtp"},
		{"MAX_PARALLEL_FILES", "0"},
		{"NOMINATIM_RATE_LIMIT", "-2"},
		{"SKIP_INVALID_FILES", "sometimes"},
		{"GEOCODER", "google"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_MapboxWithoutToken(t *testing.T) {
	t.Setenv("GEOCODER", GeocoderMapbox)
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_GeocodingDisabled(t *testing.T) {
	t.Setenv("GEOCODER", GeocoderNone)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, GeocoderNone, cfg.Geocoder)
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("GEOCODE_CACHE_SIZE", "-5")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
}
