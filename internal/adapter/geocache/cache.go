// Package geocache decorates a domain.Geocoder with a lookup cache. Cities
// rarely move, so a result stays valid across runs when a shared store such
// as memcached backs the cache.
package geocache

import (
	"context"
	"log/slog"
	"strings"

	"github.com/couchcryptid/launch-site-etl/internal/domain"
	"github.com/couchcryptid/launch-site-etl/internal/observability"
	"golang.org/x/sync/singleflight"
)

// Store holds geocoding results by key. Get returns false, nil on a miss.
type Store interface {
	Get(ctx context.Context, key string) (domain.GeocodingResult, bool, error)
	Set(ctx context.Context, key string, value domain.GeocodingResult) error
}

// CachedGeocoder wraps a Geocoder with a Store. Concurrent misses for the
// same city share one provider request.
type CachedGeocoder struct {
	inner   domain.Geocoder
	store   Store
	flight  singleflight.Group
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, store Store, metrics *observability.Metrics, logger *slog.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// ForwardGeocode serves a city from the store when possible. Store failures
// are logged and fall through to the wrapped geocoder.
func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, city string) (domain.GeocodingResult, error) {
	key := cacheKey(city)

	result, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.metrics.GeocodeCache.WithLabelValues("error").Inc()
		c.logger.Warn("geocode cache read failed", "city", city, "error", err)
	case ok:
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	default:
		c.metrics.GeocodeCache.WithLabelValues("miss").Inc()
	}

	v, err, shared := c.flight.Do(key, func() (any, error) {
		return c.lookup(ctx, key, city)
	})
	if shared {
		c.metrics.GeocodeCache.WithLabelValues("shared").Inc()
	}
	if err != nil {
		return domain.GeocodingResult{}, err
	}
	return v.(domain.GeocodingResult), nil
}

func (c *CachedGeocoder) lookup(ctx context.Context, key, city string) (domain.GeocodingResult, error) {
	result, err := c.inner.ForwardGeocode(ctx, city)
	if err != nil {
		return result, err
	}
	// Only cache matches so "not found" can be retried on a later run.
	if result.Found {
		if err := c.store.Set(ctx, key, result); err != nil {
			c.logger.Warn("geocode cache write failed", "city", city, "error", err)
		}
	}
	return result, nil
}

// cacheKey normalizes a city so "Sofia" and " sofia " share an entry.
func cacheKey(city string) string {
	return "fwd:" + strings.ToLower(strings.TrimSpace(city))
}
