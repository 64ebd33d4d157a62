package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// CityFromPath derives the city name from an input file path: the base name
// up to its first dot, so "data/Sofia.v2.csv" yields "Sofia".
func CityFromPath(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return strings.TrimSpace(base)
}

// LookupLatitude resolves a city's latitude. A nil geocoder, an empty city
// name or a lookup without a match all yield NotFoundLatitude so the city
// sorts last. Transport failures are returned to the caller.
func LookupLatitude(ctx context.Context, geocoder Geocoder, city string, logger *slog.Logger) (float64, error) {
	if geocoder == nil || city == "" {
		return NotFoundLatitude, nil
	}

	result, err := geocoder.ForwardGeocode(ctx, city)
	if err != nil {
		return 0, fmt.Errorf("geocode %q: %w", city, err)
	}
	if !result.Found {
		logger.Warn("city not found by geocoder", "city", city)
		return NotFoundLatitude, nil
	}

	logger.Debug("city geocoded", "city", city, "lat", result.Lat, "place", result.FormattedAddress)
	return result.Lat, nil
}
