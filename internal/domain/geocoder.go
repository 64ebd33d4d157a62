package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
// Found is false when the provider had no match for the query.
type GeocodingResult struct {
	Found            bool
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder resolves city names to coordinates.
type Geocoder interface {
	// ForwardGeocode converts a city name to coordinates.
	ForwardGeocode(ctx context.Context, city string) (GeocodingResult, error)
}
