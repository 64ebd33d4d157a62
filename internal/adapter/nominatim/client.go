package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/launch-site-etl/internal/domain"
	"github.com/couchcryptid/launch-site-etl/internal/observability"
	"golang.org/x/time/rate"
)

const provider = "nominatim"

// Client implements domain.Geocoder using the OpenStreetMap Nominatim search API.
// Requests are rate limited; the public instance allows one per second.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim client. requestsPerSecond bounds the request rate.
func NewClient(baseURL, userAgent string, requestsPerSecond float64, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		metrics: metrics,
		logger:  logger,
	}
}

// ForwardGeocode looks a city up by name and returns the first match.
func (c *Client) ForwardGeocode(ctx context.Context, city string) (domain.GeocodingResult, error) {
	params := url.Values{
		"city":   {city},
		"format": {"json"},
		"limit":  {"1"},
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(provider, "error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeRequests.WithLabelValues(provider, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.GeocodingResult{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(provider, "error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(places) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues(provider, "empty").Inc()
		return domain.GeocodingResult{}, nil
	}

	result, err := places[0].toResult()
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(provider, "error").Inc()
		return domain.GeocodingResult{}, err
	}
	c.metrics.GeocodeRequests.WithLabelValues(provider, "success").Inc()
	c.logger.Debug("nominatim match", "city", city, "place", result.FormattedAddress)
	return result, nil
}

// Nominatim API response types. Coordinates arrive as strings.

type place struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Name        string  `json:"name"`
	Importance  float64 `json:"importance"`
}

func (p place) toResult() (domain.GeocodingResult, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse longitude %q: %w", p.Lon, err)
	}
	return domain.GeocodingResult{
		Found:            true,
		Lat:              lat,
		Lon:              lon,
		FormattedAddress: p.DisplayName,
		PlaceName:        p.Name,
		Confidence:       p.Importance,
	}, nil
}
