package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/zip-forecast/internal/domain"
	"github.com/couchcryptid/zip-forecast/internal/observability"
	"github.com/go-resty/resty/v2"
)

const endpoint = "geocode"

// Client implements domain.Geocoder using the Nominatim search API.
type Client struct {
	http    *resty.Client
	baseURL string
	country string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a Nominatim geocoding client. country is appended to
// every query to keep postal codes from matching abroad; a zero timeout
// disables the request deadline.
func NewClient(baseURL, country, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json").
			SetTimeout(timeout),
		baseURL: baseURL,
		country: country,
		metrics: metrics,
		logger:  logger,
	}
}

// Search returns the candidates for a postal code in provider-ranked order.
func (c *Client) Search(ctx context.Context, postalCode string) ([]domain.Location, error) {
	query := postalCode
	if c.country != "" {
		query = fmt.Sprintf("%s,%s", postalCode, c.country)
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"format": "json",
		}).
		Get(c.baseURL)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("geocode request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode(), resp.String())
	}

	var results []result
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	locations := make([]domain.Location, 0, len(results))
	for i, r := range results {
		loc, err := r.location()
		if err != nil {
			c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		locations = append(locations, loc)
	}

	outcome := "success"
	if len(locations) == 0 {
		outcome = "empty"
	}
	c.metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	c.logger.Debug("geocode response",
		"postal_code", postalCode,
		"candidates", len(locations),
		"duration", time.Since(start),
	)
	return locations, nil
}

// Nominatim API response types. Coordinates are JSON strings.

type result struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (r result) location() (domain.Location, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return domain.Location{}, fmt.Errorf("parse lat %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return domain.Location{}, fmt.Errorf("parse lon %q: %w", r.Lon, err)
	}
	return domain.Location{Lat: lat, Lon: lon, DisplayName: r.DisplayName}, nil
}
