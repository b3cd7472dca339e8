package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/zip-forecast/internal/domain"
	"github.com/couchcryptid/zip-forecast/internal/observability"
	"github.com/go-resty/resty/v2"
)

const (
	endpointPoints   = "points"
	endpointForecast = "forecast"
)

// errMissingForecastURL is returned when a points response has no forecast link,
// which happens for coordinates outside NWS coverage.
var errMissingForecastURL = errors.New("points response has no forecast url")

// Client implements domain.ForecastProvider using the National Weather
// Service API.
type Client struct {
	http    *resty.Client
	baseURL string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a weather.gov client. NWS rejects requests without a
// User-Agent; a zero timeout disables the request deadline.
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/geo+json").
			SetTimeout(timeout),
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// PointLookup returns the gridpoint forecast URL for a coordinate.
func (c *Client) PointLookup(ctx context.Context, lat, lon float64) (domain.ForecastRef, error) {
	u := fmt.Sprintf("%s/points/%s,%s", c.baseURL, formatCoord(lat), formatCoord(lon))

	var resp pointResponse
	if err := c.getJSON(ctx, u, endpointPoints, &resp); err != nil {
		return "", err
	}
	if resp.Properties.Forecast == "" {
		c.metrics.UpstreamRequests.WithLabelValues(endpointPoints, "empty").Inc()
		return "", errMissingForecastURL
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpointPoints, "success").Inc()
	return domain.ForecastRef(resp.Properties.Forecast), nil
}

// FetchPeriods dereferences a forecast URL into its ordered periods.
func (c *Client) FetchPeriods(ctx context.Context, ref domain.ForecastRef) (domain.ForecastSet, error) {
	var resp forecastResponse
	if err := c.getJSON(ctx, string(ref), endpointForecast, &resp); err != nil {
		return nil, err
	}

	set := make(domain.ForecastSet, 0, len(resp.Properties.Periods))
	for _, p := range resp.Properties.Periods {
		set = append(set, domain.ForecastPeriod{
			Name:          p.Name,
			Temperature:   p.Temperature,
			ShortForecast: p.ShortForecast,
		})
	}

	outcome := "success"
	if len(set) == 0 {
		outcome = "empty"
	}
	c.metrics.UpstreamRequests.WithLabelValues(endpointForecast, outcome).Inc()
	return set, nil
}

// getJSON performs a GET and decodes a 200 response into v. Error outcomes
// are counted here; success outcomes are counted by the caller.
func (c *Client) getJSON(ctx context.Context, fullURL, endpoint string, v any) error {
	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(fullURL)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s request: %w", endpoint, err)
	}

	c.logger.Debug("nws response",
		"endpoint", endpoint,
		"url", fullURL,
		"status", resp.StatusCode(),
		"duration", time.Since(start),
	)

	if resp.StatusCode() != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("nws API error: status %d: %s", resp.StatusCode(), resp.String())
	}

	if err := json.Unmarshal(resp.Body(), v); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// formatCoord rounds to the four decimal places NWS accepts without a redirect.
func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}

// NWS API response types (GeoJSON features; only used fields are decoded).

type pointResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []period `json:"periods"`
	} `json:"properties"`
}

type period struct {
	Name          string `json:"name"`
	Temperature   int    `json:"temperature"`
	ShortForecast string `json:"shortForecast"`
}
