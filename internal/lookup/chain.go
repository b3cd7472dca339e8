package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/zip-forecast/internal/domain"
	"github.com/couchcryptid/zip-forecast/internal/observability"
)

// Publisher receives every successful lookup.
type Publisher interface {
	Publish(ctx context.Context, forecast domain.Forecast) error
}

// Chain runs the geocode, point lookup, and forecast fetch steps in order.
// Each step starts only after the previous one succeeds.
type Chain struct {
	geocoder  domain.Geocoder
	forecasts domain.ForecastProvider
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	// upstreamDown holds the stage of the most recent upstream failure, or
	// "" after a success.
	upstreamDown atomic.Value
}

// New creates a Chain. Pass a nil publisher to disable lookup events.
func New(g domain.Geocoder, f domain.ForecastProvider, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Chain {
	c := &Chain{
		geocoder:  g,
		forecasts: f,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
	c.upstreamDown.Store(domain.Stage(""))
	return c
}

// CheckReadiness returns an error while the most recent lookup failed
// because of an upstream service. Invalid postal codes do not count.
func (c *Chain) CheckReadiness(_ context.Context) error {
	if stage := c.upstreamDown.Load().(domain.Stage); stage != "" {
		return fmt.Errorf("last lookup failed at %s stage", stage)
	}
	return nil
}

// Run resolves a postal code to a forecast. On failure the returned error
// is a *domain.LookupError naming the failed stage.
func (c *Chain) Run(ctx context.Context, postalCode string) (domain.Forecast, error) {
	start := time.Now()

	candidates, err := c.geocoder.Search(ctx, postalCode)
	if err != nil {
		return domain.Forecast{}, c.fail(ctx, domain.StageGeocode, domain.MsgCoordinates, postalCode, err)
	}
	if len(candidates) == 0 {
		return domain.Forecast{}, c.fail(ctx, domain.StageGeocode, domain.MsgInvalidPostalCode, postalCode, domain.ErrNoCandidates)
	}

	loc := candidates[0]
	ref, err := c.forecasts.PointLookup(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return domain.Forecast{}, c.fail(ctx, domain.StagePoint, domain.MsgWeatherData, postalCode, err)
	}

	periods, err := c.forecasts.FetchPeriods(ctx, ref)
	if err != nil {
		return domain.Forecast{}, c.fail(ctx, domain.StageForecast, domain.MsgForecastData, postalCode, err)
	}

	forecast := domain.NewForecast(postalCode, loc, ref, periods)

	c.upstreamDown.Store(domain.Stage(""))
	c.metrics.Lookups.WithLabelValues("done", "success").Inc()
	c.metrics.LookupDuration.Observe(time.Since(start).Seconds())
	c.logger.Info("lookup complete",
		"postal_code", postalCode,
		"lat", loc.Lat,
		"lon", loc.Lon,
		"periods", len(periods),
		"duration", time.Since(start),
	)

	c.publish(ctx, forecast)
	return forecast, nil
}

func (c *Chain) fail(ctx context.Context, stage domain.Stage, msg, postalCode string, err error) error {
	lerr := &domain.LookupError{Stage: stage, Message: msg, Err: err}

	switch {
	case lerr.InvalidInput():
		c.metrics.Lookups.WithLabelValues(string(stage), "invalid_input").Inc()
		c.logger.Info("no geocode candidates", "postal_code", postalCode)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		// Superseded or abandoned by the caller; not an upstream problem.
		c.logger.Debug("lookup cancelled", "postal_code", postalCode, "stage", stage)
	default:
		c.upstreamDown.Store(stage)
		c.metrics.Lookups.WithLabelValues(string(stage), "upstream_error").Inc()
		c.logger.Warn("lookup failed",
			"postal_code", postalCode,
			"stage", stage,
			"error", err,
		)
	}
	return lerr
}

func (c *Chain) publish(ctx context.Context, forecast domain.Forecast) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, forecast); err != nil {
		c.metrics.PublishErrors.Inc()
		c.logger.Warn("publish lookup event failed",
			"postal_code", forecast.PostalCode,
			"error", err,
		)
	}
}
