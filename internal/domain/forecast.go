package domain

import (
	"context"
	"strings"
	"time"
)

// ForecastPeriod is one named time segment of a forecast.
type ForecastPeriod struct {
	Name          string `json:"name"`
	Temperature   int    `json:"temperature"` // °F
	ShortForecast string `json:"shortForecast"`
}

// IsNight reports whether the period is a night segment ("Tonight",
// "Monday Night").
func (p ForecastPeriod) IsNight() bool {
	return strings.Contains(strings.ToLower(p.Name), "night")
}

// Presentation maps the period's condition text to an icon and color.
func (p ForecastPeriod) Presentation() Presentation {
	return MapCondition(p.ShortForecast, p.IsNight())
}

// ForecastSet is the ordered sequence of periods from one fetch.
type ForecastSet []ForecastPeriod

// ForecastRef is the opaque URL of a point's periodic forecast resource.
type ForecastRef string

// ForecastProvider resolves coordinates to a forecast and fetches it.
type ForecastProvider interface {
	// PointLookup returns the forecast reference for a coordinate.
	PointLookup(ctx context.Context, lat, lon float64) (ForecastRef, error)

	// FetchPeriods dereferences a forecast reference.
	FetchPeriods(ctx context.Context, ref ForecastRef) (ForecastSet, error)
}

// Forecast is the result of one successful lookup chain.
type Forecast struct {
	PostalCode string      `json:"postal_code"`
	Location   Location    `json:"location"`
	Place      Place       `json:"place"`
	Ref        ForecastRef `json:"forecast_url"`
	Periods    ForecastSet `json:"periods"`
	FetchedAt  time.Time   `json:"fetched_at"`
}

// NewForecast assembles a Forecast stamped with the current time.
func NewForecast(postalCode string, loc Location, ref ForecastRef, periods ForecastSet) Forecast {
	return Forecast{
		PostalCode: postalCode,
		Location:   loc,
		Place:      loc.Place(),
		Ref:        ref,
		Periods:    periods,
		FetchedAt:  clock.Now().UTC(),
	}
}
