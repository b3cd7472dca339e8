// Package presenter owns the widget state: the current forecast, the
// carousel window over it, and the single error message.
package presenter

import (
	"context"
	"log/slog"
	"sync"

	"github.com/couchcryptid/zip-forecast/internal/domain"
	"github.com/couchcryptid/zip-forecast/internal/observability"
)

// Runner executes one lookup chain.
type Runner interface {
	Run(ctx context.Context, postalCode string) (domain.Forecast, error)
}

// Card is one rendered forecast period.
type Card struct {
	Name        string       `json:"name"`
	Temperature int          `json:"temperature"`
	Condition   string       `json:"condition"`
	Icon        domain.Icon  `json:"icon"`
	Color       domain.Color `json:"color"`
}

// View is a snapshot of the widget state.
type View struct {
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Error      string `json:"error,omitempty"`
	Loading    bool   `json:"loading"`
	Loaded     bool   `json:"loaded"`
	Cards      []Card `json:"cards"`
	Offset     int    `json:"offset"`
	Total      int    `json:"total"`
	CanPrev    bool   `json:"can_prev"`
	CanNext    bool   `json:"can_next"`
}

// HasForecast reports whether a forecast is loaded.
func (v View) HasForecast() bool { return v.Loaded }

// Presenter applies lookup results to the widget state. Only the most
// recently submitted lookup may change it: each Submit bumps a generation
// counter and cancels the lookup it supersedes. Presenter is safe for
// concurrent use.
type Presenter struct {
	runner  Runner
	logger  *slog.Logger
	metrics *observability.Metrics

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	loading    bool
	forecast   *domain.Forecast
	carousel   *domain.Carousel
	errMsg     string
}

// New creates a Presenter showing windowSize cards at a time (0 shows all).
func New(runner Runner, windowSize int, logger *slog.Logger, metrics *observability.Metrics) *Presenter {
	return &Presenter{
		runner:   runner,
		logger:   logger,
		metrics:  metrics,
		carousel: domain.NewCarousel(windowSize),
	}
}

// Submit runs a lookup for postalCode and blocks until it finishes. A
// success installs the forecast with the window at the start; a failure
// clears the forecast and sets the error message. The result is dropped
// when a newer Submit started in the meantime or ctx was cancelled.
func (p *Presenter) Submit(ctx context.Context, postalCode string) View {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.generation++
	gen := p.generation
	p.cancel = cancel
	p.loading = true
	p.mu.Unlock()

	forecast, err := p.runner.Run(ctx, postalCode)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		p.metrics.StaleDiscarded.Inc()
		p.logger.Debug("discarding superseded lookup", "postal_code", postalCode, "generation", gen)
		return p.viewLocked()
	}
	p.cancel = nil
	p.loading = false

	if ctx.Err() != nil {
		p.logger.Debug("lookup abandoned", "postal_code", postalCode, "error", ctx.Err())
		return p.viewLocked()
	}

	if err != nil {
		p.errMsg = domain.UserMessage(err)
		p.forecast = nil
		p.carousel.Reset()
		return p.viewLocked()
	}

	p.errMsg = ""
	p.forecast = &forecast
	p.carousel.Install(forecast.Periods)
	return p.viewLocked()
}

// Advance moves the carousel forward one card.
func (p *Presenter) Advance() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.countNavigation("next", p.carousel.Advance())
	return p.viewLocked()
}

// Retreat moves the carousel back one card.
func (p *Presenter) Retreat() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.countNavigation("prev", p.carousel.Retreat())
	return p.viewLocked()
}

// View returns the current state.
func (p *Presenter) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

func (p *Presenter) countNavigation(direction string, moved bool) {
	result := "noop"
	if moved {
		result = "moved"
	}
	p.metrics.Navigations.WithLabelValues(direction, result).Inc()
}

func (p *Presenter) viewLocked() View {
	v := View{
		Error:   p.errMsg,
		Loading: p.loading,
		Cards:   []Card{},
	}
	if p.forecast == nil {
		return v
	}

	v.Loaded = true
	v.PostalCode = p.forecast.PostalCode
	v.City = p.forecast.Place.City
	v.State = p.forecast.Place.State
	v.Offset = p.carousel.Offset()
	v.Total = p.carousel.Len()
	v.CanPrev = p.carousel.CanRetreat()
	v.CanNext = p.carousel.CanAdvance()
	for _, period := range p.carousel.Visible() {
		pres := period.Presentation()
		v.Cards = append(v.Cards, Card{
			Name:        period.Name,
			Temperature: period.Temperature,
			Condition:   period.ShortForecast,
			Icon:        pres.Icon,
			Color:       pres.Color,
		})
	}
	return v
}
