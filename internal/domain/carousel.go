package domain

import "slices"

// DefaultWindowSize is the number of cards visible at once.
const DefaultWindowSize = 3

// Carousel is a sliding window over a ForecastSet.
//
// Invariant: 0 <= offset <= max(0, len(periods)-windowSize). A windowSize
// of zero or less shows every period. Carousel is not safe for concurrent
// use.
type Carousel struct {
	periods    ForecastSet
	offset     int
	windowSize int
}

// NewCarousel creates an empty carousel.
func NewCarousel(windowSize int) *Carousel {
	return &Carousel{windowSize: windowSize}
}

// Install replaces the periods and resets the window to the start.
func (c *Carousel) Install(set ForecastSet) {
	c.periods = slices.Clone(set)
	c.offset = 0
}

// Reset drops the loaded periods.
func (c *Carousel) Reset() {
	c.periods = nil
	c.offset = 0
}

// Advance moves the window forward by one. It is a no-op at the end.
func (c *Carousel) Advance() bool {
	if !c.CanAdvance() {
		return false
	}
	c.offset++
	return true
}

// Retreat moves the window back by one. It is a no-op at the start.
func (c *Carousel) Retreat() bool {
	if !c.CanRetreat() {
		return false
	}
	c.offset--
	return true
}

// CanAdvance reports whether a later period is outside the window.
func (c *Carousel) CanAdvance() bool { return c.offset+c.span() < len(c.periods) }

// CanRetreat reports whether the window is past the first period.
func (c *Carousel) CanRetreat() bool { return c.offset > 0 }

// Visible returns a copy of the periods in the current window. It is empty
// when nothing is loaded.
func (c *Carousel) Visible() ForecastSet {
	if len(c.periods) == 0 {
		return ForecastSet{}
	}
	end := min(c.offset+c.span(), len(c.periods))
	return slices.Clone(c.periods[c.offset:end])
}

// Offset is the index of the first visible period.
func (c *Carousel) Offset() int { return c.offset }

// Len is the number of loaded periods.
func (c *Carousel) Len() int { return len(c.periods) }

// span is the effective window size for the loaded set.
func (c *Carousel) span() int {
	if c.windowSize <= 0 || c.windowSize > len(c.periods) {
		return len(c.periods)
	}
	return c.windowSize
}
