package domain

import "github.com/jonboulle/clockwork"

// clock stamps Forecast.FetchedAt. Tests inject a fake via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by NewForecast. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
