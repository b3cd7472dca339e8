package domain

import (
	"errors"
	"fmt"
)

// Messages shown to the user. Exactly one is displayed per failed lookup.
const (
	MsgInvalidPostalCode = "Invalid ZIP code"
	MsgCoordinates       = "Error fetching coordinates"
	MsgWeatherData       = "Error fetching weather data"
	MsgForecastData      = "Error fetching forecast data"
)

// Stage identifies the step of the lookup chain that failed.
type Stage string

const (
	StageGeocode  Stage = "geocode"
	StagePoint    Stage = "point"
	StageForecast Stage = "forecast"
)

// ErrNoCandidates is returned when geocoding succeeds with zero results.
var ErrNoCandidates = errors.New("geocoder returned no candidates")

// LookupError is the terminal failure of a lookup chain.
type LookupError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *LookupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// InvalidInput reports whether the failure was caused by the query rather
// than an upstream service.
func (e *LookupError) InvalidInput() bool {
	return errors.Is(e.Err, ErrNoCandidates)
}

// UserMessage returns the text to display for a lookup failure.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var le *LookupError
	if errors.As(err, &le) && le.Message != "" {
		return le.Message
	}
	return MsgCoordinates
}
