package domain

import (
	"context"
	"strings"
)

// Positions of the derived fields within a Nominatim display_name.
const (
	citySegment  = 1
	stateSegment = 3
)

// Location is one geocoding candidate.
type Location struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// Place holds the human-readable fields derived from a display name.
// Either field may be empty when the address has too few segments.
type Place struct {
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

// Place derives city and state from the location's display name.
func (l Location) Place() Place {
	return ParsePlace(l.DisplayName)
}

// ParsePlace splits a comma-delimited display name and picks the city and
// state segments by position, e.g.
// "350 5th Ave, New York, NY, New York County, United States" gives
// city "New York" and state "New York County". This is a best-effort
// heuristic: missing segments yield empty strings.
func ParsePlace(displayName string) Place {
	parts := strings.Split(displayName, ",")
	return Place{
		City:  segment(parts, citySegment),
		State: segment(parts, stateSegment),
	}
}

func segment(parts []string, i int) string {
	if i >= len(parts) {
		return ""
	}
	return strings.TrimSpace(parts[i])
}

// Geocoder resolves a postal code to candidate locations.
type Geocoder interface {
	// Search returns candidates in provider-ranked order. An empty result
	// with a nil error means the provider found nothing.
	Search(ctx context.Context, postalCode string) ([]Location, error)
}
