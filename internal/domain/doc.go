// Package domain models ZIP-code forecast lookups against public address and
// weather services.
//
// # Geocoding
//
// Postal codes are resolved with the Nominatim search API
// (https://nominatim.openstreetmap.org/search). Each candidate carries
// string-encoded "lat" and "lon" and a locale-formatted "display_name":
//
//	"350 5th Ave, New York, NY, New York County, United States"
//
// Candidates are ranked by the provider and only the first is used.
// City and state are derived by position (segments 1 and 3), see
// [ParsePlace]. The format is not guaranteed, so either may be empty.
//
// # Forecasts
//
// The National Weather Service API is a two-step lookup. GET
// /points/{lat},{lon} returns a GeoJSON feature whose properties.forecast
// holds the URL of the gridpoint forecast ([ForecastRef]). That URL returns
// properties.periods, an ordered list of named segments:
//
//	{"name": "Tonight", "temperature": 61, "shortForecast": "Mostly Clear"}
//
// Temperatures are whole degrees Fahrenheit.
//
// # Presentation
//
// Condition text is free-form ("Chance Showers And Thunderstorms"). It is
// mapped to an icon and color by ordered keyword tables, see
// [MapCondition]. Night periods are detected from the period name.
//
// # Failures
//
// A lookup fails at exactly one [Stage] and surfaces one message. A geocode
// with zero candidates is an input problem ([MsgInvalidPostalCode]); every
// other failure is attributed to the step that failed, without further
// distinction by cause.
package domain
