package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/couchcryptid/zip-forecast/internal/domain"
	"github.com/couchcryptid/zip-forecast/internal/observability"
	"github.com/couchcryptid/zip-forecast/internal/presenter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	forecast domain.Forecast
	err      error
}

func (s stubRunner) Run(_ context.Context, _ string) (domain.Forecast, error) {
	return s.forecast, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testForecast() domain.Forecast {
	loc := domain.Location{Lat: 40.75, Lon: -73.99, DisplayName: "350 5th Ave, New York, NY, New York County, United States"}
	return domain.Forecast{
		PostalCode: "10001",
		Location:   loc,
		Place:      loc.Place(),
		Periods: domain.ForecastSet{
			{Name: "Tonight", Temperature: 61, ShortForecast: "Mostly Clear"},
			{Name: "Monday", Temperature: 78, ShortForecast: "Sunny"},
			{Name: "Monday Night", Temperature: 63, ShortForecast: "Partly Cloudy"},
			{Name: "Tuesday", Temperature: 74, ShortForecast: "Chance Rain Showers"},
		},
	}
}

func testPresenter(r stubRunner) *presenter.Presenter {
	return presenter.New(r, 3, discardLogger(), observability.NewMetricsForTesting())
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-zip", " 10001 ", "-all"}, 3)
	require.NoError(t, err)
	assert.Equal(t, options{zip: "10001", window: 0, all: true}, opts, "-all shows every period in one window")

	_, err = parseFlags([]string{}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-zip")

	_, err = parseFlags([]string{"-zip", "10001", "-window", "-1"}, 3)
	require.Error(t, err)
}

func TestPresent_FirstPage(t *testing.T) {
	var out bytes.Buffer
	err := present(context.Background(), testPresenter(stubRunner{forecast: testForecast()}),
		options{zip: "10001"}, strings.NewReader(""), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Forecast for: New York, New York County (1-3 of 4)")
	assert.Contains(t, out.String(), "Tonight")
	assert.NotContains(t, out.String(), "Tuesday")
}

func TestPresent_All(t *testing.T) {
	opts, err := parseFlags([]string{"-zip", "10001", "-all"}, 3)
	require.NoError(t, err)
	p := presenter.New(stubRunner{forecast: testForecast()}, opts.window, discardLogger(), observability.NewMetricsForTesting())

	var out bytes.Buffer
	require.NoError(t, present(context.Background(), p, opts, strings.NewReader(""), &out))

	assert.Equal(t, 1, strings.Count(out.String(), "Forecast for:"))
	assert.Contains(t, out.String(), "(1-4 of 4)")
	for _, name := range []string{"Tonight", "Monday", "Tuesday"} {
		assert.Contains(t, out.String(), name)
	}
	assert.Equal(t, 1, strings.Count(out.String(), "Chance Rain Showers"))
}

func TestPresent_NoPeriods(t *testing.T) {
	forecast := testForecast()
	forecast.Periods = domain.ForecastSet{}

	var out bytes.Buffer
	err := present(context.Background(), testPresenter(stubRunner{forecast: forecast}),
		options{zip: "10001"}, strings.NewReader(""), &out)
	require.NoError(t, err)

	assert.Equal(t, "Forecast for: New York, New York County (no periods)\n", out.String())
}

func TestPresent_Interactive(t *testing.T) {
	var out bytes.Buffer
	err := present(context.Background(), testPresenter(stubRunner{forecast: testForecast()}),
		options{zip: "10001", interactive: true}, strings.NewReader("n\nn\np\nq\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out.String(), "(2-4 of 4)"), "second next is a no-op at the end")
	assert.Equal(t, 2, strings.Count(out.String(), "(1-3 of 4)"))
}

func TestPresent_LookupError(t *testing.T) {
	var out bytes.Buffer
	err := present(context.Background(), testPresenter(stubRunner{err: &domain.LookupError{
		Stage:   domain.StageGeocode,
		Message: domain.MsgInvalidPostalCode,
		Err:     domain.ErrNoCandidates,
	}}), options{zip: "00000"}, strings.NewReader(""), &out)

	require.ErrorIs(t, err, errLookupFailed)
	assert.Equal(t, "Invalid ZIP code\n", out.String())
}

// TestRun wires the real adapters against fake upstreams. It is the only
// test that calls run, which registers metrics globally.
func TestRun(t *testing.T) {
	var nwsURL string
	nwsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/points/"):
			fmt.Fprintf(w, `{"properties":{"forecast":"%s/gridpoints/OKX/33,35/forecast"}}`, nwsURL)
		default:
			_, _ = w.Write([]byte(`{"properties":{"periods":[
				{"name":"Tonight","temperature":61,"shortForecast":"Mostly Clear"},
				{"name":"Monday","temperature":78,"shortForecast":"Sunny"}]}}`))
		}
	}))
	defer nwsSrv.Close()
	nwsURL = nwsSrv.URL

	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"40.75","lon":"-73.99","display_name":"350 5th Ave, New York, NY, New York County, United States"}]`))
	}))
	defer geoSrv.Close()

	t.Setenv("NOMINATIM_URL", geoSrv.URL)
	t.Setenv("NWS_URL", nwsSrv.URL)
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	err := run(context.Background(), []string{"-zip", "10001"}, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Forecast for: New York, New York County (1-2 of 2)")
	assert.Contains(t, out.String(), "moon")
}
