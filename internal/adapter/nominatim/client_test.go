package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/zip-forecast/internal/domain"
	"github.com/couchcryptid/zip-forecast/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserAgent     = "zip-forecast-test/1.0"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string, metrics *observability.Metrics) *Client {
	return NewClient(baseURL, "USA", testUserAgent, 5*time.Second, metrics,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Search_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10001,USA", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode([]result{
			{Lat: "40.75", Lon: "-73.99", DisplayName: "350 5th Ave, New York, NY, New York County, United States"},
			{Lat: "40.71", Lon: "-74.00", DisplayName: "Somewhere Else"},
		}))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	locations, err := testClient(srv.URL, metrics).Search(context.Background(), "10001")
	require.NoError(t, err)

	require.Len(t, locations, 2)
	assert.Equal(t, domain.Location{
		Lat:         40.75,
		Lon:         -73.99,
		DisplayName: "350 5th Ave, New York, NY, New York County, United States",
	}, locations[0])
	assert.Equal(t, "Somewhere Else", locations[1].DisplayName)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues(endpoint, "success")), 0)
}

func TestClient_Search_NoCountry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SW1A 1AA", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, observability.NewMetricsForTesting())
	c.country = ""

	_, err := c.Search(context.Background(), "SW1A 1AA")
	require.NoError(t, err)
}

func TestClient_Search_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	locations, err := testClient(srv.URL, metrics).Search(context.Background(), "00000")
	require.NoError(t, err)
	assert.Empty(t, locations)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues(endpoint, "empty")), 0)
}

func TestClient_Search_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"blocked"}`))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	_, err := testClient(srv.URL, metrics).Search(context.Background(), "10001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues(endpoint, "error")), 0)
}

func TestClient_Search_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, observability.NewMetricsForTesting()).Search(context.Background(), "10001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Search_BadCoordinate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"-73.99","display_name":"x"}]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, observability.NewMetricsForTesting()).Search(context.Background(), "10001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse lat")
}

func TestClient_Search_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "USA", testUserAgent, 50*time.Millisecond,
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := c.Search(context.Background(), "10001")
	require.Error(t, err)
}

func TestClient_Search_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL, observability.NewMetricsForTesting()).Search(ctx, "10001")
	require.Error(t, err)
}
