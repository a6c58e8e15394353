package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/cache"
	"github.com/neokrishi/farmer-assistant/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newUpstream stands in for OpenWeather. It counts calls per endpoint and
// serves a fixed current payload plus a 3-hourly forecast covering six
// calendar days with several observations per day.
func newUpstream(t *testing.T) (*httptest.Server, *atomic.Int32, *atomic.Int32) {
	t.Helper()

	var currentCalls, forecastCalls atomic.Int32

	// Forecast observations: for each of six days, three observations at
	// different temperatures. Only the first per day should survive.
	base := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)
	var list []map[string]any
	for day := 0; day < 6; day++ {
		for obs := 0; obs < 3; obs++ {
			ts := base.AddDate(0, 0, day).Add(time.Duration(obs) * 3 * time.Hour)
			list = append(list, map[string]any{
				"dt": ts.Unix(),
				"main": map[string]any{
					"temp": 20.4 + float64(day) + float64(obs)*10, // later same-day obs are wildly different
				},
				"weather": []map[string]any{
					{"description": fmt.Sprintf("day%d-obs%d", day, obs), "icon": "10d"},
				},
			})
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		switch r.URL.Path {
		case "/weather":
			currentCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]any{
				"name": "Delhi",
				"sys":  map[string]any{"country": "IN"},
				"main": map[string]any{"temp": 31.6, "humidity": 58},
				"weather": []map[string]any{
					{"description": "haze", "icon": "50d"},
				},
				"wind": map[string]any{"speed": 3.2},
			})
		case "/forecast":
			forecastCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]any{"list": list})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return srv, &currentCalls, &forecastCalls
}

func TestReportColdCache(t *testing.T) {
	srv, currentCalls, forecastCalls := newUpstream(t)
	g := New("test-key", srv.URL, cache.New[model.WeatherReport](5*time.Minute), testLogger())

	report, err := g.Report(context.Background(), "28.6", "77.2")
	require.NoError(t, err)

	// Exactly one call to each upstream endpoint.
	assert.EqualValues(t, 1, currentCalls.Load())
	assert.EqualValues(t, 1, forecastCalls.Load())

	assert.Equal(t, "Delhi", report.Location)
	assert.Equal(t, "IN", report.Country)
	assert.Equal(t, 32, report.Temperature, "31.6 rounds to 32")
	assert.Equal(t, "haze", report.Description)
	assert.Equal(t, 58, report.Humidity)
	assert.Equal(t, 3.2, report.WindSpeed)

	// Six upstream days collapse to five entries, first observation wins.
	require.Len(t, report.Forecast, 5)
	for i, day := range report.Forecast {
		assert.Equal(t, fmt.Sprintf("day%d-obs0", i), day.Description,
			"entry %d must come from the first observation of its date", i)
	}

	// Distinct dates.
	seen := map[string]bool{}
	for _, day := range report.Forecast {
		assert.False(t, seen[day.Date], "duplicate forecast date %s", day.Date)
		seen[day.Date] = true
	}
}

func TestReportCacheHitSkipsUpstream(t *testing.T) {
	srv, currentCalls, forecastCalls := newUpstream(t)
	g := New("test-key", srv.URL, cache.New[model.WeatherReport](5*time.Minute), testLogger())

	first, err := g.Report(context.Background(), "28.6", "77.2")
	require.NoError(t, err)

	second, err := g.Report(context.Background(), "28.6", "77.2")
	require.NoError(t, err)

	assert.EqualValues(t, 1, currentCalls.Load(), "cache hit must not call upstream")
	assert.EqualValues(t, 1, forecastCalls.Load())

	// Byte-identical responses within the window.
	b1, _ := json.Marshal(first)
	b2, _ := json.Marshal(second)
	assert.Equal(t, string(b1), string(b2))
}

func TestReportDistinctCoordinatesMissCache(t *testing.T) {
	srv, currentCalls, _ := newUpstream(t)
	g := New("test-key", srv.URL, cache.New[model.WeatherReport](5*time.Minute), testLogger())

	_, err := g.Report(context.Background(), "28.6", "77.2")
	require.NoError(t, err)
	_, err = g.Report(context.Background(), "19.0", "72.8")
	require.NoError(t, err)

	assert.EqualValues(t, 2, currentCalls.Load())
}

func TestReportMissingCoordinates(t *testing.T) {
	g := New("test-key", "http://unused", cache.New[model.WeatherReport](5*time.Minute), testLogger())

	for _, tc := range []struct{ lat, lon string }{
		{"", "77.2"},
		{"28.6", ""},
		{"", ""},
	} {
		_, err := g.Report(context.Background(), tc.lat, tc.lon)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	}
}

func TestReportUpstreamErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := New("test-key", srv.URL, cache.New[model.WeatherReport](5*time.Minute), testLogger())

	_, err := g.Report(context.Background(), "28.6", "77.2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUpstream), "weather has no fallback payload")
}

func TestReportPartialUpstreamFailureFailsWhole(t *testing.T) {
	// Current succeeds, forecast fails: the request must still error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/weather" {
			json.NewEncoder(w).Encode(map[string]any{"name": "Delhi"})
			return
		}
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := New("test-key", srv.URL, cache.New[model.WeatherReport](5*time.Minute), testLogger())

	_, err := g.Report(context.Background(), "28.6", "77.2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUpstream))
}
