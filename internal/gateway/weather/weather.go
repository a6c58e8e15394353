// Package weather fetches current conditions and a five-day forecast from
// OpenWeather.
//
// Unlike the other gateways, weather has no fallback payload: if either
// upstream call fails the whole request fails. Results are cached per
// coordinate pair for a short window.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/cache"
	"github.com/neokrishi/farmer-assistant/internal/model"
)

const maxForecastDays = 5

// Gateway serves normalized weather reports.
type Gateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *cache.Store[model.WeatherReport]
	logger  *slog.Logger
}

// New creates a Gateway. baseURL is the OpenWeather API root (overridden in
// tests); store is the injected freshness cache.
func New(apiKey, baseURL string, store *cache.Store[model.WeatherReport], logger *slog.Logger) *Gateway {
	return &Gateway{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  http.DefaultClient,
		cache:   store,
		logger:  logger,
	}
}

// currentResponse mirrors the fields we use from /weather.
type currentResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// forecastResponse mirrors the fields we use from /forecast (3-hourly list).
type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

// Report returns the weather for the given coordinates. lat and lon are the
// raw query strings; both are required. A fresh cache entry short-circuits
// the upstream calls entirely.
func (g *Gateway) Report(ctx context.Context, lat, lon string) (*model.WeatherReport, error) {
	if lat == "" || lon == "" {
		return nil, apperror.ValidationFailed("lat", "latitude and longitude are required")
	}

	cacheKey := lat + "," + lon
	if cached, ok := g.cache.Get(cacheKey); ok {
		return &cached, nil
	}

	// Current conditions and forecast are independent; fetch both at once.
	// Either failure fails the request, no partial degrade.
	var cur currentResponse
	var fc forecastResponse

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return g.get(ctx, "/weather", lat, lon, &cur)
	})
	eg.Go(func() error {
		return g.get(ctx, "/forecast", lat, lon, &fc)
	})
	if err := eg.Wait(); err != nil {
		g.logger.Error("weather upstream failed",
			slog.String("lat", lat), slog.String("lon", lon),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upstream("openweather", err)
	}

	report := normalize(cur, fc)
	g.cache.Put(cacheKey, report)

	return &report, nil
}

func (g *Gateway) get(ctx context.Context, path, lat, lon string, out any) error {
	q := url.Values{}
	q.Set("lat", lat)
	q.Set("lon", lon)
	q.Set("appid", g.apiKey)
	q.Set("units", "metric")

	return getJSON(ctx, g.client, g.baseURL+path+"?"+q.Encode(), out)
}

// normalize flattens the two upstream payloads into the response shape. The
// 3-hourly forecast is reduced to at most five entries, one per distinct
// calendar date. The first observation for a new date wins and later
// same-date observations are discarded.
func normalize(cur currentResponse, fc forecastResponse) model.WeatherReport {
	report := model.WeatherReport{
		Location:    cur.Name,
		Country:     cur.Sys.Country,
		Temperature: roundTemp(cur.Main.Temp),
		Humidity:    cur.Main.Humidity,
		WindSpeed:   cur.Wind.Speed,
		Forecast:    []model.ForecastDay{},
	}
	if len(cur.Weather) > 0 {
		report.Description = cur.Weather[0].Description
		report.Icon = cur.Weather[0].Icon
	}

	seen := make(map[string]bool)
	for _, item := range fc.List {
		if len(report.Forecast) >= maxForecastDays {
			break
		}
		t := time.Unix(item.Dt, 0).UTC()
		day := t.Format("2006-01-02")
		if seen[day] {
			continue
		}
		seen[day] = true

		entry := model.ForecastDay{
			Date:        t.Format("Mon, Jan 2"),
			Temperature: roundTemp(item.Main.Temp),
		}
		if len(item.Weather) > 0 {
			entry.Description = item.Weather[0].Description
			entry.Icon = item.Weather[0].Icon
		}
		report.Forecast = append(report.Forecast, entry)
	}

	return report
}

func roundTemp(t float64) int {
	return int(math.Round(t))
}

// getJSON issues a GET and decodes the JSON body into out. Non-2xx counts
// as an error.
func getJSON(ctx context.Context, client *http.Client, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d from %s", resp.StatusCode, req.URL.Host)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
