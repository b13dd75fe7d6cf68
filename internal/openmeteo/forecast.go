package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/bestskiday/bestskiday/internal/metrics"
)

const (
	forecastBaseURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultForecastDays is the forecast window requested when the caller
	// doesn't specify one.
	DefaultForecastDays = 7

	dailyFields = "temperature_2m_max,temperature_2m_min,sunshine_duration,snowfall_sum,wind_speed_10m_max"
	hourlyField = "snow_depth"
)

// DailySeries holds the provider's parallel per-day arrays. Index i across all
// arrays refers to the same calendar day.
type DailySeries struct {
	Time             []string  `json:"time"` // YYYY-MM-DD
	TemperatureMax   []float64 `json:"temperature_2m_max"`
	TemperatureMin   []float64 `json:"temperature_2m_min"`
	SunshineDuration []float64 `json:"sunshine_duration"` // seconds
	SnowfallSum      []float64 `json:"snowfall_sum"`      // cm
	WindSpeedMax     []float64 `json:"wind_speed_10m_max"`
}

// HourlySeries holds hourly snow depth samples, normally 24 per covered day.
type HourlySeries struct {
	Time      []string  `json:"time"`
	SnowDepth []float64 `json:"snow_depth"` // meters
}

type forecastResponse struct {
	Daily  DailySeries  `json:"daily"`
	Hourly HourlySeries `json:"hourly"`
}

// ForecastClient fetches daily and hourly forecast series from Open-Meteo.
type ForecastClient struct {
	baseURL string
	client  *http.Client
}

func NewForecastClient() *ForecastClient {
	return &ForecastClient{
		baseURL: forecastBaseURL,
		client:  newHTTPClient(),
	}
}

// FetchForecast retrieves the daily and hourly series for a coordinate over a
// window of days. One network round-trip per call, no retries and no caching;
// any failure is returned immediately and the caller decides whether to retry.
// Coordinate range validation is the provider's job: out-of-range values come
// back as an HTTP 400 with a reason, they are not clamped here.
func (c *ForecastClient) FetchForecast(ctx context.Context, lat, lon float64, days int) (DailySeries, HourlySeries, error) {
	if days <= 0 {
		days = DefaultForecastDays
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("daily", dailyFields)
	values.Set("hourly", hourlyField)
	values.Set("timezone", "auto")
	values.Set("models", "best_match")
	values.Set("forecast_days", strconv.Itoa(days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		metrics.ForecastFetchesTotal.WithLabelValues("request_error").Inc()
		return DailySeries{}, HourlySeries{}, fmt.Errorf("build forecast request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ForecastFetchLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ForecastFetchesTotal.WithLabelValues("transport_error").Inc()
		return DailySeries{}, HourlySeries{}, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ForecastFetchesTotal.WithLabelValues("transport_error").Inc()
		return DailySeries{}, HourlySeries{}, fmt.Errorf("read forecast body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.ForecastFetchesTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
		if reason := gjson.GetBytes(body, "reason"); reason.Exists() {
			return DailySeries{}, HourlySeries{}, fmt.Errorf("fetch forecast: status %d: %s", resp.StatusCode, reason.String())
		}
		return DailySeries{}, HourlySeries{}, fmt.Errorf("fetch forecast: status %d: %s", resp.StatusCode, string(body))
	}

	var data forecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.ForecastFetchesTotal.WithLabelValues("decode_error").Inc()
		return DailySeries{}, HourlySeries{}, fmt.Errorf("decode forecast: %w", err)
	}
	if len(data.Daily.Time) == 0 {
		metrics.ForecastFetchesTotal.WithLabelValues("decode_error").Inc()
		return DailySeries{}, HourlySeries{}, fmt.Errorf("decode forecast: empty daily series")
	}

	metrics.ForecastFetchesTotal.WithLabelValues("ok").Inc()
	return data.Daily, data.Hourly, nil
}
