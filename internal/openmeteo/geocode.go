package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/bestskiday/bestskiday/internal/metrics"
	"github.com/bestskiday/bestskiday/internal/models"
)

const (
	geocodeBaseURL = "https://geocoding-api.open-meteo.com/v1/search"

	maxSearchResults = 10
)

type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Admin1    string  `json:"admin1"`
	Country   string  `json:"country"`
}

// GeocodeClient resolves free-text place queries to coordinates via the
// Open-Meteo geocoding API. Unlike the forecast fetch, searches retry
// transient failures with exponential backoff behind a circuit breaker.
type GeocodeClient struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewGeocodeClient() *GeocodeClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo-geocode",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &GeocodeClient{
		baseURL: geocodeBaseURL,
		client:  newHTTPClient(),
		circuit: cb,
	}
}

// Search returns up to ten locations matching the query. An empty query
// returns no results without a network call.
func (c *GeocodeClient) Search(ctx context.Context, query string) ([]models.Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	values := url.Values{}
	values.Set("name", query)
	values.Set("count", strconv.Itoa(maxSearchResults))
	values.Set("language", "en")
	values.Set("format", "json")
	searchURL := c.baseURL + "?" + values.Encode()

	var body []byte
	operation := func() error {
		_, err := c.circuit.Execute(func() (interface{}, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
			if err != nil {
				return nil, backoff.Permanent(fmt.Errorf("build search request: %w", err))
			}

			resp, err := c.client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("search locations: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				// Drain so the connection can be reused by the retry.
				io.Copy(io.Discard, resp.Body)
				return nil, fmt.Errorf("search locations: status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				return nil, backoff.Permanent(fmt.Errorf("search locations: status %d: %s", resp.StatusCode, string(b)))
			}

			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("read search body: %w", err)
			}
			return nil, nil
		})
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return backoff.Permanent(fmt.Errorf("search locations: %w", err))
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		metrics.GeocodeSearchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	var data geocodeResponse
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.GeocodeSearchesTotal.WithLabelValues("decode_error").Inc()
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	locations := make([]models.Location, 0, len(data.Results))
	for _, r := range data.Results {
		locations = append(locations, models.Location{
			ID:        strconv.FormatInt(r.ID, 10),
			Name:      displayName(r),
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}

	metrics.GeocodeSearchesTotal.WithLabelValues("ok").Inc()
	return locations, nil
}

func displayName(r geocodeResult) string {
	parts := []string{r.Name}
	if r.Admin1 != "" && r.Admin1 != r.Name {
		parts = append(parts, r.Admin1)
	}
	if r.Country != "" {
		parts = append(parts, r.Country)
	}
	return strings.Join(parts, ", ")
}
