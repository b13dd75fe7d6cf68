package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/bestskiday/bestskiday/internal/models"
	"github.com/bestskiday/bestskiday/internal/openmeteo"
	"github.com/bestskiday/bestskiday/internal/store"
)

// ForecastFetcher fetches raw daily and hourly series for a coordinate.
// Satisfied by *openmeteo.ForecastClient.
type ForecastFetcher interface {
	FetchForecast(ctx context.Context, lat, lon float64, days int) (openmeteo.DailySeries, openmeteo.HourlySeries, error)
}

// LocationSearcher resolves free-text queries to locations. Satisfied by
// *openmeteo.GeocodeClient.
type LocationSearcher interface {
	Search(ctx context.Context, query string) ([]models.Location, error)
}

type Server struct {
	store    *store.Store
	fetcher  ForecastFetcher
	searcher LocationSearcher
	addr     string
	limiter  *rate.Limiter
	now      func() time.Time
}

// NewServer wires the HTTP API. rps bounds inbound request rate across all
// endpoints; zero disables limiting.
func NewServer(st *store.Store, fetcher ForecastFetcher, searcher LocationSearcher, addr string, rps float64) *Server {
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
	return &Server{
		store:    st,
		fetcher:  fetcher,
		searcher: searcher,
		addr:     addr,
		limiter:  limiter,
		now:      time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/forecast", s.handleForecast)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/favorites", s.handleListFavorites)
	mux.HandleFunc("POST /api/favorites", s.handleAddFavorite)
	mux.HandleFunc("DELETE /api/favorites/{id}", s.handleRemoveFavorite)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.rateLimit(mux)
}

// rateLimit rejects requests above the configured rate with 429 rather than
// queueing them.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
