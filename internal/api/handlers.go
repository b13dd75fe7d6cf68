package api

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/bestskiday/bestskiday/internal/models"
	"github.com/bestskiday/bestskiday/internal/openmeteo"
	"github.com/bestskiday/bestskiday/internal/skiday"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleForecast fetches, aggregates and scores a forecast for the requested
// coordinate. Days are returned in chronological order; clients sort by score
// if they want a ranking. No caching: every request is one provider call.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lat must be a decimal degree value")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lon must be a decimal degree value")
		return
	}

	days := openmeteo.DefaultForecastDays
	if v := q.Get("days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil || days < 1 || days > 16 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 16")
			return
		}
	}

	run, runErr := s.store.StartFetchRun(lat, lon, days)
	if runErr != nil {
		log.Printf("api: start fetch run: %v", runErr)
	}

	daily, hourly, err := s.fetcher.FetchForecast(r.Context(), lat, lon, days)
	if err != nil {
		if run != nil {
			run.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
			if err := s.store.CompleteFetchRun(run); err != nil {
				log.Printf("api: complete fetch run: %v", err)
			}
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	loc := models.Location{
		Name:      q.Get("name"),
		Latitude:  lat,
		Longitude: lon,
	}
	set := skiday.Aggregate(loc, daily, hourly, s.now())

	if run != nil {
		run.Success = true
		run.DaysScored = sql.NullInt64{Int64: int64(len(set.Days)), Valid: true}
		if err := s.store.CompleteFetchRun(run); err != nil {
			log.Printf("api: complete fetch run: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := s.searcher.Search(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if results == nil {
		results = []models.Location{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.store.ListFavorites()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if favorites == nil {
		favorites = []models.Location{}
	}
	writeJSON(w, http.StatusOK, favorites)
}

// favoritePayload is the POST body for saving a favorite. Unlike the forecast
// path, where the provider enforces coordinate ranges, a favorite is a local
// write so ranges are checked here.
type favoritePayload struct {
	ID        string  `json:"id"`
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var payload favoritePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	loc := models.Location{
		ID:        payload.ID,
		Name:      payload.Name,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	}
	loc.ID = loc.Key()

	if err := s.store.AddFavorite(loc); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, loc)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	removed, err := s.store.RemoveFavorite(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "favorite not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type healthStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := healthStatus{Status: "ok"}
	if err := s.store.Ping(); err != nil {
		health.Status = "error"
		health.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, health)
		return
	}
	writeJSON(w, http.StatusOK, health)
}
