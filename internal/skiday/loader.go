package skiday

import (
	"context"
	"sync"
	"time"

	"github.com/bestskiday/bestskiday/internal/models"
	"github.com/bestskiday/bestskiday/internal/openmeteo"
)

// Status describes the lifecycle of the most recent load.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "idle"
	}
}

// Snapshot is the published state of a Loader at a point in time.
type Snapshot struct {
	Status    Status
	Location  models.Location
	Set       *models.ForecastSet
	Err       error
	UpdatedAt time.Time
}

// FetchFunc fetches raw series for a coordinate. Satisfied by
// (*openmeteo.ForecastClient).FetchForecast.
type FetchFunc func(ctx context.Context, lat, lon float64, days int) (openmeteo.DailySeries, openmeteo.HourlySeries, error)

// Loader owns the current-forecast state for a single consumer. Each Load
// bumps a generation counter; a completed fetch publishes its result only if
// its generation is still current, so a load started for a newer location
// can never be overwritten by a stale one finishing late. Concurrent loads
// are not deduplicated: both run, last started wins.
type Loader struct {
	fetch FetchFunc
	days  int
	now   func() time.Time

	mu   sync.Mutex
	gen  uint64
	snap Snapshot
}

func NewLoader(fetch FetchFunc, days int) *Loader {
	if days <= 0 {
		days = openmeteo.DefaultForecastDays
	}
	return &Loader{
		fetch: fetch,
		days:  days,
		now:   time.Now,
	}
}

// Load fetches, aggregates and scores a forecast for the location, publishing
// the outcome unless a newer Load started in the meantime. The result is
// returned to the caller either way.
func (l *Loader) Load(ctx context.Context, loc models.Location) (models.ForecastSet, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.snap = Snapshot{Status: StatusPending, Location: loc, UpdatedAt: l.now()}
	l.mu.Unlock()

	daily, hourly, err := l.fetch(ctx, loc.Latitude, loc.Longitude, l.days)
	if err != nil {
		l.publish(gen, Snapshot{Status: StatusFailure, Location: loc, Err: err, UpdatedAt: l.now()})
		return models.ForecastSet{}, err
	}

	set := Aggregate(loc, daily, hourly, l.now())
	l.publish(gen, Snapshot{Status: StatusSuccess, Location: loc, Set: &set, UpdatedAt: l.now()})
	return set, nil
}

// publish applies a completed load's state unless a newer load has started.
func (l *Loader) publish(gen uint64, snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return
	}
	l.snap = snap
}

// Snapshot returns the currently published state.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}
