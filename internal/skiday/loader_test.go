package skiday

import (
	"context"
	"errors"
	"testing"

	"github.com/bestskiday/bestskiday/internal/models"
	"github.com/bestskiday/bestskiday/internal/openmeteo"
)

func fixedFetch(daily openmeteo.DailySeries, hourly openmeteo.HourlySeries, err error) FetchFunc {
	return func(ctx context.Context, lat, lon float64, days int) (openmeteo.DailySeries, openmeteo.HourlySeries, error) {
		return daily, hourly, err
	}
}

func TestLoader_SuccessPublishes(t *testing.T) {
	loader := NewLoader(fixedFetch(makeDaily(7), makeHourly(7*24, 0.5), nil), 7)
	loc := testLocation()

	set, err := loader.Load(context.Background(), loc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(set.Days) != 7 {
		t.Fatalf("len(Days) = %d, want 7", len(set.Days))
	}

	snap := loader.Snapshot()
	if snap.Status != StatusSuccess {
		t.Errorf("Status = %v, want success", snap.Status)
	}
	if snap.Set == nil || len(snap.Set.Days) != 7 {
		t.Error("published snapshot missing forecast set")
	}
	if snap.Location.Name != loc.Name {
		t.Errorf("snapshot Location = %q, want %q", snap.Location.Name, loc.Name)
	}
}

func TestLoader_FailurePublishes(t *testing.T) {
	fetchErr := errors.New("fetch forecast: status 400: latitude out of range")
	loader := NewLoader(fixedFetch(openmeteo.DailySeries{}, openmeteo.HourlySeries{}, fetchErr), 7)

	_, err := loader.Load(context.Background(), testLocation())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("Load err = %v, want %v", err, fetchErr)
	}

	snap := loader.Snapshot()
	if snap.Status != StatusFailure {
		t.Errorf("Status = %v, want failure", snap.Status)
	}
	if !errors.Is(snap.Err, fetchErr) {
		t.Errorf("snapshot Err = %v, want %v", snap.Err, fetchErr)
	}
	if snap.Set != nil {
		t.Error("failed load should not publish a forecast set")
	}
}

// TestLoader_StaleResultDiscarded starts a slow load, lets a newer load for a
// different location finish first, then completes the stale one and checks it
// did not overwrite the newer state.
func TestLoader_StaleResultDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	slowZermatt := func(ctx context.Context, lat, lon float64, days int) (openmeteo.DailySeries, openmeteo.HourlySeries, error) {
		if lat == 46.02 { // Zermatt: block until released
			close(started)
			<-release
		}
		return makeDaily(days), makeHourly(days*24, 0.5), nil
	}

	loader := NewLoader(slowZermatt, 7)
	zermatt := models.Location{Name: "Zermatt", Latitude: 46.02, Longitude: 7.74}
	davos := models.Location{Name: "Davos", Latitude: 46.8, Longitude: 9.83}

	done := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background(), zermatt)
		done <- err
	}()

	// The first load publishes pending before it calls fetch, so once the
	// fetch has started the second load is guaranteed to be newer.
	<-started

	if _, err := loader.Load(context.Background(), davos); err != nil {
		t.Fatalf("second Load: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Load: %v", err)
	}

	snap := loader.Snapshot()
	if snap.Status != StatusSuccess {
		t.Fatalf("Status = %v, want success", snap.Status)
	}
	if snap.Location.Name != "Davos" {
		t.Errorf("published Location = %q, want the newer load (Davos)", snap.Location.Name)
	}
}

func TestLoader_DefaultsWindow(t *testing.T) {
	var gotDays int
	fetch := func(ctx context.Context, lat, lon float64, days int) (openmeteo.DailySeries, openmeteo.HourlySeries, error) {
		gotDays = days
		return makeDaily(days), makeHourly(days*24, 0.3), nil
	}

	loader := NewLoader(fetch, 0)
	if _, err := loader.Load(context.Background(), testLocation()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if gotDays != openmeteo.DefaultForecastDays {
		t.Errorf("days = %d, want default %d", gotDays, openmeteo.DefaultForecastDays)
	}
}
