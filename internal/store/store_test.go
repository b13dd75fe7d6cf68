package store

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/bestskiday/bestskiday/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := New(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestAddAndListFavorites(t *testing.T) {
	store := setupTestStore(t)

	zermatt := models.Location{ID: "2657896", Name: "Zermatt", Latitude: 46.02, Longitude: 7.75}
	davos := models.Location{ID: "2661169", Name: "Davos", Latitude: 46.8, Longitude: 9.84}

	if err := store.AddFavorite(zermatt); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if err := store.AddFavorite(davos); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	favorites, err := store.ListFavorites()
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(favorites) != 2 {
		t.Fatalf("len(favorites) = %d, want 2", len(favorites))
	}
	// Insertion order preserved.
	if favorites[0].Name != "Zermatt" || favorites[1].Name != "Davos" {
		t.Errorf("favorites order = [%s, %s], want [Zermatt, Davos]", favorites[0].Name, favorites[1].Name)
	}
	if favorites[0].Latitude != 46.02 {
		t.Errorf("Latitude = %v, want 46.02", favorites[0].Latitude)
	}
}

func TestAddFavorite_DuplicateIgnored(t *testing.T) {
	store := setupTestStore(t)

	loc := models.Location{ID: "2657896", Name: "Zermatt", Latitude: 46.02, Longitude: 7.75}
	if err := store.AddFavorite(loc); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	// Same id again, even with different details, is a no-op.
	dup := loc
	dup.Name = "Zermatt Again"
	if err := store.AddFavorite(dup); err != nil {
		t.Fatalf("AddFavorite duplicate: %v", err)
	}

	favorites, err := store.ListFavorites()
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(favorites) != 1 {
		t.Fatalf("len(favorites) = %d, want 1", len(favorites))
	}
	if favorites[0].Name != "Zermatt" {
		t.Errorf("Name = %q, want the original entry kept", favorites[0].Name)
	}
}

func TestRemoveFavorite(t *testing.T) {
	store := setupTestStore(t)

	loc := models.Location{ID: "2657896", Name: "Zermatt", Latitude: 46.02, Longitude: 7.75}
	if err := store.AddFavorite(loc); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	removed, err := store.RemoveFavorite("2657896")
	if err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	if !removed {
		t.Error("removed = false, want true")
	}

	favorites, err := store.ListFavorites()
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("len(favorites) = %d, want 0", len(favorites))
	}

	removed, err = store.RemoveFavorite("missing")
	if err != nil {
		t.Fatalf("RemoveFavorite missing: %v", err)
	}
	if removed {
		t.Error("removed = true for unknown id, want false")
	}
}

func TestGetFavorite(t *testing.T) {
	store := setupTestStore(t)

	loc := models.Location{ID: "2657896", Name: "Zermatt", Latitude: 46.02, Longitude: 7.75}
	if err := store.AddFavorite(loc); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	got, err := store.GetFavorite("2657896")
	if err != nil {
		t.Fatalf("GetFavorite: %v", err)
	}
	if got == nil {
		t.Fatal("GetFavorite returned nil")
	}
	if got.Name != "Zermatt" {
		t.Errorf("Name = %q, want Zermatt", got.Name)
	}

	missing, err := store.GetFavorite("missing")
	if err != nil {
		t.Fatalf("GetFavorite missing: %v", err)
	}
	if missing != nil {
		t.Errorf("GetFavorite(missing) = %+v, want nil", missing)
	}
}

func TestFetchRunLifecycle(t *testing.T) {
	store := setupTestStore(t)

	run, err := store.StartFetchRun(46.02, 7.75, 7)
	if err != nil {
		t.Fatalf("StartFetchRun: %v", err)
	}
	if run.ID == 0 {
		t.Error("run.ID = 0, want assigned id")
	}

	run.Success = true
	run.DaysScored = sql.NullInt64{Int64: 7, Valid: true}
	if err := store.CompleteFetchRun(run); err != nil {
		t.Fatalf("CompleteFetchRun: %v", err)
	}

	runs, err := store.RecentFetchRuns(10)
	if err != nil {
		t.Fatalf("RecentFetchRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	got := runs[0]
	if !got.Success {
		t.Error("Success = false, want true")
	}
	if !got.FinishedAt.Valid {
		t.Error("FinishedAt not set")
	}
	if got.DaysScored.Int64 != 7 {
		t.Errorf("DaysScored = %d, want 7", got.DaysScored.Int64)
	}
	if got.Latitude != 46.02 || got.Longitude != 7.75 {
		t.Errorf("coordinate = (%v, %v), want (46.02, 7.75)", got.Latitude, got.Longitude)
	}
}

func TestFetchRunFailureRecorded(t *testing.T) {
	store := setupTestStore(t)

	run, err := store.StartFetchRun(1000, 1000, 7)
	if err != nil {
		t.Fatalf("StartFetchRun: %v", err)
	}

	run.Success = false
	run.ErrorMessage = sql.NullString{String: "fetch forecast: status 400", Valid: true}
	if err := store.CompleteFetchRun(run); err != nil {
		t.Fatalf("CompleteFetchRun: %v", err)
	}

	runs, err := store.RecentFetchRuns(1)
	if err != nil {
		t.Fatalf("RecentFetchRuns: %v", err)
	}
	if runs[0].Success {
		t.Error("Success = true, want false")
	}
	if runs[0].ErrorMessage.String != "fetch forecast: status 400" {
		t.Errorf("ErrorMessage = %q", runs[0].ErrorMessage.String)
	}
}
