package store

import (
	"database/sql"
	"time"
)

// FetchRun records one forecast fetch for auditing.
type FetchRun struct {
	ID           int64
	StartedAt    time.Time
	FinishedAt   sql.NullTime
	Latitude     float64
	Longitude    float64
	ForecastDays int
	DaysScored   sql.NullInt64
	Success      bool
	ErrorMessage sql.NullString
}

// StartFetchRun creates a new fetch run record and returns it.
func (s *Store) StartFetchRun(lat, lon float64, days int) (*FetchRun, error) {
	run := &FetchRun{
		StartedAt:    time.Now().UTC(),
		Latitude:     lat,
		Longitude:    lon,
		ForecastDays: days,
	}

	result, err := s.db.Exec(`
		INSERT INTO fetch_runs (started_at, latitude, longitude, forecast_days, success)
		VALUES (?, ?, ?, ?, FALSE)
	`, run.StartedAt, run.Latitude, run.Longitude, run.ForecastDays)
	if err != nil {
		return nil, err
	}

	run.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return run, nil
}

// CompleteFetchRun updates the fetch run with its outcome.
func (s *Store) CompleteFetchRun(run *FetchRun) error {
	if run == nil {
		return nil
	}

	run.FinishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}

	_, err := s.db.Exec(`
		UPDATE fetch_runs SET
			finished_at = ?,
			days_scored = ?,
			success = ?,
			error_message = ?
		WHERE id = ?
	`, run.FinishedAt, run.DaysScored, run.Success, run.ErrorMessage, run.ID)
	return err
}

// RecentFetchRuns returns the most recent fetch runs, newest first.
func (s *Store) RecentFetchRuns(limit int) ([]FetchRun, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, latitude, longitude, forecast_days, days_scored, success, error_message
		FROM fetch_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []FetchRun
	for rows.Next() {
		var r FetchRun
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Latitude, &r.Longitude, &r.ForecastDays, &r.DaysScored, &r.Success, &r.ErrorMessage); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
