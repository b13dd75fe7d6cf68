package store

import (
	"database/sql"
	"fmt"

	"github.com/bestskiday/bestskiday/internal/metrics"
	"github.com/bestskiday/bestskiday/internal/models"
)

// AddFavorite saves a location. Adding an id that already exists is a no-op,
// matching the duplicate suppression of the favorites list.
func (s *Store) AddFavorite(loc models.Location) error {
	_, err := s.db.Exec(`
		INSERT INTO favorites (id, name, latitude, longitude, position)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM favorites))
		ON CONFLICT(id) DO NOTHING
	`, loc.Key(), loc.Name, loc.Latitude, loc.Longitude)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	metrics.FavoriteOpsTotal.WithLabelValues("add").Inc()
	return nil
}

// RemoveFavorite deletes a saved location by id. Removing an unknown id is
// not an error; removed reports whether a row was deleted.
func (s *Store) RemoveFavorite(id string) (removed bool, err error) {
	res, err := s.db.Exec(`DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	metrics.FavoriteOpsTotal.WithLabelValues("remove").Inc()
	return n > 0, nil
}

// ListFavorites returns saved locations in insertion order.
func (s *Store) ListFavorites() ([]models.Location, error) {
	rows, err := s.db.Query(`SELECT id, name, latitude, longitude FROM favorites ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude); err != nil {
			return nil, err
		}
		favorites = append(favorites, loc)
	}
	return favorites, rows.Err()
}

// GetFavorite returns a saved location by id, or nil when not found.
func (s *Store) GetFavorite(id string) (*models.Location, error) {
	row := s.db.QueryRow(`SELECT id, name, latitude, longitude FROM favorites WHERE id = ?`, id)

	var loc models.Location
	err := row.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
