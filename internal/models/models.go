package models

import (
	"fmt"
	"time"
)

// Location is a named coordinate, either from geocoding search or a saved
// favorite. ID is a stable key used for favorite deduplication.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key returns a stable identifier, falling back to the coordinate when the
// location has no assigned ID.
func (l Location) Key() string {
	if l.ID != "" {
		return l.ID
	}
	return fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
}

// DayForecast is one derived forecast day. Built once per fetch cycle from the
// provider's daily series entry plus its matching hourly snow depth slice, then
// never mutated; the next fetch replaces the whole set.
type DayForecast struct {
	Date            time.Time `json:"date"`
	TemperatureMin  float64   `json:"temperature_min"`  // °C
	TemperatureMax  float64   `json:"temperature_max"`  // °C
	SnowfallTotal   float64   `json:"snowfall_total"`   // cm fresh snow
	SnowHeight      float64   `json:"snow_height"`      // cm, mean of hourly snow depth
	SunshinePercent float64   `json:"sunshine_percent"` // 0-100 of a 24h day
	WindSpeedMax    float64   `json:"wind_speed_max"`   // km/h
	Score           float64   `json:"score"`            // 0-100 ski day score
}

// ForecastSet is one fetch cycle's worth of scored days for a single location,
// ordered chronologically (source series order), not by score.
type ForecastSet struct {
	Location  Location      `json:"location"`
	FetchedAt time.Time     `json:"fetched_at"`
	Days      []DayForecast `json:"days"`
}
