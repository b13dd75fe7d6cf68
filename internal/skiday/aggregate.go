package skiday

import (
	"time"

	"github.com/bestskiday/bestskiday/internal/metrics"
	"github.com/bestskiday/bestskiday/internal/models"
	"github.com/bestskiday/bestskiday/internal/openmeteo"
)

const (
	dateLayout   = "2006-01-02"
	hoursPerDay  = 24
	secondsInDay = 86400.0
)

// Aggregate merges the provider's daily and hourly series into one scored
// ForecastSet for a location. Output order matches daily series order
// (chronological ascending).
//
// The merge deliberately favors producing a result over strict consistency:
// a day whose hourly slice is missing or short gets the mean of whatever
// samples exist (zero when none), and a day whose date string won't parse is
// kept with the current timestamp rather than dropped. now is the clock value
// used for that fallback.
func Aggregate(loc models.Location, daily openmeteo.DailySeries, hourly openmeteo.HourlySeries, now time.Time) models.ForecastSet {
	set := models.ForecastSet{
		Location:  loc,
		FetchedAt: now,
		Days:      make([]models.DayForecast, 0, len(daily.Time)),
	}

	for i, dateStr := range daily.Time {
		day := models.DayForecast{
			TemperatureMin: floatAt(daily.TemperatureMin, i),
			TemperatureMax: floatAt(daily.TemperatureMax, i),
			SnowfallTotal:  floatAt(daily.SnowfallSum, i),
			WindSpeedMax:   floatAt(daily.WindSpeedMax, i),
		}

		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			date = now
		}
		day.Date = date

		// Position of this day's date in the daily time sequence, first
		// match. A miss falls back to index 0 so the day still carries a
		// depth estimate rather than being dropped.
		pos := dateIndex(daily.Time, dateStr)
		day.SnowHeight = meanSnowDepthCM(hourly.SnowDepth, pos)

		sunshineSeconds := floatAt(daily.SunshineDuration, i)
		pct := sunshineSeconds / secondsInDay * 100
		if pct > 100 {
			pct = 100
		}
		day.SunshinePercent = pct

		day.Score = Score(day)
		set.Days = append(set.Days, day)
	}

	metrics.DaysScoredTotal.Add(float64(len(set.Days)))
	return set
}

// dateIndex returns the first index of date in times, or 0 when absent.
func dateIndex(times []string, date string) int {
	for i, t := range times {
		if t == date {
			return i
		}
	}
	return 0
}

// meanSnowDepthCM averages day pos's hourly snow depth samples and converts
// meters to centimeters. A short final slice uses the available samples; an
// empty slice yields 0 rather than dividing by zero.
func meanSnowDepthCM(depths []float64, pos int) float64 {
	start := pos * hoursPerDay
	end := start + hoursPerDay
	if end > len(depths) {
		end = len(depths)
	}
	if start >= end {
		return 0
	}

	sum := 0.0
	for _, d := range depths[start:end] {
		sum += d
	}
	return sum / float64(end-start) * 100
}

func floatAt(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}
