package skiday

import (
	"math"

	"github.com/bestskiday/bestskiday/internal/models"
)

// Component weights for the composite score. Fixed design constants.
const (
	temperatureWeight = 0.3
	snowWeight        = 0.4
	sunshineWeight    = 0.3

	// Average temperature at which the temperature component peaks.
	optimalAvgTemp = -2.0
)

// Score maps one day's derived metrics to a ski day score in [0,100].
// Pure and deterministic: no I/O, no hidden state.
//
// The temperature component peaks at an average of -2°C and falls off five
// points per degree of deviation in either direction. Fresh snowfall is
// weighted 10x against standing snow height at 0.5x, capped at 100. Sunshine
// is already a 0-100 percentage and is used as-is.
func Score(d models.DayForecast) float64 {
	avgTemp := (d.TemperatureMin + d.TemperatureMax) / 2

	temperatureScore := clamp(0, 100, (20-math.Abs(avgTemp-optimalAvgTemp))*5)
	snowScore := math.Min(100, d.SnowfallTotal*10+d.SnowHeight*0.5)
	sunshineScore := d.SunshinePercent

	return temperatureScore*temperatureWeight + snowScore*snowWeight + sunshineScore*sunshineWeight
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
