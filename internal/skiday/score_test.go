package skiday

import (
	"math"
	"testing"

	"github.com/bestskiday/bestskiday/internal/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		day  models.DayForecast
		want float64
	}{
		{
			name: "optimal temperature with heavy snow and some sun",
			day: models.DayForecast{
				TemperatureMin:  -4,
				TemperatureMax:  0,
				SnowfallTotal:   10,
				SnowHeight:      50,
				SunshinePercent: 80,
			},
			// temp: avg -2 is optimal = 100, snow: 10*10+50*0.5 = 125 capped
			// at 100, sun: 80. 30 + 40 + 24.
			want: 94,
		},
		{
			name: "warm day with little snow",
			day: models.DayForecast{
				TemperatureMin:  10,
				TemperatureMax:  15,
				SnowfallTotal:   0,
				SnowHeight:      10,
				SunshinePercent: 20,
			},
			// temp: avg 12.5 -> (20-14.5)*5 = 27.5, snow: 5, sun: 20.
			// 8.25 + 2 + 6.
			want: 16.25,
		},
		{
			name: "perfect conditions",
			day: models.DayForecast{
				TemperatureMin:  -4,
				TemperatureMax:  0,
				SnowfallTotal:   20,
				SnowHeight:      100,
				SunshinePercent: 100,
			},
			want: 100,
		},
		{
			name: "temperature far below optimal floors at zero",
			day: models.DayForecast{
				TemperatureMin:  -40,
				TemperatureMax:  -30,
				SnowfallTotal:   0,
				SnowHeight:      0,
				SunshinePercent: 0,
			},
			want: 0,
		},
		{
			name: "standing snow alone contributes at half weight",
			day: models.DayForecast{
				TemperatureMin:  -4,
				TemperatureMax:  0,
				SnowfallTotal:   0,
				SnowHeight:      40,
				SunshinePercent: 0,
			},
			// temp 100*0.3 + snow 20*0.4.
			want: 38,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.day)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	days := []models.DayForecast{
		{TemperatureMin: -60, TemperatureMax: -50, SnowfallTotal: 0, SnowHeight: 0, SunshinePercent: 0},
		{TemperatureMin: 40, TemperatureMax: 50, SnowfallTotal: 0, SnowHeight: 0, SunshinePercent: 0},
		{TemperatureMin: -4, TemperatureMax: 0, SnowfallTotal: 500, SnowHeight: 1000, SunshinePercent: 100},
		{TemperatureMin: -2, TemperatureMax: -2, SnowfallTotal: 3, SnowHeight: 20, SunshinePercent: 55},
	}
	for _, day := range days {
		got := Score(day)
		if got < 0 || got > 100 {
			t.Errorf("Score(%+v) = %v, want within [0,100]", day, got)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	day := models.DayForecast{
		TemperatureMin:  -3,
		TemperatureMax:  1,
		SnowfallTotal:   7,
		SnowHeight:      35,
		SunshinePercent: 62,
	}
	first := Score(day)
	second := Score(day)
	if first != second {
		t.Errorf("Score not deterministic: %v != %v", first, second)
	}
}
