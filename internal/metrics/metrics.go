package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ForecastFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bestskiday_forecast_fetches_total",
			Help: "Total Open-Meteo forecast fetches",
		},
		[]string{"status"},
	)

	ForecastFetchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bestskiday_forecast_fetch_latency_seconds",
			Help:    "Open-Meteo forecast fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	GeocodeSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bestskiday_geocode_searches_total",
			Help: "Total Open-Meteo geocoding searches",
		},
		[]string{"status"},
	)

	DaysScoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bestskiday_days_scored_total",
			Help: "Total forecast days aggregated and scored",
		},
	)

	FavoriteOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bestskiday_favorite_ops_total",
			Help: "Total favorite store operations",
		},
		[]string{"op"},
	)
)
