package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ForecastRequestsTotal counts forecast executions by engine and outcome.
	ForecastRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_requests_total",
			Help: "Total number of forecast requests by engine and status",
		},
		[]string{"engine", "status"},
	)

	// ForecastDuration tracks end-to-end pipeline latency per engine.
	ForecastDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecast_duration_seconds",
			Help:    "Duration of the forecast pipeline in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	// ModelLoaded reports whether the model artifacts loaded at startup
	// (1 = loaded, 0 = degraded).
	ModelLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forecast_model_loaded",
			Help: "Whether the trained model and its artifacts are loaded",
		},
	)

	// PrecomputedForecastsTotal counts forecasts produced by the scheduler.
	PrecomputedForecastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forecast_precomputed_total",
			Help: "Total number of scheduler-precomputed forecasts",
		},
	)

	// AppStartTime records when the application started.
	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forecast_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppStartTime.SetToCurrentTime()
}

// RecordForecast records one forecast execution.
func RecordForecast(engine, status string, duration time.Duration) {
	ForecastRequestsTotal.WithLabelValues(engine, status).Inc()
	ForecastDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

// SetModelLoaded publishes the artifact-load outcome.
func SetModelLoaded(loaded bool) {
	if loaded {
		ModelLoaded.Set(1)
		return
	}
	ModelLoaded.Set(0)
}

// Handler returns the prometheus scrape handler, served on a dedicated
// listener by cmd/parade-forecast.
func Handler() http.Handler {
	return promhttp.Handler()
}
