package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal  *prometheus.CounterVec
	fetchedPoints *prometheus.GaugeVec
	trainingRuns  *prometheus.CounterVec
	lastLoss      prometheus.Gauge
	forecastSteps *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricecast_fetches_total",
				Help: "Total number of market data fetches",
			},
			[]string{"symbol"},
		),
		fetchedPoints: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pricecast_fetched_points",
				Help: "Number of daily points returned by the last fetch",
			},
			[]string{"symbol"},
		),
		trainingRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricecast_training_runs_total",
				Help: "Total number of training runs",
			},
			[]string{"engine"},
		),
		lastLoss: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pricecast_last_epoch_loss",
				Help: "Loss reported by the most recent training epoch",
			},
		),
		forecastSteps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricecast_forecast_steps_total",
				Help: "Total number of forecast steps produced",
			},
			[]string{"engine"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricecast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pricecast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func engineLabel(mock bool) string {
	if mock {
		return "mock"
	}
	return "live"
}

// RecordFetch records a completed market data fetch.
func (r *Recorder) RecordFetch(symbol string, points int) {
	r.fetchesTotal.WithLabelValues(symbol).Inc()
	r.fetchedPoints.WithLabelValues(symbol).Set(float64(points))
}

// RecordTrainingRun records a completed training run.
func (r *Recorder) RecordTrainingRun(mock bool) {
	r.trainingRuns.WithLabelValues(engineLabel(mock)).Inc()
}

// RecordEpochLoss records the most recent epoch loss.
func (r *Recorder) RecordEpochLoss(loss float64) {
	r.lastLoss.Set(loss)
}

// RecordForecast records a produced forecast.
func (r *Recorder) RecordForecast(mock bool, steps int) {
	r.forecastSteps.WithLabelValues(engineLabel(mock)).Add(float64(steps))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
