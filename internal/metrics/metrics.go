// Package metrics records per-run counters and exports them in the
// Prometheus text format for the node exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run collects the metrics of a single booklet run.
type Run struct {
	registry *prometheus.Registry

	pages    *prometheus.CounterVec
	sheets   *prometheus.CounterVec
	bundles  prometheus.Counter
	stage    *prometheus.HistogramVec
	duration prometheus.Gauge
	success  prometheus.Gauge
}

// New creates a Run with its own registry.
func New() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "booklet",
				Name:      "pages_total",
				Help:      "Pages imposed, by kind (source, blank)",
			},
			[]string{"kind"},
		),
		sheets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "booklet",
				Name:      "sheet_sides_total",
				Help:      "Rendered sheet sides, by side (front, back)",
			},
			[]string{"side"},
		),
		bundles: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "booklet",
				Name:      "bundles_total",
				Help:      "Binding bundles written",
			},
		),
		stage: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "booklet",
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		duration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "booklet",
				Name:      "last_run_duration_seconds",
				Help:      "Wall time of the last run",
			},
		),
		success: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "booklet",
				Name:      "last_run_success",
				Help:      "1 if the last run succeeded, 0 otherwise",
			},
		),
	}
	r.registry.MustRegister(r.pages, r.sheets, r.bundles, r.stage, r.duration, r.success)
	return r
}

func (r *Run) AddPages(source, blank int) {
	r.pages.WithLabelValues("source").Add(float64(source))
	r.pages.WithLabelValues("blank").Add(float64(blank))
}

func (r *Run) AddSheets(side string, n int) { r.sheets.WithLabelValues(side).Add(float64(n)) }
func (r *Run) IncBundles()                  { r.bundles.Inc() }

// ObserveStage records how long a named stage took.
func (r *Run) ObserveStage(stage string, d time.Duration) {
	r.stage.WithLabelValues(stage).Observe(d.Seconds())
}

// Finish records the outcome of the run.
func (r *Run) Finish(d time.Duration, err error) {
	r.duration.Set(d.Seconds())
	if err == nil {
		r.success.Set(1)
	} else {
		r.success.Set(0)
	}
}

// WriteTextfile atomically writes the metrics to filename.
func (r *Run) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, r.registry)
}
