package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for ingest batches
// and dashboard sessions.
type Metrics struct {
	FilesParsed     prometheus.Counter
	FilesFailed     prometheus.Counter
	RecordsIngested prometheus.Counter
	BatchesIngested prometheus.Counter

	// Batch processing metrics.
	BatchFiles              prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeOutcomes *prometheus.CounterVec // labels: outcome={table,fallback,unresolved,missing}

	// Session and sink metrics.
	ActiveSessions   prometheus.Gauge
	RecordsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.FilesParsed,
		m.FilesFailed,
		m.RecordsIngested,
		m.BatchesIngested,
		m.BatchFiles,
		m.BatchProcessingDuration,
		m.GeocodeOutcomes,
		m.ActiveSessions,
		m.RecordsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruit_map",
			Name:      "files_parsed_total",
			Help:      "Total uploaded files parsed successfully.",
		}),
		FilesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruit_map",
			Name:      "files_failed_total",
			Help:      "Total uploaded files skipped because they could not be parsed.",
		}),
		RecordsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruit_map",
			Name:      "records_ingested_total",
			Help:      "Total candidate records added to datasets.",
		}),
		BatchesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruit_map",
			Name:      "batches_ingested_total",
			Help:      "Total upload batches turned into datasets.",
		}),
		BatchFiles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "recruit_map",
			Name:      "batch_files",
			Help:      "Number of files per upload batch.",
			Buckets:   []float64{1, 2, 3, 5, 10, 20},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "recruit_map",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete parse-normalize-geocode cycle.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		GeocodeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recruit_map",
			Name:      "geocode_outcomes_total",
			Help:      "City lookups by outcome.",
		}, []string{"outcome"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "recruit_map",
			Name:      "active_sessions",
			Help:      "Dashboard sessions currently held in memory.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruit_map",
			Name:      "records_published_total",
			Help:      "Total records written to the record sink.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruit_map",
			Name:      "publish_errors_total",
			Help:      "Total failed record sink writes.",
		}),
	}
}
