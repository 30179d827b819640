// Package metrics holds the Prometheus counters for one fsh invocation.
//
// Each invocation gets its own registry; nothing is served over HTTP. When
// --metrics-file is given the registry is written once, at exit, in the
// node_exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters recorded by scans and replacements
type Metrics struct {
	registry *prometheus.Registry

	// Scan metrics
	FilesExamined prometheus.Counter
	FilesSkipped  *prometheus.CounterVec
	FilesMatched  prometheus.Counter
	Occurrences   prometheus.Counter
	ScanDuration  prometheus.Histogram

	// Replace metrics
	FilesRewritten prometheus.Counter
	Replacements   prometheus.Counter
	ReplaceErrors  prometheus.Counter
}

// NewMetrics creates a collector bound to a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		FilesExamined: factory.NewCounter(prometheus.CounterOpts{
			Name: "fsh_files_examined_total",
			Help: "Files handed to the reader during a scan",
		}),
		FilesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fsh_files_skipped_total",
			Help: "Files skipped during a scan, by reason",
		}, []string{"reason"}),
		FilesMatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "fsh_files_matched_total",
			Help: "Files with at least one occurrence",
		}),
		Occurrences: factory.NewCounter(prometheus.CounterOpts{
			Name: "fsh_occurrences_total",
			Help: "Matching lines found",
		}),
		ScanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fsh_scan_duration_seconds",
			Help:    "Wall time of a full scan",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),

		FilesRewritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "fsh_files_rewritten_total",
			Help: "Files atomically rewritten by replace or append",
		}),
		Replacements: factory.NewCounter(prometheus.CounterOpts{
			Name: "fsh_replacements_total",
			Help: "Occurrences replaced",
		}),
		ReplaceErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "fsh_replace_errors_total",
			Help: "Files that failed during replace",
		}),
	}
}

// Registry exposes the underlying registry for gathering
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSkip counts a skipped file under its reason label
func (m *Metrics) RecordSkip(reason string) {
	m.FilesSkipped.WithLabelValues(reason).Inc()
}

// RecordScan observes the duration of a finished scan
func (m *Metrics) RecordScan(elapsed time.Duration) {
	m.ScanDuration.Observe(elapsed.Seconds())
}

// WriteFile writes all metrics to path in the Prometheus text format
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
