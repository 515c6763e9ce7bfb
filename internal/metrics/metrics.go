// Package metrics records per-run counters and writes them in the Prometheus
// textfile format for node_exporter's textfile collector.
package metrics

import (
	"fmt"

	"github.com/BegaDeveloper/datasieve/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry        *prometheus.Registry
	RecordsRead     prometheus.Counter
	RecordsKept     prometheus.Counter
	RecordsDropped  *prometheus.CounterVec
	SkippedLines    prometheus.Counter
	DuplicatesTotal prometheus.Counter
	RunDuration     prometheus.Gauge
}

// New registers the collectors on a private registry. Every series carries a
// constant command label.
func New(command string) *Metrics {
	labels := prometheus.Labels{"command": command}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "datasieve_records_read_total",
			Help:        "Records parsed from the input dataset.",
			ConstLabels: labels,
		}),
		RecordsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "datasieve_records_kept_total",
			Help:        "Records written to the output dataset.",
			ConstLabels: labels,
		}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "datasieve_records_dropped_total",
			Help:        "Records dropped by the filter, by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		SkippedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "datasieve_skipped_lines_total",
			Help:        "Malformed JSONL lines skipped.",
			ConstLabels: labels,
		}),
		DuplicatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "datasieve_duplicates_total",
			Help:        "Duplicate records found by dedup.",
			ConstLabels: labels,
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "datasieve_run_duration_seconds",
			Help:        "Wall time of the last run.",
			ConstLabels: labels,
		}),
	}

	m.registry.MustRegister(
		m.RecordsRead,
		m.RecordsKept,
		m.RecordsDropped,
		m.SkippedLines,
		m.DuplicatesTotal,
		m.RunDuration,
	)
	return m
}

func (m *Metrics) Observe(stats pipeline.Stats) {
	m.RecordsRead.Add(float64(stats.Read))
	m.RecordsKept.Add(float64(stats.Kept))
	m.SkippedLines.Add(float64(stats.Skipped))
	for reason, count := range stats.DropReasons {
		m.RecordsDropped.WithLabelValues(reason).Add(float64(count))
	}
	m.RunDuration.Set(stats.Duration.Seconds())
}

func (m *Metrics) ObserveDuplicates(count int) {
	m.DuplicatesTotal.Add(float64(count))
}

// WriteTextfile writes all collected series to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
