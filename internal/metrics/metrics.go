// Package metrics exposes prometheus counters for merge runs. Runs are batch
// jobs, so the registry is exported as a node-exporter textfile rather than
// scraped.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"biochemreg/pkg/domain"
)

const namespace = "biochemreg"

// Recorder holds the run metrics. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	registry *prometheus.Registry

	records    *prometheus.CounterVec // by match kind
	malformed  prometheus.Counter
	created    prometheus.Counter
	names      prometheus.Counter
	aliases    prometheus.Counter
	warnings   prometheus.Counter
	duration   prometheus.Histogram
	lastRunUTC prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() (*Recorder, error) {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "merge",
			Name:      "records_total",
			Help:      "Records processed, by match kind (None for newly created)",
		}, []string{"kind"}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "merge",
			Name:      "malformed_records_total",
			Help:      "Input records skipped as malformed",
		}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "merge",
			Name:      "compounds_created_total",
			Help:      "Compounds minted by merge runs",
		}),
		names: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "merge",
			Name:      "names_added_total",
			Help:      "Names appended to compounds",
		}),
		aliases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "merge",
			Name:      "aliases_added_total",
			Help:      "Aliases appended to compounds",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "merge",
			Name:      "warnings_total",
			Help:      "Conflict warnings raised while merging",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "merge",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a merge run",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		lastRunUTC: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "merge",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
	for _, c := range []prometheus.Collector{r.records, r.malformed, r.created, r.names, r.aliases, r.warnings, r.duration, r.lastRunUTC} {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return r, nil
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Observe records one processed record.
func (r *Recorder) Observe(p domain.Provenance) {
	if r == nil {
		return
	}
	r.records.WithLabelValues(p.Kind.String()).Inc()
	if p.Created {
		r.created.Inc()
	}
	r.names.Add(float64(len(p.NamesAdded)))
	if p.AliasAdded {
		r.aliases.Inc()
	}
	r.warnings.Add(float64(len(p.Warnings)))
}

// Malformed records one skipped input line.
func (r *Recorder) Malformed() {
	if r == nil {
		return
	}
	r.malformed.Inc()
}

// Finish records the run duration and completion time.
func (r *Recorder) Finish(started, finished time.Time) {
	if r == nil {
		return
	}
	r.duration.Observe(finished.Sub(started).Seconds())
	r.lastRunUTC.Set(float64(finished.Unix()))
}

// WriteTextfile writes the registry in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
