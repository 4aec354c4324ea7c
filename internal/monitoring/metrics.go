// Package monitoring exposes pass metrics and registry coverage snapshots.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
)

const namespace = "citypages"

// Metrics holds the Prometheus collectors for enrichment passes.
type Metrics struct {
	Registry *prometheus.Registry

	PassEntities    *prometheus.CounterVec   // labels: pass, outcome={enriched,skipped,no_result,failed}
	AdapterDuration *prometheus.HistogramVec // labels: pass
	GroupCoverage   *prometheus.GaugeVec     // labels: group
	Checkpoints     *prometheus.CounterVec   // labels: pass
}

// NewMetrics creates the pass metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PassEntities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pass_entities_total",
			Help:      "Entities processed by enrichment passes, by outcome.",
		}, []string{"pass", "outcome"}),
		AdapterDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "adapter_duration_seconds",
			Help:      "Duration of one adapter call, pacing included.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"pass"}),
		GroupCoverage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "group_coverage_ratio",
			Help:      "Share of registry entities carrying the attribute group.",
		}, []string{"group"}),
		Checkpoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkpoints_total",
			Help:      "Registry snapshots written during passes.",
		}, []string{"pass"}),
	}

	m.Registry.MustRegister(
		m.PassEntities,
		m.AdapterDuration,
		m.GroupCoverage,
		m.Checkpoints,
	)
	return m
}

// ObserveCoverage sets the coverage gauges from a snapshot.
func (m *Metrics) ObserveCoverage(snap *Snapshot) {
	for _, c := range snap.Coverage {
		m.GroupCoverage.WithLabelValues(string(c.Group)).Set(c.Ratio)
	}
}

// WriteTextfile writes every metric in node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return eris.Wrapf(prometheus.WriteToTextfile(path, m.Registry), "monitoring: write %s", path)
}
