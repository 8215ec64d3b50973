// Package metrics records a benchmark run in Prometheus form. The registry
// is written once as a node-exporter textfile after the run.
package metrics

import (
	"dbbench/bench"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dbbench"

const (
	StatusOK    = "ok"
	StatusError = "error"
)

type Metrics struct {
	queryDuration *prometheus.HistogramVec
	attempts      *prometheus.CounterVec
	skipped       *prometheus.CounterVec
	tableBytes    *prometheus.GaugeVec
	tableRows     *prometheus.GaugeVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		queryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Latency of successful timed query executions, rows drained.",
			Buckets: []float64{
				0.001, 0.002, 0.005,
				0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5, 10,
			},
		}, []string{"query", "category"}),
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_attempts_total",
			Help:      "Timed query executions by outcome.",
		}, []string{"query", "category", "status"}),
		skipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optional_queries_skipped_total",
			Help:      "Optional queries whose trial execution failed.",
		}, []string{"query"}),
		tableBytes: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_size_bytes",
			Help:      "Data plus index size per table.",
		}, []string{"table"}),
		tableRows: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_rows",
			Help:      "Estimated row count per table.",
		}, []string{"table"}),
	}
}

func (m *Metrics) ObserveAttempt(def bench.QueryDef, r bench.QueryResult) {
	if r.Err != nil {
		m.attempts.WithLabelValues(def.Name, def.Category, StatusError).Inc()
		return
	}
	m.attempts.WithLabelValues(def.Name, def.Category, StatusOK).Inc()
	m.queryDuration.WithLabelValues(def.Name, def.Category).Observe(r.Duration.Seconds())
}

func (m *Metrics) ObserveSkip(def bench.QueryDef, _ error) {
	m.skipped.WithLabelValues(def.Name).Inc()
}

func (m *Metrics) ObserveTables(tables []bench.TableStat) {
	for _, t := range tables {
		m.tableBytes.WithLabelValues(t.Name).Set(float64(t.TotalBytes()))
		m.tableRows.WithLabelValues(t.Name).Set(float64(t.Rows))
	}
}

// WriteTextfile dumps everything gathered by g to path.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return errors.Wrap(prometheus.WriteToTextfile(path, g), "write metrics textfile")
}

var _ bench.Observer = (*Metrics)(nil)
