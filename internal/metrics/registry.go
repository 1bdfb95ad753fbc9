package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/calendarrun/internal/gates"
)

// MetricsRegistry holds all Prometheus metrics for calendarrun
type MetricsRegistry struct {
	registry *prometheus.Registry

	// Evaluation outcome metrics
	Evaluations      *prometheus.CounterVec
	Conditions       *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec
	GuardrailTrips   prometheus.Counter

	// Latency
	EvalDuration prometheus.Histogram
}

// NewMetricsRegistry creates the metrics on a private registry so several
// instances can coexist (tests, batch runs).
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		registry: prometheus.NewRegistry(),

		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calendarrun_evaluations_total",
				Help: "Total number of completed evaluations by underlying and color",
			},
			[]string{"underlying", "color"},
		),

		Conditions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calendarrun_conditions_total",
				Help: "Condition results by condition and status",
			},
			[]string{"condition", "status"},
		),

		ValidationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calendarrun_validation_errors_total",
				Help: "Rejected inputs by offending field",
			},
			[]string{"field"},
		),

		GuardrailTrips: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "calendarrun_guardrail_triggers_total",
				Help: "Evaluations where the ATR guardrail blocked entry",
			},
		),

		EvalDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "calendarrun_evaluation_duration_seconds",
				Help:    "Duration of a single evaluation in seconds",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
			},
		),
	}

	m.registry.MustRegister(
		m.Evaluations,
		m.Conditions,
		m.ValidationErrors,
		m.GuardrailTrips,
		m.EvalDuration,
	)

	return m
}

// Registry exposes the underlying registry for gathering
func (m *MetricsRegistry) Registry() *prometheus.Registry { return m.registry }

// EvalTimer tracks execution time of one evaluation
type EvalTimer struct {
	metrics *MetricsRegistry
	start   time.Time
}

// StartEvalTimer begins timing an evaluation
func (m *MetricsRegistry) StartEvalTimer() *EvalTimer {
	return &EvalTimer{metrics: m, start: time.Now()}
}

// Stop records the elapsed time
func (t *EvalTimer) Stop() time.Duration {
	d := time.Since(t.start)
	t.metrics.EvalDuration.Observe(d.Seconds())
	return d
}

// RecordEvaluation counts a completed evaluation and its condition results
func (m *MetricsRegistry) RecordEvaluation(underlying, color string, results []gates.ConditionResult, guardrail bool) {
	m.Evaluations.WithLabelValues(underlying, color).Inc()
	for _, r := range results {
		m.Conditions.WithLabelValues(r.Name, r.Status.String()).Inc()
	}
	if guardrail {
		m.GuardrailTrips.Inc()
	}
}

// RecordValidationError counts a rejected input
func (m *MetricsRegistry) RecordValidationError(field string) {
	m.ValidationErrors.WithLabelValues(field).Inc()
	log.Debug().Str("field", field).Msg("Validation error recorded")
}

// EvaluationCount sums calendarrun_evaluations_total for one color across
// underlyings.
func (m *MetricsRegistry) EvaluationCount(color string) float64 {
	families, err := m.registry.Gather()
	if err != nil {
		return 0
	}

	total := 0.0
	for _, mf := range families {
		if mf.GetName() != "calendarrun_evaluations_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if labelValue(metric, "color") == color {
				total += metric.GetCounter().GetValue()
			}
		}
	}
	return total
}

func labelValue(metric *io_prometheus_client.Metric, name string) string {
	for _, lp := range metric.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// WriteTextfile dumps the registry in the node-exporter textfile format
func (m *MetricsRegistry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
