package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/calendarrun/internal/gates"
)

func TestRecordEvaluation(t *testing.T) {
	m := NewMetricsRegistry()

	results := []gates.ConditionResult{
		{Name: gates.ConditionPriceLocation, Status: gates.StatusOK},
		{Name: gates.ConditionVIX, Status: gates.StatusBlock},
		{Name: gates.ConditionATRGuardrail, Status: gates.StatusBlock},
	}
	m.RecordEvaluation("SPY", "RED", results, true)
	m.RecordEvaluation("QQQ", "RED", results[:1], false)
	m.RecordEvaluation("SPY", "GREEN", results[:1], false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("SPY", "RED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("SPY", "GREEN")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Conditions.WithLabelValues(gates.ConditionPriceLocation, "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conditions.WithLabelValues(gates.ConditionVIX, "BLOCK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GuardrailTrips))

	assert.Equal(t, 2.0, m.EvaluationCount("RED"))
	assert.Equal(t, 1.0, m.EvaluationCount("GREEN"))
	assert.Equal(t, 0.0, m.EvaluationCount("YELLOW"))
}

func TestRecordValidationError(t *testing.T) {
	m := NewMetricsRegistry()
	m.RecordValidationError("short_put_strike")
	m.RecordValidationError("short_put_strike")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationErrors.WithLabelValues("short_put_strike")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ValidationErrors))
}

func TestEvalTimer(t *testing.T) {
	m := NewMetricsRegistry()
	d := m.StartEvalTimer().Stop()
	assert.GreaterOrEqual(t, int64(d), int64(0))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "calendarrun_evaluation_duration_seconds" {
			assert.Equal(t, uint64(1), mf.GetMetric()[0].GetHistogram().GetSampleCount())
			return
		}
	}
	t.Fatal("duration histogram not gathered")
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := NewMetricsRegistry()
	b := NewMetricsRegistry()
	a.RecordEvaluation("SPY", "GREEN", nil, false)

	assert.Equal(t, 1.0, a.EvaluationCount("GREEN"))
	assert.Equal(t, 0.0, b.EvaluationCount("GREEN"))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetricsRegistry()
	m.RecordEvaluation("IWM", "YELLOW", nil, false)

	path := filepath.Join(t.TempDir(), "calendarrun.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `calendarrun_evaluations_total{color="YELLOW",underlying="IWM"} 1`)

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}
