// Package advisor runs the decision engine with logging and metrics around it.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sawpanic/calendarrun/internal/assemble"
	"github.com/sawpanic/calendarrun/internal/decision"
	"github.com/sawpanic/calendarrun/internal/market"
	"github.com/sawpanic/calendarrun/internal/metrics"
	"github.com/sawpanic/calendarrun/internal/policy"
)

// Service evaluates inputs and records what happened
type Service struct {
	engine  *decision.Engine
	metrics *metrics.MetricsRegistry
	logger  zerolog.Logger
}

// NewService wires an engine to a metrics registry and logger. A nil
// registry gets a fresh private one.
func NewService(engine *decision.Engine, m *metrics.MetricsRegistry, logger zerolog.Logger) *Service {
	if m == nil {
		m = metrics.NewMetricsRegistry()
	}
	return &Service{engine: engine, metrics: m, logger: logger}
}

// Metrics returns the registry the service records into
func (s *Service) Metrics() *metrics.MetricsRegistry { return s.metrics }

// Evaluate runs one evaluation. The evaluation id appears in log lines only.
func (s *Service) Evaluate(ctx context.Context, in market.Input) (decision.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return decision.Recommendation{}, err
	}

	id := uuid.New().String()[:8]
	logger := s.logger.With().Str("eval_id", id).Str("underlying", string(in.Underlying)).Logger()

	timer := s.metrics.StartEvalTimer()
	rec, err := s.engine.Evaluate(in)
	elapsed := timer.Stop()

	if err != nil {
		var verr policy.ValidationError
		if errors.As(err, &verr) {
			s.metrics.RecordValidationError(verr.Field)
			logger.Warn().
				Str("field", verr.Field).
				Str("reason", string(verr.Reason)).
				Msg(verr.Message)
			return decision.Recommendation{}, err
		}
		logger.Error().Err(err).Msg("Evaluation failed")
		return decision.Recommendation{}, err
	}

	s.metrics.RecordEvaluation(string(rec.Underlying), rec.Color.String(), rec.Rationale, rec.GuardrailTriggered)

	logger.Info().
		Str("color", rec.Color.String()).
		Str("strategy", string(rec.Strategy.Code)).
		Bool("guardrail", rec.GuardrailTriggered).
		Dur("elapsed", elapsed).
		Msg("Evaluation complete")
	logger.Debug().Str("input", assemble.Describe(in)).Msg("Evaluated input")

	return rec, nil
}

// Outcome is the result of one batch scenario
type Outcome struct {
	Name           string                   `json:"name"`
	Recommendation *decision.Recommendation `json:"recommendation,omitempty"`
	Error          string                   `json:"error,omitempty"`
	ErrorExpected  bool                     `json:"error_expected,omitempty"`
	Mismatches     []string                 `json:"mismatches,omitempty"`
}

// OK reports whether the scenario met its expectations
func (o Outcome) OK() bool {
	return (o.Error == "" || o.ErrorExpected) && len(o.Mismatches) == 0
}

// EvaluateBatch runs every scenario in order. A rejected input is recorded
// on its outcome and does not stop the batch; a cancelled context does.
func (s *Service) EvaluateBatch(ctx context.Context, scenarios []assemble.Scenario) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(scenarios))

	for _, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			return outcomes, fmt.Errorf("batch interrupted after %d scenarios: %w", len(outcomes), err)
		}

		out := Outcome{Name: sc.Name}
		rec, err := s.Evaluate(ctx, sc.Input)
		if err != nil {
			out.Error = err.Error()
			out.ErrorExpected = sc.ExpectError != "" && strings.Contains(out.Error, sc.ExpectError)
		} else {
			out.Recommendation = &rec
			out.Mismatches = checkExpectations(sc, rec)
		}
		outcomes = append(outcomes, out)
	}

	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}
	s.logger.Info().Int("scenarios", len(outcomes)).Int("failed", failed).Msg("Batch complete")

	return outcomes, nil
}

func checkExpectations(sc assemble.Scenario, rec decision.Recommendation) []string {
	var mismatches []string
	if sc.ExpectError != "" {
		mismatches = append(mismatches, fmt.Sprintf("expected error %s, got %s", sc.ExpectError, rec.Color))
	}
	if sc.ExpectColor != "" && !strings.EqualFold(sc.ExpectColor, rec.Color.String()) {
		mismatches = append(mismatches, fmt.Sprintf("expected color %s, got %s", sc.ExpectColor, rec.Color))
	}
	if sc.ExpectStrategy != "" && !strings.EqualFold(sc.ExpectStrategy, string(rec.Strategy.Code)) {
		mismatches = append(mismatches, fmt.Sprintf("expected strategy %s, got %s", sc.ExpectStrategy, rec.Strategy.Code))
	}
	return mismatches
}
