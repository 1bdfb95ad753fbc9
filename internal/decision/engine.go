// Package decision turns condition results into a traffic-light
// recommendation for a double calendar.
//
// Engine.Evaluate is a pure function of the thresholds it was built with and
// the input it is given. It performs no I/O, keeps no state between calls and
// is safe for concurrent use.
package decision

import (
	"fmt"

	"github.com/sawpanic/calendarrun/internal/gates"
	"github.com/sawpanic/calendarrun/internal/market"
	"github.com/sawpanic/calendarrun/internal/policy"
)

// Recommendation is the engine output handed to presenters
type Recommendation struct {
	Underlying         market.Underlying       `json:"underlying"`
	Color              Color                   `json:"color"`
	Action             Action                  `json:"action"`
	Strategy           Strategy                `json:"strategy"`
	StrategyKey        StrategyKey             `json:"-"`
	Rationale          []gates.ConditionResult `json:"rationale"`
	GuardrailTriggered bool                    `json:"guardrail_triggered"`
	Notes              []string                `json:"notes,omitempty"`
	Metrics            market.Metrics          `json:"metrics"`
}

// Engine evaluates inputs against a fixed threshold set
type Engine struct {
	thresholds gates.Thresholds
	validator  *policy.InputValidator
}

// New validates the thresholds and returns an engine bound to them
func New(th gates.Thresholds) (*Engine, error) {
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("decision engine: %w", err)
	}
	return &Engine{
		thresholds: th,
		validator:  policy.NewInputValidator(th.MaxSpotDeviationPct),
	}, nil
}

// NewDefault builds an engine on DefaultThresholds
func NewDefault() *Engine {
	e, err := New(gates.DefaultThresholds())
	if err != nil {
		panic(err) // defaults are covered by TestDefaultThresholdsAreValid
	}
	return e
}

// Thresholds returns the engine's threshold set
func (e *Engine) Thresholds() gates.Thresholds { return e.thresholds }

// Evaluate validates the input and produces a recommendation. A validation
// failure is returned as a policy.ValidationError and no recommendation.
func (e *Engine) Evaluate(in market.Input) (Recommendation, error) {
	if err := e.validator.Validate(in); err != nil {
		return Recommendation{}, err
	}

	rationale := BuildRationale(gates.EvaluateAll(in, e.thresholds))
	_, color := Aggregate(rationale)

	strategy, key, err := SelectStrategy(in, color, e.thresholds)
	if err != nil {
		return Recommendation{}, fmt.Errorf("strategy selection: %w", err)
	}

	rec := Recommendation{
		Underlying:         in.Underlying,
		Color:              color,
		Action:             ActionFor(color),
		Strategy:           strategy,
		StrategyKey:        key,
		Rationale:          rationale,
		GuardrailTriggered: guardrailTriggered(rationale),
		Metrics:            market.Compute(in),
	}
	rec.Notes = buildNotes(in, rec)
	return rec, nil
}

func guardrailTriggered(results []gates.ConditionResult) bool {
	for _, r := range results {
		if r.Name == gates.ConditionATRGuardrail && r.Status == gates.StatusBlock {
			return true
		}
	}
	return false
}

func buildNotes(in market.Input, rec Recommendation) []string {
	var notes []string

	if rec.GuardrailTriggered {
		notes = append(notes, fmt.Sprintf("ATR guardrail fired: ATR %.2f > %.2f, wait for the range to settle",
			in.ATR.CurrentATR, in.ATR.ThresholdATR))
	}

	switch rec.Color {
	case Yellow:
		var cautions []string
		for _, r := range rec.Rationale {
			if r.Status == gates.StatusCaution {
				cautions = append(cautions, r.Label)
			}
		}
		notes = append(notes, fmt.Sprintf("Caution on %s: consider reduced size", joinLabels(cautions)))
	case Red:
		var blocks []string
		for _, r := range rec.Rationale {
			if r.Status == gates.StatusBlock {
				blocks = append(blocks, r.Label)
			}
		}
		notes = append(notes, fmt.Sprintf("Blocked by %s", joinLabels(blocks)))
	}

	switch rec.StrategyKey.Skew {
	case SkewPut:
		notes = append(notes, fmt.Sprintf("Put side IV richer by %.1f pts", rec.Metrics.SkewPts))
	case SkewCall:
		notes = append(notes, fmt.Sprintf("Call side IV richer by %.1f pts", -rec.Metrics.SkewPts))
	}

	return notes
}

func joinLabels(labels []string) string {
	switch len(labels) {
	case 0:
		return "none"
	case 1:
		return labels[0]
	}
	out := labels[0]
	for _, l := range labels[1 : len(labels)-1] {
		out += ", " + l
	}
	return out + " and " + labels[len(labels)-1]
}
