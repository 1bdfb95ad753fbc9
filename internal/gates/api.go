package gates

import "github.com/sawpanic/calendarrun/internal/market"

// Check is one named evaluator. Run reports false when the check does not
// apply to the input.
type Check struct {
	Name string
	Run  func(in market.Input, th Thresholds) (ConditionResult, bool)
}

func always(fn func(market.Input, Thresholds) ConditionResult) func(market.Input, Thresholds) (ConditionResult, bool) {
	return func(in market.Input, th Thresholds) (ConditionResult, bool) {
		return fn(in, th), true
	}
}

// Checks returns the evaluators in rationale order
func Checks() []Check {
	return []Check{
		{Name: ConditionPriceLocation, Run: always(PriceLocation)},
		{Name: ConditionTermStructure, Run: always(TermStructure)},
		{Name: ConditionIVRank, Run: always(IVRank)},
		{Name: ConditionEventProximity, Run: always(EventProximity)},
		{Name: ConditionVIX, Run: always(VIX)},
		{Name: ConditionATRGuardrail, Run: ATRGuardrail},
	}
}

// EvaluateAll runs every applicable check and returns results in ConditionOrder
func EvaluateAll(in market.Input, th Thresholds) []ConditionResult {
	checks := Checks()
	results := make([]ConditionResult, 0, len(checks))
	for _, c := range checks {
		if r, ok := c.Run(in, th); ok {
			results = append(results, r)
		}
	}
	return results
}
