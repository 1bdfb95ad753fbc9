package gates

import "github.com/sawpanic/calendarrun/internal/market"

// ATRGuardrail blocks when the underlying is moving faster than the supplied
// ATR threshold. The second return is false when no guardrail was supplied,
// in which case no result should be reported.
func ATRGuardrail(in market.Input, _ Thresholds) (ConditionResult, bool) {
	if in.ATR == nil {
		return ConditionResult{}, false
	}

	cur, limit := in.ATR.CurrentATR, in.ATR.ThresholdATR
	if cur > limit {
		return result(ConditionATRGuardrail, StatusBlock,
			"ATR %.2f exceeds guardrail %.2f, underlying moving too fast", cur, limit), true
	}
	return result(ConditionATRGuardrail, StatusOK,
		"ATR %.2f within guardrail %.2f", cur, limit), true
}
