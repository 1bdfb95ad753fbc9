package gates

import (
	"math"

	"github.com/sawpanic/calendarrun/internal/market"
)

// PriceLocation checks how close spot sits to the nearest short strike.
// Spot at or beyond a short strike is treated as breached.
func PriceLocation(in market.Input, th Thresholds) ConditionResult {
	m := market.Compute(in)

	side, strike := "put", in.ShortPutStrike
	if in.ShortCallStrike-in.SpotPrice < in.SpotPrice-in.ShortPutStrike {
		side, strike = "call", in.ShortCallStrike
	}
	dist := m.NearestStrikeDistPct

	switch {
	case m.NearestStrikeDist <= 0:
		return result(ConditionPriceLocation, StatusBlock,
			"Spot %.2f has reached the short %s strike %.2f", in.SpotPrice, side, strike)
	case dist < th.PriceProximityBlockPct:
		return result(ConditionPriceLocation, StatusBlock,
			"Spot %.2f is %.2f%% from the short %s strike %.2f (block below %.2f%%)",
			in.SpotPrice, dist, side, strike, th.PriceProximityBlockPct)
	case dist < th.PriceProximityCautionPct:
		return result(ConditionPriceLocation, StatusCaution,
			"Spot %.2f is %.2f%% from the short %s strike %.2f (caution below %.2f%%)",
			in.SpotPrice, dist, side, strike, th.PriceProximityCautionPct)
	default:
		return result(ConditionPriceLocation, StatusOK,
			"Spot %.2f is %.2f%% from the nearest short strike (%s %.2f)", in.SpotPrice, dist, side, strike)
	}
}

// TermStructure compares front-week to back-week IV on both sides. The side
// with the larger relative spread decides the status.
func TermStructure(in market.Input, th Thresholds) ConditionResult {
	put := market.RelativeSpreadPct(in.FrontIVPut, in.BackIVPut)
	call := market.RelativeSpreadPct(in.FrontIVCall, in.BackIVCall)

	dominant := put
	if math.Abs(call) > math.Abs(put) {
		dominant = call
	}
	worst := math.Abs(dominant)
	shape := "front rich"
	if dominant < 0 {
		shape = "back rich"
	}

	switch {
	case worst > th.IVSpreadBlockPct:
		return result(ConditionTermStructure, StatusBlock,
			"Front/back IV spread put %+.1f%%, call %+.1f%% (%s) exceeds %.1f%%",
			put, call, shape, th.IVSpreadBlockPct)
	case worst > th.IVSpreadCautionPct:
		return result(ConditionTermStructure, StatusCaution,
			"Front/back IV spread put %+.1f%%, call %+.1f%% (%s) above %.1f%%",
			put, call, shape, th.IVSpreadCautionPct)
	default:
		return result(ConditionTermStructure, StatusOK,
			"Front/back IV spread put %+.1f%%, call %+.1f%% within %.1f%%",
			put, call, th.IVSpreadCautionPct)
	}
}

// IVRank wants rank inside [low, high]; a margin on either side is CAUTION
func IVRank(in market.Input, th Thresholds) ConditionResult {
	r := in.IVRank

	if r >= th.IVRankLowBand && r <= th.IVRankHighBand {
		return result(ConditionIVRank, StatusOK,
			"IV rank %.1f inside the %.0f-%.0f band", r, th.IVRankLowBand, th.IVRankHighBand)
	}

	direction, outside := "below", th.IVRankLowBand-r
	reason := "premium too thin"
	if r > th.IVRankHighBand {
		direction, outside = "above", r-th.IVRankHighBand
		reason = "elevated event risk"
	}

	if outside <= th.IVRankCautionMargin {
		return result(ConditionIVRank, StatusCaution,
			"IV rank %.1f is %.1f pts %s the %.0f-%.0f band (%s)",
			r, outside, direction, th.IVRankLowBand, th.IVRankHighBand, reason)
	}
	return result(ConditionIVRank, StatusBlock,
		"IV rank %.1f is %.1f pts %s the %.0f-%.0f band (%s)",
		r, outside, direction, th.IVRankLowBand, th.IVRankHighBand, reason)
}

// EventProximity discourages opening calendars right before a binary event
func EventProximity(in market.Input, th Thresholds) ConditionResult {
	d := in.DaysToEvent

	switch {
	case d < th.EventDaysBlockBelow:
		return result(ConditionEventProximity, StatusBlock,
			"%d day(s) to the next macro event, minimum to trade is %d", d, th.EventDaysBlockBelow)
	case d < th.EventDaysMinimum:
		return result(ConditionEventProximity, StatusCaution,
			"%d day(s) to the next macro event, preferred minimum is %d", d, th.EventDaysMinimum)
	default:
		return result(ConditionEventProximity, StatusOK,
			"%d day(s) to the next macro event", d)
	}
}

// VIX flags broad market stress and, below the floor, thin premium
func VIX(in market.Input, th Thresholds) ConditionResult {
	v := in.VIX

	switch {
	case v > th.VIXBlockLevel:
		return result(ConditionVIX, StatusBlock,
			"VIX %.2f above %.1f, market stress too high for mechanical rules", v, th.VIXBlockLevel)
	case v > th.VIXCautionLevel:
		return result(ConditionVIX, StatusCaution,
			"VIX %.2f above %.1f", v, th.VIXCautionLevel)
	case v < th.VIXFloorLevel:
		return result(ConditionVIX, StatusCaution,
			"VIX %.2f below %.1f, premium may be thin", v, th.VIXFloorLevel)
	default:
		return result(ConditionVIX, StatusOK,
			"VIX %.2f within %.1f-%.1f", v, th.VIXFloorLevel, th.VIXCautionLevel)
	}
}
