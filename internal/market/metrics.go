package market

import (
	"encoding/json"
	"math"
)

// Metrics are the derived quantities every rule and presenter works from.
// Percentages are in percent units. NearestStrikeDist is zero or negative
// once spot has reached a short strike.
type Metrics struct {
	Midpoint             float64 `json:"midpoint"`
	DistFromMidPct       float64 `json:"dist_from_mid_pct"`
	StrikeWidth          float64 `json:"strike_width"`
	NearestStrikeDist    float64 `json:"nearest_strike_dist"`
	NearestStrikeDistPct float64 `json:"nearest_strike_dist_pct"`
	FrontAvgIV           float64 `json:"front_avg_iv"`
	BackAvgIV            float64 `json:"back_avg_iv"`
	TermGapPts           float64 `json:"term_gap_pts"`
	PutSpreadPct         float64 `json:"put_spread_pct"`
	CallSpreadPct        float64 `json:"call_spread_pct"`
	SkewPts              float64 `json:"skew_pts"`
}

// MarshalJSON writes any non-finite value, such as the infinite spread of a
// zero back IV, as null
func (m Metrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Midpoint             *float64 `json:"midpoint"`
		DistFromMidPct       *float64 `json:"dist_from_mid_pct"`
		StrikeWidth          *float64 `json:"strike_width"`
		NearestStrikeDist    *float64 `json:"nearest_strike_dist"`
		NearestStrikeDistPct *float64 `json:"nearest_strike_dist_pct"`
		FrontAvgIV           *float64 `json:"front_avg_iv"`
		BackAvgIV            *float64 `json:"back_avg_iv"`
		TermGapPts           *float64 `json:"term_gap_pts"`
		PutSpreadPct         *float64 `json:"put_spread_pct"`
		CallSpreadPct        *float64 `json:"call_spread_pct"`
		SkewPts              *float64 `json:"skew_pts"`
	}{
		Midpoint:             finiteOrNil(m.Midpoint),
		DistFromMidPct:       finiteOrNil(m.DistFromMidPct),
		StrikeWidth:          finiteOrNil(m.StrikeWidth),
		NearestStrikeDist:    finiteOrNil(m.NearestStrikeDist),
		NearestStrikeDistPct: finiteOrNil(m.NearestStrikeDistPct),
		FrontAvgIV:           finiteOrNil(m.FrontAvgIV),
		BackAvgIV:            finiteOrNil(m.BackAvgIV),
		TermGapPts:           finiteOrNil(m.TermGapPts),
		PutSpreadPct:         finiteOrNil(m.PutSpreadPct),
		CallSpreadPct:        finiteOrNil(m.CallSpreadPct),
		SkewPts:              finiteOrNil(m.SkewPts),
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// Compute derives Metrics from an input. It assumes a validated input.
func Compute(in Input) Metrics {
	mid := in.ShortPutStrike/2 + in.ShortCallStrike/2

	m := Metrics{
		Midpoint:    mid,
		StrikeWidth: in.ShortCallStrike - in.ShortPutStrike,
		FrontAvgIV:  in.FrontIVPut/2 + in.FrontIVCall/2,
		BackAvgIV:   in.BackIVPut/2 + in.BackIVCall/2,
	}
	if mid != 0 {
		m.DistFromMidPct = math.Abs(in.SpotPrice-mid) / mid * 100
	}

	m.NearestStrikeDist = math.Min(in.SpotPrice-in.ShortPutStrike, in.ShortCallStrike-in.SpotPrice)
	if in.SpotPrice > 0 {
		m.NearestStrikeDistPct = m.NearestStrikeDist / in.SpotPrice * 100
	}

	m.TermGapPts = m.FrontAvgIV - m.BackAvgIV
	m.PutSpreadPct = RelativeSpreadPct(in.FrontIVPut, in.BackIVPut)
	m.CallSpreadPct = RelativeSpreadPct(in.FrontIVCall, in.BackIVCall)

	putSide := (in.FrontIVPut + in.BackIVPut) / 2.0
	callSide := (in.FrontIVCall + in.BackIVCall) / 2.0
	m.SkewPts = putSide - callSide

	return m
}

// RelativeSpreadPct is (front-back)/back in percent. A zero back IV gives
// +Inf when front is positive and 0 when both are zero.
func RelativeSpreadPct(front, back float64) float64 {
	if back == 0 {
		if front == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return (front - back) / back * 100
}
