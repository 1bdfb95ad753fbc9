package market

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput() Input {
	return Input{
		Underlying:      SPY,
		SpotPrice:       435.0,
		ShortPutStrike:  425.0,
		ShortCallStrike: 445.0,
		FrontIVPut:      22.0,
		FrontIVCall:     20.0,
		BackIVPut:       18.0,
		BackIVCall:      19.0,
		IVRank:          45.0,
		DaysToEvent:     5,
		VIX:             18.0,
	}
}

func TestCompute(t *testing.T) {
	m := Compute(baseInput())

	assert.Equal(t, 435.0, m.Midpoint)
	assert.Equal(t, 20.0, m.StrikeWidth)
	assert.Equal(t, 21.0, m.FrontAvgIV)
	assert.Equal(t, 18.5, m.BackAvgIV)
	assert.Equal(t, 2.5, m.TermGapPts)
	assert.Equal(t, 0.0, m.DistFromMidPct)
	assert.Equal(t, 10.0, m.NearestStrikeDist)
	assert.InDelta(t, 2.2989, m.NearestStrikeDistPct, 1e-4)
	assert.InDelta(t, 22.2222, m.PutSpreadPct, 1e-4)
	assert.InDelta(t, 5.2632, m.CallSpreadPct, 1e-4)
	assert.Equal(t, 0.5, m.SkewPts) // (22+18)/2 - (20+19)/2
}

func TestCompute_SpotBeyondStrike(t *testing.T) {
	in := baseInput()
	in.SpotPrice = 447.0

	m := Compute(in)
	assert.Equal(t, -2.0, m.NearestStrikeDist)
	assert.Less(t, m.NearestStrikeDistPct, 0.0)
}

func TestRelativeSpreadPct(t *testing.T) {
	tests := []struct {
		name        string
		front, back float64
		want        float64
	}{
		{"front_rich", 22, 20, 10},
		{"back_rich", 18, 20, -10},
		{"flat", 20, 20, 0},
		{"both_zero", 0, 0, 0},
		{"zero_back", 5, 0, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeSpreadPct(tt.front, tt.back))
		})
	}
}

func TestMetricsJSON_InfiniteSpreadIsNull(t *testing.T) {
	in := baseInput()
	in.BackIVPut = 0

	data, err := json.Marshal(Compute(in))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["put_spread_pct"])
	assert.InDelta(t, 5.2632, decoded["call_spread_pct"], 1e-4)
	assert.Equal(t, 435.0, decoded["midpoint"])
}

func TestMetricsJSON_NonFiniteFieldsAreNull(t *testing.T) {
	m := Metrics{Midpoint: 450, FrontAvgIV: math.Inf(1), BackAvgIV: math.Inf(1), TermGapPts: math.NaN(), SkewPts: math.Inf(-1)}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["front_avg_iv"])
	assert.Nil(t, decoded["back_avg_iv"])
	assert.Nil(t, decoded["term_gap_pts"])
	assert.Nil(t, decoded["skew_pts"])
	assert.Equal(t, 450.0, decoded["midpoint"])
	assert.Contains(t, decoded, "front_avg_iv")
}

func TestCompute_HugeIVsStayFinite(t *testing.T) {
	in := baseInput()
	in.FrontIVPut, in.FrontIVCall = 1e308, 1e308
	in.BackIVPut, in.BackIVCall = 1e308, 1e308

	m := Compute(in)
	assert.False(t, math.IsInf(m.FrontAvgIV, 0))
	assert.False(t, math.IsInf(m.BackAvgIV, 0))

	_, err := json.Marshal(m)
	assert.NoError(t, err)
}

func TestParseUnderlying(t *testing.T) {
	u, err := ParseUnderlying(" qqq ")
	require.NoError(t, err)
	assert.Equal(t, QQQ, u)

	_, err = ParseUnderlying("TSLA")
	assert.Error(t, err)
}

func TestInputClone(t *testing.T) {
	in := baseInput()
	in.ATR = &ATRGuardrail{CurrentATR: 4, ThresholdATR: 10}

	out := in.Clone()
	out.ATR.CurrentATR = 99

	assert.Equal(t, 4.0, in.ATR.CurrentATR)
	assert.True(t, out.HasGuardrail())
}
