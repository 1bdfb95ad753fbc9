package policy

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/calendarrun/internal/market"
)

func validInput() market.Input {
	return market.Input{
		Underlying:      market.SPY,
		SpotPrice:       450,
		ShortPutStrike:  440,
		ShortCallStrike: 460,
		FrontIVPut:      22,
		FrontIVCall:     20,
		BackIVPut:       21,
		BackIVCall:      19,
		IVRank:          35,
		DaysToEvent:     10,
		VIX:             15,
	}
}

func TestInputValidator_Valid(t *testing.T) {
	v := NewInputValidator(0)
	assert.NoError(t, v.Validate(validInput()))

	in := validInput()
	in.ATR = &market.ATRGuardrail{CurrentATR: 5, ThresholdATR: 3}
	assert.NoError(t, v.Validate(in))

	// spot outside the strikes is a market condition, not an input error
	in = validInput()
	in.SpotPrice = 465
	assert.NoError(t, v.Validate(in))
}

func TestInputValidator_Violations(t *testing.T) {
	v := NewInputValidator(DefaultMaxSpotDeviationPct)

	tests := []struct {
		name   string
		mutate func(in *market.Input)
		field  string
		reason ReasonCode
	}{
		{"unknown_underlying", func(in *market.Input) { in.Underlying = "TSLA" }, FieldUnderlying, ReasonUnknownUnderlying},
		{"zero_spot", func(in *market.Input) { in.SpotPrice = 0 }, FieldSpotPrice, ReasonNotPositive},
		{"negative_spot", func(in *market.Input) { in.SpotPrice = -5 }, FieldSpotPrice, ReasonNotPositive},
		{"nan_spot", func(in *market.Input) { in.SpotPrice = math.NaN() }, FieldSpotPrice, ReasonNotFinite},
		{"inf_call_strike", func(in *market.Input) { in.ShortCallStrike = math.Inf(1) }, FieldShortCallStrike, ReasonNotFinite},
		{"zero_put_strike", func(in *market.Input) { in.ShortPutStrike = 0 }, FieldShortPutStrike, ReasonNotPositive},
		{"inverted_strikes", func(in *market.Input) { in.ShortPutStrike, in.ShortCallStrike = 460, 440 }, FieldShortPutStrike, ReasonInvertedStrikes},
		{"equal_strikes", func(in *market.Input) { in.ShortPutStrike, in.ShortCallStrike = 450, 450 }, FieldShortPutStrike, ReasonInvertedStrikes},
		{"negative_front_put_iv", func(in *market.Input) { in.FrontIVPut = -1 }, FieldFrontIVPut, ReasonNegative},
		{"nan_back_call_iv", func(in *market.Input) { in.BackIVCall = math.NaN() }, FieldBackIVCall, ReasonNotFinite},
		{"iv_rank_above_100", func(in *market.Input) { in.IVRank = 100.5 }, FieldIVRank, ReasonOutOfRange},
		{"iv_rank_negative", func(in *market.Input) { in.IVRank = -0.1 }, FieldIVRank, ReasonOutOfRange},
		{"negative_days", func(in *market.Input) { in.DaysToEvent = -1 }, FieldDaysToEvent, ReasonNegative},
		{"zero_vix", func(in *market.Input) { in.VIX = 0 }, FieldVIX, ReasonNotPositive},
		{"zero_current_atr", func(in *market.Input) { in.ATR = &market.ATRGuardrail{CurrentATR: 0, ThresholdATR: 3} }, FieldCurrentATR, ReasonNotPositive},
		{"zero_threshold_atr", func(in *market.Input) { in.ATR = &market.ATRGuardrail{CurrentATR: 2, ThresholdATR: 0} }, FieldThresholdATR, ReasonNotPositive},
		{"spot_far_from_strikes", func(in *market.Input) { in.SpotPrice = 900 }, FieldSpotPrice, ReasonSpotOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := v.Validate(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var validationErr ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Equal(t, tt.reason, validationErr.Reason)
			assert.Contains(t, validationErr.Error(), tt.field)
		})
	}
}

func TestInputValidator_IVRankBoundsInclusive(t *testing.T) {
	v := NewInputValidator(0)
	for _, rank := range []float64{0, 100} {
		in := validInput()
		in.IVRank = rank
		assert.NoError(t, v.Validate(in), "rank %.0f", rank)
	}
}

func TestInputValidator_ZeroIVAllowed(t *testing.T) {
	in := validInput()
	in.BackIVPut = 0
	in.FrontIVCall = 0
	assert.NoError(t, NewInputValidator(0).Validate(in))
}

func TestInputValidator_CustomDeviationBound(t *testing.T) {
	in := validInput()
	in.SpotPrice = 500 // ~11.1% above the 450 midpoint

	assert.NoError(t, NewInputValidator(20).Validate(in))

	err := NewInputValidator(10).Validate(in)
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, ReasonSpotOutOfBounds, validationErr.Reason)
}

func TestInputValidator_HugeStrikesOutOfBounds(t *testing.T) {
	in := validInput()
	in.SpotPrice = 1
	in.ShortPutStrike = 1e308
	in.ShortCallStrike = 1.7e308

	err := NewInputValidator(0).Validate(in)
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, ReasonSpotOutOfBounds, validationErr.Reason)
	assert.Equal(t, FieldSpotPrice, validationErr.Field)
}
