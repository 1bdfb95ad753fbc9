package policy

import (
	"errors"
	"fmt"
	"math"

	"github.com/sawpanic/calendarrun/internal/market"
)

// ErrInvalidInput matches every ValidationError via errors.Is
var ErrInvalidInput = errors.New("invalid market input")

// ReasonCode represents violation reason codes for clear error reporting
type ReasonCode string

const (
	ReasonNotFinite         ReasonCode = "NOT_FINITE"
	ReasonNotPositive       ReasonCode = "NOT_POSITIVE"
	ReasonNegative          ReasonCode = "NEGATIVE"
	ReasonOutOfRange        ReasonCode = "OUT_OF_RANGE"
	ReasonInvertedStrikes   ReasonCode = "INVERTED_STRIKES"
	ReasonUnknownUnderlying ReasonCode = "UNKNOWN_UNDERLYING"
	ReasonSpotOutOfBounds   ReasonCode = "SPOT_OUT_OF_BOUNDS"
)

// Field names used in ValidationError.Field
const (
	FieldUnderlying      = "underlying"
	FieldSpotPrice       = "spot_price"
	FieldShortPutStrike  = "short_put_strike"
	FieldShortCallStrike = "short_call_strike"
	FieldFrontIVPut      = "front_iv_put"
	FieldFrontIVCall     = "front_iv_call"
	FieldBackIVPut       = "back_iv_put"
	FieldBackIVCall      = "back_iv_call"
	FieldIVRank          = "iv_rank"
	FieldDaysToEvent     = "days_to_event"
	FieldVIX             = "vix"
	FieldCurrentATR      = "atr_guardrail.current_atr"
	FieldThresholdATR    = "atr_guardrail.threshold_atr"
)

// ValidationError names the offending field of a rejected input
type ValidationError struct {
	Field   string
	Reason  ReasonCode
	Value   float64
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Reason, e.Field, e.Message)
}

// Is lets callers test errors.Is(err, ErrInvalidInput)
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// DefaultMaxSpotDeviationPct bounds how far spot may sit from the strike midpoint
const DefaultMaxSpotDeviationPct = 50.0

// InputValidator rejects structurally broken inputs before any rule runs
type InputValidator struct {
	maxSpotDeviationPct float64
}

// NewInputValidator creates a validator. A non-positive bound falls back to
// DefaultMaxSpotDeviationPct.
func NewInputValidator(maxSpotDeviationPct float64) *InputValidator {
	if maxSpotDeviationPct <= 0 || math.IsNaN(maxSpotDeviationPct) {
		maxSpotDeviationPct = DefaultMaxSpotDeviationPct
	}
	return &InputValidator{maxSpotDeviationPct: maxSpotDeviationPct}
}

// Validate returns the first violation found, checking fields in input order
func (v *InputValidator) Validate(in market.Input) error {
	if !in.Underlying.Valid() {
		return ValidationError{
			Field:   FieldUnderlying,
			Reason:  ReasonUnknownUnderlying,
			Message: fmt.Sprintf("unsupported underlying %q (want SPY, QQQ or IWM)", string(in.Underlying)),
		}
	}

	if err := positive(FieldSpotPrice, "spot price", in.SpotPrice); err != nil {
		return err
	}
	if err := positive(FieldShortPutStrike, "short put strike", in.ShortPutStrike); err != nil {
		return err
	}
	if err := positive(FieldShortCallStrike, "short call strike", in.ShortCallStrike); err != nil {
		return err
	}
	if in.ShortPutStrike >= in.ShortCallStrike {
		return ValidationError{
			Field:  FieldShortPutStrike,
			Reason: ReasonInvertedStrikes,
			Value:  in.ShortPutStrike,
			Message: fmt.Sprintf("short put strike %.2f must be below short call strike %.2f",
				in.ShortPutStrike, in.ShortCallStrike),
		}
	}

	ivs := []struct {
		field, label string
		value        float64
	}{
		{FieldFrontIVPut, "front-week put IV", in.FrontIVPut},
		{FieldFrontIVCall, "front-week call IV", in.FrontIVCall},
		{FieldBackIVPut, "back-week put IV", in.BackIVPut},
		{FieldBackIVCall, "back-week call IV", in.BackIVCall},
	}
	for _, iv := range ivs {
		if err := nonNegative(iv.field, iv.label, iv.value); err != nil {
			return err
		}
	}

	if err := finite(FieldIVRank, "IV rank", in.IVRank); err != nil {
		return err
	}
	if in.IVRank < 0 || in.IVRank > 100 {
		return ValidationError{
			Field:   FieldIVRank,
			Reason:  ReasonOutOfRange,
			Value:   in.IVRank,
			Message: fmt.Sprintf("IV rank %.2f must be within [0, 100]", in.IVRank),
		}
	}

	if in.DaysToEvent < 0 {
		return ValidationError{
			Field:   FieldDaysToEvent,
			Reason:  ReasonNegative,
			Value:   float64(in.DaysToEvent),
			Message: fmt.Sprintf("days to event %d must not be negative", in.DaysToEvent),
		}
	}

	if err := positive(FieldVIX, "VIX", in.VIX); err != nil {
		return err
	}

	if in.ATR != nil {
		if err := positive(FieldCurrentATR, "current ATR", in.ATR.CurrentATR); err != nil {
			return err
		}
		if err := positive(FieldThresholdATR, "ATR threshold", in.ATR.ThresholdATR); err != nil {
			return err
		}
	}

	// halves first so huge strikes cannot overflow; NaN fails the bound
	mid := in.ShortPutStrike/2 + in.ShortCallStrike/2
	deviation := math.Abs(in.SpotPrice-mid) / mid * 100
	if !(deviation <= v.maxSpotDeviationPct) {
		return ValidationError{
			Field:  FieldSpotPrice,
			Reason: ReasonSpotOutOfBounds,
			Value:  in.SpotPrice,
			Message: fmt.Sprintf("spot %.2f is %.1f%% away from strike midpoint %.2f (limit %.1f%%)",
				in.SpotPrice, deviation, mid, v.maxSpotDeviationPct),
		}
	}

	return nil
}

func finite(field, label string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ValidationError{
			Field:   field,
			Reason:  ReasonNotFinite,
			Value:   value,
			Message: fmt.Sprintf("%s must be a finite number", label),
		}
	}
	return nil
}

func positive(field, label string, value float64) error {
	if err := finite(field, label, value); err != nil {
		return err
	}
	if value <= 0 {
		return ValidationError{
			Field:   field,
			Reason:  ReasonNotPositive,
			Value:   value,
			Message: fmt.Sprintf("%s must be greater than zero, got %.2f", label, value),
		}
	}
	return nil
}

func nonNegative(field, label string, value float64) error {
	if err := finite(field, label, value); err != nil {
		return err
	}
	if value < 0 {
		return ValidationError{
			Field:   field,
			Reason:  ReasonNegative,
			Value:   value,
			Message: fmt.Sprintf("%s must not be negative, got %.2f", label, value),
		}
	}
	return nil
}
