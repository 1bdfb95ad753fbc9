package market

import (
	"fmt"
	"strings"
)

// Underlying identifies the ETF the calendar is traded on
type Underlying string

const (
	SPY Underlying = "SPY"
	QQQ Underlying = "QQQ"
	IWM Underlying = "IWM"
)

// Underlyings lists the supported symbols in display order
var Underlyings = []Underlying{SPY, QQQ, IWM}

// ParseUnderlying maps a case-insensitive symbol to an Underlying
func ParseUnderlying(s string) (Underlying, error) {
	u := Underlying(strings.ToUpper(strings.TrimSpace(s)))
	if !u.Valid() {
		return "", fmt.Errorf("unsupported underlying %q (want one of SPY, QQQ, IWM)", s)
	}
	return u, nil
}

// Valid reports whether u is one of the supported symbols
func (u Underlying) Valid() bool {
	for _, known := range Underlyings {
		if u == known {
			return true
		}
	}
	return false
}

func (u Underlying) String() string { return string(u) }

// ATRGuardrail is the optional average-true-range check
type ATRGuardrail struct {
	CurrentATR   float64 `json:"current_atr" yaml:"current_atr"`     // ATR(5) daily points
	ThresholdATR float64 `json:"threshold_atr" yaml:"threshold_atr"` // maximum tolerated ATR
}

// Input is the market snapshot a single evaluation runs on.
// IV fields are in IV points (22 means 22%), IVRank is 0-100.
type Input struct {
	Underlying      Underlying    `json:"underlying" yaml:"underlying"`
	SpotPrice       float64       `json:"spot_price" yaml:"spot_price"`
	ShortPutStrike  float64       `json:"short_put_strike" yaml:"short_put_strike"`
	ShortCallStrike float64       `json:"short_call_strike" yaml:"short_call_strike"`
	FrontIVPut      float64       `json:"front_iv_put" yaml:"front_iv_put"`
	FrontIVCall     float64       `json:"front_iv_call" yaml:"front_iv_call"`
	BackIVPut       float64       `json:"back_iv_put" yaml:"back_iv_put"`
	BackIVCall      float64       `json:"back_iv_call" yaml:"back_iv_call"`
	IVRank          float64       `json:"iv_rank" yaml:"iv_rank"`
	DaysToEvent     int           `json:"days_to_event" yaml:"days_to_event"`
	VIX             float64       `json:"vix" yaml:"vix"`
	ATR             *ATRGuardrail `json:"atr_guardrail,omitempty" yaml:"atr_guardrail,omitempty"`
}

// HasGuardrail reports whether the ATR guardrail should run
func (in Input) HasGuardrail() bool { return in.ATR != nil }

// Clone returns a copy that shares no pointers with in
func (in Input) Clone() Input {
	out := in
	if in.ATR != nil {
		atr := *in.ATR
		out.ATR = &atr
	}
	return out
}
