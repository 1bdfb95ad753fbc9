// Package assemble builds market.Input values from CLI flags and scenario files.
package assemble

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/sawpanic/calendarrun/internal/market"
)

// Form holds raw flag values before they become a market.Input
type Form struct {
	Underlying      string
	SpotPrice       float64
	ShortPutStrike  float64
	ShortCallStrike float64
	FrontIVPut      float64
	FrontIVCall     float64
	BackIVPut       float64
	BackIVCall      float64
	IVRank          float64
	DaysToEvent     int
	VIX             float64
	UseATR          bool
	CurrentATR      float64
	ThresholdATR    float64 // 0 means half the strike width
}

// DefaultForm returns the values the evaluate command starts from
func DefaultForm() Form {
	return Form{
		Underlying:      string(market.SPY),
		SpotPrice:       635,
		ShortPutStrike:  615,
		ShortCallStrike: 650,
		FrontIVPut:      22,
		FrontIVCall:     20,
		BackIVPut:       18,
		BackIVCall:      19,
		IVRank:          42,
		DaysToEvent:     4,
		VIX:             17.5,
		UseATR:          false,
		CurrentATR:      6,
	}
}

// BindFlags registers one flag per field on fs, defaulted from f
func (f *Form) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&f.Underlying, "underlying", "u", f.Underlying, "Underlying symbol (SPY|QQQ|IWM)")
	fs.Float64Var(&f.SpotPrice, "spot", f.SpotPrice, "Spot price")
	fs.Float64Var(&f.ShortPutStrike, "put-strike", f.ShortPutStrike, "Short put strike")
	fs.Float64Var(&f.ShortCallStrike, "call-strike", f.ShortCallStrike, "Short call strike")
	fs.Float64Var(&f.FrontIVPut, "front-iv-put", f.FrontIVPut, "Front-week put IV (%)")
	fs.Float64Var(&f.FrontIVCall, "front-iv-call", f.FrontIVCall, "Front-week call IV (%)")
	fs.Float64Var(&f.BackIVPut, "back-iv-put", f.BackIVPut, "Back-week put IV (%)")
	fs.Float64Var(&f.BackIVCall, "back-iv-call", f.BackIVCall, "Back-week call IV (%)")
	fs.Float64Var(&f.IVRank, "iv-rank", f.IVRank, "IV rank (0-100)")
	fs.IntVar(&f.DaysToEvent, "days-to-event", f.DaysToEvent, "Days until the next major event")
	fs.Float64Var(&f.VIX, "vix", f.VIX, "VIX level")
	fs.BoolVar(&f.UseATR, "use-atr", f.UseATR, "Enable the ATR guardrail")
	fs.Float64Var(&f.CurrentATR, "atr", f.CurrentATR, "ATR(5) daily points")
	fs.Float64Var(&f.ThresholdATR, "atr-threshold", f.ThresholdATR, "Maximum tolerated ATR (0 = half the strike width)")
}

// Build converts the form into an Input. Only the symbol is checked here;
// numeric checks belong to the policy validator.
func (f Form) Build() (market.Input, error) {
	u, err := market.ParseUnderlying(f.Underlying)
	if err != nil {
		return market.Input{}, err
	}

	in := market.Input{
		Underlying:      u,
		SpotPrice:       f.SpotPrice,
		ShortPutStrike:  f.ShortPutStrike,
		ShortCallStrike: f.ShortCallStrike,
		FrontIVPut:      f.FrontIVPut,
		FrontIVCall:     f.FrontIVCall,
		BackIVPut:       f.BackIVPut,
		BackIVCall:      f.BackIVCall,
		IVRank:          f.IVRank,
		DaysToEvent:     f.DaysToEvent,
		VIX:             f.VIX,
	}
	if f.UseATR {
		in.ATR = &market.ATRGuardrail{CurrentATR: f.CurrentATR, ThresholdATR: f.ThresholdATR}
	}
	return Normalize(in), nil
}

// Normalize upper-cases a known symbol and fills a zero ATR threshold with
// half the strike width. It returns a copy; in is left untouched.
func Normalize(in market.Input) market.Input {
	out := in.Clone()
	if u := market.Underlying(strings.ToUpper(strings.TrimSpace(string(out.Underlying)))); u.Valid() {
		out.Underlying = u
	}
	if out.ATR != nil && out.ATR.ThresholdATR == 0 {
		if width := out.ShortCallStrike - out.ShortPutStrike; width > 0 {
			out.ATR.ThresholdATR = width / 2
		}
	}
	return out
}

// Describe is a one-line summary used in logs
func Describe(in market.Input) string {
	s := fmt.Sprintf("%s spot=%.2f strikes=%.2f/%.2f ivr=%.1f days=%d vix=%.2f",
		in.Underlying, in.SpotPrice, in.ShortPutStrike, in.ShortCallStrike, in.IVRank, in.DaysToEvent, in.VIX)
	if in.ATR != nil {
		s += fmt.Sprintf(" atr=%.2f/%.2f", in.ATR.CurrentATR, in.ATR.ThresholdATR)
	}
	return s
}
