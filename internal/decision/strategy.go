package decision

import (
	"fmt"

	"github.com/sawpanic/calendarrun/internal/gates"
	"github.com/sawpanic/calendarrun/internal/market"
)

// StrategyCode identifies a catalog entry
type StrategyCode string

const (
	StrategyNoTrade            StrategyCode = "NO_TRADE"
	StrategyDoubleCalendar     StrategyCode = "DOUBLE_CALENDAR"
	StrategyPutSkewedCalendar  StrategyCode = "PUT_SKEWED_CALENDAR"
	StrategyCallSkewedCalendar StrategyCode = "CALL_SKEWED_CALENDAR"
	StrategyIronCondorCalendar StrategyCode = "IRON_CONDOR_CALENDAR"
	StrategyOTMVertical        StrategyCode = "OTM_VERTICAL"
)

// Strategy is a catalog entry
type Strategy struct {
	Code  StrategyCode `json:"code"`
	Label string       `json:"label"`
}

// Catalog is the fixed set of strategies the selector may return
var Catalog = map[StrategyCode]Strategy{
	StrategyNoTrade:            {StrategyNoTrade, "No Trade — Wait"},
	StrategyDoubleCalendar:     {StrategyDoubleCalendar, "Double Calendar — Symmetric"},
	StrategyPutSkewedCalendar:  {StrategyPutSkewedCalendar, "Double Calendar — Put-Skewed"},
	StrategyCallSkewedCalendar: {StrategyCallSkewedCalendar, "Double Calendar — Call-Skewed"},
	StrategyIronCondorCalendar: {StrategyIronCondorCalendar, "Iron Condor + Calendar Overlay"},
	StrategyOTMVertical:        {StrategyOTMVertical, "Cheaper OTM Vertical (directional)"},
}

// IVRegime places IV rank relative to the OK band
type IVRegime string

const (
	IVRegimeLow    IVRegime = "LOW"
	IVRegimeNormal IVRegime = "NORMAL"
	IVRegimeHigh   IVRegime = "HIGH"
)

// IVRegimes lists every regime
var IVRegimes = []IVRegime{IVRegimeLow, IVRegimeNormal, IVRegimeHigh}

// Skew names the richer side of the put/call IV surface
type Skew string

const (
	SkewPut  Skew = "PUT"
	SkewNone Skew = "NONE"
	SkewCall Skew = "CALL"
)

// Skews lists every skew
var Skews = []Skew{SkewPut, SkewNone, SkewCall}

// StrategyKey is the lookup key of the selection table
type StrategyKey struct {
	Color    Color
	IVRegime IVRegime
	Skew     Skew
}

func (k StrategyKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Color, k.IVRegime, k.Skew)
}

var calendarBySkew = map[Skew]StrategyCode{
	SkewPut:  StrategyPutSkewedCalendar,
	SkewNone: StrategyDoubleCalendar,
	SkewCall: StrategyCallSkewedCalendar,
}

// strategyTable holds one entry per reachable key
var strategyTable = buildStrategyTable()

func buildStrategyTable() map[StrategyKey]StrategyCode {
	table := make(map[StrategyKey]StrategyCode, len(Colors)*len(IVRegimes)*len(Skews))
	for _, c := range Colors {
		for _, regime := range IVRegimes {
			for _, skew := range Skews {
				key := StrategyKey{Color: c, IVRegime: regime, Skew: skew}
				switch {
				case c == Red:
					table[key] = StrategyNoTrade
				case c == Yellow && regime == IVRegimeHigh:
					table[key] = StrategyIronCondorCalendar
				case c == Yellow && regime == IVRegimeLow:
					table[key] = StrategyOTMVertical
				default:
					table[key] = calendarBySkew[skew]
				}
			}
		}
	}
	return table
}

// ClassifyIVRegime places rank relative to [low, high]; the band edges are NORMAL
func ClassifyIVRegime(rank float64, th gates.Thresholds) IVRegime {
	switch {
	case rank < th.IVRankLowBand:
		return IVRegimeLow
	case rank > th.IVRankHighBand:
		return IVRegimeHigh
	default:
		return IVRegimeNormal
	}
}

// ClassifySkew compares put-side and call-side average IV. Only a skew
// strictly beyond the threshold counts.
func ClassifySkew(in market.Input, th gates.Thresholds) Skew {
	skew := market.Compute(in).SkewPts
	switch {
	case skew > th.IVSkewThresholdPts:
		return SkewPut
	case skew < -th.IVSkewThresholdPts:
		return SkewCall
	default:
		return SkewNone
	}
}

// LookupStrategy returns the catalog entry for a key. It errors only when the
// table is missing a key, which TestStrategyTableIsTotal rules out.
func LookupStrategy(key StrategyKey) (Strategy, error) {
	code, ok := strategyTable[key]
	if !ok {
		return Strategy{}, fmt.Errorf("no strategy for %s", key)
	}
	return Catalog[code], nil
}

// SelectStrategy picks the suggestion for an input and its aggregated color
func SelectStrategy(in market.Input, c Color, th gates.Thresholds) (Strategy, StrategyKey, error) {
	key := StrategyKey{
		Color:    c,
		IVRegime: ClassifyIVRegime(in.IVRank, th),
		Skew:     ClassifySkew(in, th),
	}
	s, err := LookupStrategy(key)
	return s, key, err
}
