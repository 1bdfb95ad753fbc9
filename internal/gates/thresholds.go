package gates

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Thresholds holds every numeric rule boundary. A value sitting exactly on a
// boundary stays on the less severe side.
type Thresholds struct {
	// Price location: distance to nearest short strike, percent of spot
	PriceProximityBlockPct   float64 `yaml:"price_proximity_block_pct" json:"price_proximity_block_pct"`     // <0.5% → BLOCK
	PriceProximityCautionPct float64 `yaml:"price_proximity_caution_pct" json:"price_proximity_caution_pct"` // <1.0% → CAUTION

	// IV rank band, 0-100
	IVRankLowBand       float64 `yaml:"iv_rank_low_band" json:"iv_rank_low_band"`             // 30
	IVRankHighBand      float64 `yaml:"iv_rank_high_band" json:"iv_rank_high_band"`           // 50
	IVRankCautionMargin float64 `yaml:"iv_rank_caution_margin" json:"iv_rank_caution_margin"` // ±10 outside the band

	// Event proximity in days
	EventDaysMinimum    int `yaml:"event_days_minimum" json:"event_days_minimum"`         // <3 → CAUTION
	EventDaysBlockBelow int `yaml:"event_days_block_below" json:"event_days_block_below"` // <2 → BLOCK

	// VIX levels
	VIXCautionLevel float64 `yaml:"vix_caution_level" json:"vix_caution_level"` // >20 → CAUTION
	VIXBlockLevel   float64 `yaml:"vix_block_level" json:"vix_block_level"`     // >25 → BLOCK
	VIXFloorLevel   float64 `yaml:"vix_floor_level" json:"vix_floor_level"`     // <14 → CAUTION

	// Front/back relative IV spread, percent of back IV
	IVSpreadCautionPct float64 `yaml:"iv_spread_caution_pct" json:"iv_spread_caution_pct"` // >15% → CAUTION
	IVSpreadBlockPct   float64 `yaml:"iv_spread_block_pct" json:"iv_spread_block_pct"`     // >30% → BLOCK

	// Strategy selection and input sanity
	IVSkewThresholdPts  float64 `yaml:"iv_skew_threshold_pts" json:"iv_skew_threshold_pts"`   // >3 IV pts → skewed calendar
	MaxSpotDeviationPct float64 `yaml:"max_spot_deviation_pct" json:"max_spot_deviation_pct"` // >50% from midpoint → invalid
}

// DefaultThresholds returns production-ready rule thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		PriceProximityBlockPct:   0.5,
		PriceProximityCautionPct: 1.0,

		IVRankLowBand:       30.0,
		IVRankHighBand:      50.0,
		IVRankCautionMargin: 10.0,

		EventDaysMinimum:    3,
		EventDaysBlockBelow: 2,

		VIXCautionLevel: 20.0,
		VIXBlockLevel:   25.0,
		VIXFloorLevel:   14.0,

		IVSpreadCautionPct: 15.0,
		IVSpreadBlockPct:   30.0,

		IVSkewThresholdPts:  3.0,
		MaxSpotDeviationPct: 50.0,
	}
}

// ConfigError lists every incoherent threshold found by Validate
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid thresholds: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the thresholds for internal consistency
func (t Thresholds) Validate() error {
	var problems []string

	named := []struct {
		name  string
		value float64
	}{
		{"price_proximity_block_pct", t.PriceProximityBlockPct},
		{"price_proximity_caution_pct", t.PriceProximityCautionPct},
		{"iv_rank_low_band", t.IVRankLowBand},
		{"iv_rank_high_band", t.IVRankHighBand},
		{"iv_rank_caution_margin", t.IVRankCautionMargin},
		{"vix_caution_level", t.VIXCautionLevel},
		{"vix_block_level", t.VIXBlockLevel},
		{"vix_floor_level", t.VIXFloorLevel},
		{"iv_spread_caution_pct", t.IVSpreadCautionPct},
		{"iv_spread_block_pct", t.IVSpreadBlockPct},
		{"iv_skew_threshold_pts", t.IVSkewThresholdPts},
		{"max_spot_deviation_pct", t.MaxSpotDeviationPct},
	}
	for _, n := range named {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			problems = append(problems, fmt.Sprintf("%s must be finite", n.name))
		} else if n.value < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative (%.2f)", n.name, n.value))
		}
	}

	if t.PriceProximityBlockPct > t.PriceProximityCautionPct {
		problems = append(problems, fmt.Sprintf("price_proximity_block_pct %.2f exceeds price_proximity_caution_pct %.2f",
			t.PriceProximityBlockPct, t.PriceProximityCautionPct))
	}
	if t.IVRankLowBand > t.IVRankHighBand {
		problems = append(problems, fmt.Sprintf("iv_rank_low_band %.1f exceeds iv_rank_high_band %.1f",
			t.IVRankLowBand, t.IVRankHighBand))
	}
	if t.IVRankHighBand > 100 {
		problems = append(problems, fmt.Sprintf("iv_rank_high_band %.1f exceeds 100", t.IVRankHighBand))
	}
	if t.EventDaysBlockBelow < 0 || t.EventDaysMinimum < 0 {
		problems = append(problems, "event day thresholds must not be negative")
	}
	if t.EventDaysBlockBelow > t.EventDaysMinimum {
		problems = append(problems, fmt.Sprintf("event_days_block_below %d exceeds event_days_minimum %d",
			t.EventDaysBlockBelow, t.EventDaysMinimum))
	}
	if t.VIXCautionLevel > t.VIXBlockLevel {
		problems = append(problems, fmt.Sprintf("vix_caution_level %.1f exceeds vix_block_level %.1f",
			t.VIXCautionLevel, t.VIXBlockLevel))
	}
	if t.VIXFloorLevel > t.VIXCautionLevel {
		problems = append(problems, fmt.Sprintf("vix_floor_level %.1f exceeds vix_caution_level %.1f",
			t.VIXFloorLevel, t.VIXCautionLevel))
	}
	if t.IVSpreadCautionPct > t.IVSpreadBlockPct {
		problems = append(problems, fmt.Sprintf("iv_spread_caution_pct %.1f exceeds iv_spread_block_pct %.1f",
			t.IVSpreadCautionPct, t.IVSpreadBlockPct))
	}
	if t.MaxSpotDeviationPct == 0 {
		problems = append(problems, "max_spot_deviation_pct must be greater than zero")
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

// LoadThresholds reads a YAML threshold file. Keys missing from the file keep
// their DefaultThresholds value.
func LoadThresholds(path string) (Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("failed to read thresholds %s: %w", path, err)
	}
	return ParseThresholds(data)
}

// ParseThresholds decodes YAML over the defaults and validates the result
func ParseThresholds(data []byte) (Thresholds, error) {
	t := DefaultThresholds()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Thresholds{}, fmt.Errorf("failed to parse thresholds YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Thresholds{}, err
	}
	return t, nil
}

// YAML encodes the thresholds in the same layout LoadThresholds reads
func (t Thresholds) YAML() ([]byte, error) {
	return yaml.Marshal(t)
}

// Describe returns one human-readable line per rule
func (t Thresholds) Describe() []string {
	return []string{
		fmt.Sprintf("Price location: BLOCK if nearest short strike < %.2f%% of spot, CAUTION if < %.2f%%",
			t.PriceProximityBlockPct, t.PriceProximityCautionPct),
		fmt.Sprintf("Term structure: BLOCK if |front-back|/back > %.1f%%, CAUTION if > %.1f%%",
			t.IVSpreadBlockPct, t.IVSpreadCautionPct),
		fmt.Sprintf("IV rank: OK within [%.0f, %.0f], CAUTION within %.0f pts outside, BLOCK beyond",
			t.IVRankLowBand, t.IVRankHighBand, t.IVRankCautionMargin),
		fmt.Sprintf("Event proximity: BLOCK if < %d days, CAUTION if < %d days",
			t.EventDaysBlockBelow, t.EventDaysMinimum),
		fmt.Sprintf("VIX: BLOCK if > %.1f, CAUTION if > %.1f or < %.1f",
			t.VIXBlockLevel, t.VIXCautionLevel, t.VIXFloorLevel),
		"ATR guardrail: BLOCK if current ATR > threshold ATR (only when supplied)",
		fmt.Sprintf("Strategy: skewed calendar when put/call IV skew exceeds %.1f pts", t.IVSkewThresholdPts),
	}
}
