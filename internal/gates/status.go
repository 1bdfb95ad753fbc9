package gates

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the severity of a single condition check. The zero value is OK
// and the ordering OK < Caution < Block is what aggregation relies on.
type Status int

const (
	StatusOK Status = iota
	StatusCaution
	StatusBlock
)

var statusNames = map[Status]string{
	StatusOK:      "OK",
	StatusCaution: "CAUTION",
	StatusBlock:   "BLOCK",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Valid reports whether s is one of the three defined statuses
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Worse returns the more severe of s and other
func (s Status) Worse(other Status) Status {
	if other > s {
		return other
	}
	return s
}

// ParseStatus accepts the names produced by String, case-insensitively
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return StatusOK, fmt.Errorf("unknown status %q", name)
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Condition names, in rationale order
const (
	ConditionPriceLocation  = "price_location"
	ConditionTermStructure  = "term_structure"
	ConditionIVRank         = "iv_rank"
	ConditionEventProximity = "event_proximity"
	ConditionVIX            = "vix"
	ConditionATRGuardrail   = "atr_guardrail"
)

// ConditionOrder is the fixed order condition results are reported in
var ConditionOrder = []string{
	ConditionPriceLocation,
	ConditionTermStructure,
	ConditionIVRank,
	ConditionEventProximity,
	ConditionVIX,
	ConditionATRGuardrail,
}

var conditionLabels = map[string]string{
	ConditionPriceLocation:  "Price Location",
	ConditionTermStructure:  "Term Structure",
	ConditionIVRank:         "IV Rank",
	ConditionEventProximity: "Event Proximity",
	ConditionVIX:            "VIX",
	ConditionATRGuardrail:   "ATR Guardrail",
}

// Label returns the display label of a condition name
func Label(condition string) string {
	if l, ok := conditionLabels[condition]; ok {
		return l
	}
	return condition
}

// ConditionResult is the outcome of one evaluator
type ConditionResult struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

func result(name string, status Status, format string, args ...interface{}) ConditionResult {
	return ConditionResult{
		Name:    name,
		Label:   Label(name),
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}
