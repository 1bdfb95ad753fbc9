package decision

import (
	"encoding/json"
	"fmt"

	"github.com/sawpanic/calendarrun/internal/gates"
)

// Color is the traffic light shown to the trader
type Color int

const (
	Green Color = iota
	Yellow
	Red
)

var colorNames = map[Color]string{
	Green:  "GREEN",
	Yellow: "YELLOW",
	Red:    "RED",
}

// Colors lists every color, least severe first
var Colors = []Color{Green, Yellow, Red}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for k, v := range colorNames {
		if v == name {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown color %q", name)
}

// ColorOf maps a status onto the light: OK→GREEN, CAUTION→YELLOW, BLOCK→RED.
// A status outside the enum is treated as RED.
func ColorOf(s gates.Status) Color {
	switch s {
	case gates.StatusOK:
		return Green
	case gates.StatusCaution:
		return Yellow
	default:
		return Red
	}
}

// Aggregate returns the worst status across results and its color. It is a
// strict maximum; an empty slice is OK/GREEN.
func Aggregate(results []gates.ConditionResult) (gates.Status, Color) {
	worst := gates.StatusOK
	for _, r := range results {
		worst = worst.Worse(r.Status)
	}
	return worst, ColorOf(worst)
}

// Action is the final banner derived from the color
type Action string

const (
	ActionEnter        Action = "ENTER"
	ActionEnterCaution Action = "ENTER_CAUTION"
	ActionWait         Action = "WAIT"
)

// ActionFor maps GREEN→ENTER, YELLOW→ENTER_CAUTION, RED→WAIT
func ActionFor(c Color) Action {
	switch c {
	case Green:
		return ActionEnter
	case Yellow:
		return ActionEnterCaution
	default:
		return ActionWait
	}
}

// Banner is the human form of an action
func (a Action) Banner() string {
	switch a {
	case ActionEnter:
		return "ENTER (all green)"
	case ActionEnterCaution:
		return "ENTER — CAUTION"
	default:
		return "WAIT"
	}
}
