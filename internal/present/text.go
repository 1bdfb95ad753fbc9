// Package present renders recommendations for the terminal and for files.
package present

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/sawpanic/calendarrun/internal/decision"
	"github.com/sawpanic/calendarrun/internal/gates"
)

const rule = "═══════════════════════════════════════════════"

// TextRenderer writes a human-readable traffic light
type TextRenderer struct {
	w      io.Writer
	colors map[decision.Color]*color.Color
	status map[gates.Status]*color.Color
	bold   *color.Color
}

// NewTextRenderer creates a renderer. colorize forces ANSI colors on or off
// regardless of fatih/color's own terminal detection.
func NewTextRenderer(w io.Writer, colorize bool) *TextRenderer {
	r := &TextRenderer{
		w: w,
		colors: map[decision.Color]*color.Color{
			decision.Green:  color.New(color.FgGreen, color.Bold),
			decision.Yellow: color.New(color.FgYellow, color.Bold),
			decision.Red:    color.New(color.FgRed, color.Bold),
		},
		status: map[gates.Status]*color.Color{
			gates.StatusOK:      color.New(color.FgGreen),
			gates.StatusCaution: color.New(color.FgYellow),
			gates.StatusBlock:   color.New(color.FgRed),
		},
		bold: color.New(color.Bold),
	}

	all := []*color.Color{r.bold}
	for _, c := range r.colors {
		all = append(all, c)
	}
	for _, c := range r.status {
		all = append(all, c)
	}
	for _, c := range all {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

var lightGlyph = map[decision.Color]string{
	decision.Green:  "🟢",
	decision.Yellow: "🟡",
	decision.Red:    "🔴",
}

// Render writes one recommendation
func (r *TextRenderer) Render(rec decision.Recommendation) error {
	var b strings.Builder

	light := r.colors[rec.Color]
	fmt.Fprintf(&b, "%s %s DOUBLE CALENDAR: %s\n", lightGlyph[rec.Color], rec.Underlying, light.Sprint(rec.Color))
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "Decision: %s\n", light.Sprint(rec.Action.Banner()))
	fmt.Fprintf(&b, "Strategy: %s\n", r.bold.Sprint(rec.Strategy.Label))
	if rec.GuardrailTriggered {
		fmt.Fprintf(&b, "Guardrail: %s\n", r.status[gates.StatusBlock].Sprint("ATR guardrail TRIGGERED"))
	}

	fmt.Fprintf(&b, "\n📋 CONDITIONS:\n")
	for _, c := range rec.Rationale {
		tag := fmt.Sprintf("%-7s", c.Status)
		fmt.Fprintf(&b, "   [%s] %-16s %s\n", r.status[c.Status].Sprint(tag), c.Label, c.Message)
	}

	m := rec.Metrics
	fmt.Fprintf(&b, "\n📐 METRICS:\n")
	fmt.Fprintf(&b, "   Midpoint:          %s\n", Price(m.Midpoint))
	fmt.Fprintf(&b, "   Spot vs midpoint:  %s\n", Percent(m.DistFromMidPct))
	fmt.Fprintf(&b, "   Strike width:      %s\n", Price(m.StrikeWidth))
	fmt.Fprintf(&b, "   Nearest strike:    %s (%s)\n", Price(m.NearestStrikeDist), Percent(m.NearestStrikeDistPct))
	fmt.Fprintf(&b, "   Front avg IV:      %s\n", Points(m.FrontAvgIV))
	fmt.Fprintf(&b, "   Back avg IV:       %s\n", Points(m.BackAvgIV))
	fmt.Fprintf(&b, "   Term gap:          %s pts\n", Points(m.TermGapPts))
	fmt.Fprintf(&b, "   Put spread:        %s\n", Percent(m.PutSpreadPct))
	fmt.Fprintf(&b, "   Call spread:       %s\n", Percent(m.CallSpreadPct))
	fmt.Fprintf(&b, "   Skew (put-call):   %s pts\n", Points(m.SkewPts))

	if len(rec.Notes) > 0 {
		fmt.Fprintf(&b, "\n📝 NOTES:\n")
		for _, n := range rec.Notes {
			fmt.Fprintf(&b, "   - %s\n", n)
		}
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// BatchRow is one line of a batch summary
type BatchRow struct {
	Name     string
	Color    string // empty when the input was rejected
	Strategy string
	Problem  string // validation error or expectation mismatch
}

// RenderBatch writes a compact table of batch results
func (r *TextRenderer) RenderBatch(rows []BatchRow) error {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 BATCH RESULTS (%d scenarios)\n", len(rows))
	fmt.Fprintf(&b, "%s\n", rule)
	for _, row := range rows {
		outcome := r.status[gates.StatusBlock].Sprint(fmt.Sprintf("%-7s", "INVALID"))
		for _, c := range decision.Colors {
			if row.Color == c.String() {
				outcome = r.colors[c].Sprint(fmt.Sprintf("%-7s", c))
			}
		}
		fmt.Fprintf(&b, "   %-20s %s %s", row.Name, outcome, row.Strategy)
		if row.Problem != "" {
			fmt.Fprintf(&b, "  ⚠️  %s", row.Problem)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// Price formats a price with two fixed decimals
func Price(v float64) string { return fixed(v, 2) }

// Points formats IV points with two fixed decimals
func Points(v float64) string { return fixed(v, 2) }

// Percent formats a percentage with two fixed decimals and a % sign.
// Infinite values print as ∞.
func Percent(v float64) string {
	if math.IsInf(v, 1) {
		return "∞%"
	}
	return fixed(v, 2) + "%"
}

func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
