package decision

import "github.com/sawpanic/calendarrun/internal/gates"

// BuildRationale orders results by gates.ConditionOrder. It never sorts by
// severity and drops nothing; results with an unknown name keep their
// relative order after the known ones.
func BuildRationale(results []gates.ConditionResult) []gates.ConditionResult {
	out := make([]gates.ConditionResult, 0, len(results))
	used := make([]bool, len(results))

	for _, name := range gates.ConditionOrder {
		for i, r := range results {
			if !used[i] && r.Name == name {
				out = append(out, r)
				used[i] = true
			}
		}
	}
	for i, r := range results {
		if !used[i] {
			out = append(out, r)
		}
	}
	return out
}
