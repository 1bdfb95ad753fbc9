package decision

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/calendarrun/internal/gates"
)

func TestStrategyTableIsTotal(t *testing.T) {
	for _, c := range Colors {
		for _, regime := range IVRegimes {
			for _, skew := range Skews {
				key := StrategyKey{Color: c, IVRegime: regime, Skew: skew}
				s, err := LookupStrategy(key)
				require.NoError(t, err, key.String())
				assert.Contains(t, Catalog, s.Code, key.String())

				if c == Red {
					assert.Equal(t, StrategyNoTrade, s.Code, key.String())
				} else {
					assert.NotEqual(t, StrategyNoTrade, s.Code, key.String())
				}
			}
		}
	}
}

func TestLookupStrategy_UnknownKey(t *testing.T) {
	_, err := LookupStrategy(StrategyKey{Color: Color(7), IVRegime: IVRegimeLow, Skew: SkewNone})
	assert.Error(t, err)
}

func TestCatalogCodesMatchKeys(t *testing.T) {
	for code, s := range Catalog {
		assert.Equal(t, code, s.Code)
		assert.NotEmpty(t, s.Label)
	}
}

func TestClassifyIVRegime(t *testing.T) {
	th := gates.DefaultThresholds()
	tests := []struct {
		rank float64
		want IVRegime
	}{
		{0, IVRegimeLow},
		{29.9, IVRegimeLow},
		{30, IVRegimeNormal}, // band edge
		{42, IVRegimeNormal},
		{50, IVRegimeNormal}, // band edge
		{50.1, IVRegimeHigh},
		{100, IVRegimeHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyIVRegime(tt.rank, th), "rank %.1f", tt.rank)
	}
}

func TestClassifySkew(t *testing.T) {
	th := gates.DefaultThresholds()

	in := baseInput()
	assert.Equal(t, SkewNone, ClassifySkew(in, th))

	// put avg 22.5, call avg 19.5: exactly on the threshold
	in.FrontIVPut, in.BackIVPut = 23, 22
	assert.Equal(t, SkewNone, ClassifySkew(in, th))

	in.FrontIVPut = 24
	assert.Equal(t, SkewPut, ClassifySkew(in, th))

	in = baseInput()
	in.FrontIVCall, in.BackIVCall = 26, 25
	assert.Equal(t, SkewCall, ClassifySkew(in, th))
}

func TestAggregate(t *testing.T) {
	ok := gates.ConditionResult{Name: gates.ConditionVIX, Status: gates.StatusOK}
	caution := gates.ConditionResult{Name: gates.ConditionIVRank, Status: gates.StatusCaution}
	block := gates.ConditionResult{Name: gates.ConditionEventProximity, Status: gates.StatusBlock}

	tests := []struct {
		name    string
		results []gates.ConditionResult
		status  gates.Status
		color   Color
	}{
		{"empty", nil, gates.StatusOK, Green},
		{"all ok", []gates.ConditionResult{ok, ok}, gates.StatusOK, Green},
		{"one caution", []gates.ConditionResult{ok, caution, ok}, gates.StatusCaution, Yellow},
		{"block wins", []gates.ConditionResult{caution, block, ok}, gates.StatusBlock, Red},
		{"block first", []gates.ConditionResult{block, ok}, gates.StatusBlock, Red},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, color := Aggregate(tt.results)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.color, color)
		})
	}
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, Green, ColorOf(gates.StatusOK))
	assert.Equal(t, Yellow, ColorOf(gates.StatusCaution))
	assert.Equal(t, Red, ColorOf(gates.StatusBlock))
	assert.Equal(t, Red, ColorOf(gates.Status(99)), "unknown status must not read as GREEN")
}

func TestActionFor(t *testing.T) {
	assert.Equal(t, ActionEnter, ActionFor(Green))
	assert.Equal(t, ActionEnterCaution, ActionFor(Yellow))
	assert.Equal(t, ActionWait, ActionFor(Red))
	assert.Equal(t, "ENTER — CAUTION", ActionEnterCaution.Banner())
}

func TestColorJSON(t *testing.T) {
	data, err := json.Marshal(Yellow)
	require.NoError(t, err)
	assert.Equal(t, `"YELLOW"`, string(data))

	var c Color
	require.NoError(t, json.Unmarshal([]byte(`"RED"`), &c))
	assert.Equal(t, Red, c)
	assert.Error(t, json.Unmarshal([]byte(`"BLUE"`), &c))
}

func TestBuildRationale_FixedOrder(t *testing.T) {
	in := []gates.ConditionResult{
		{Name: gates.ConditionATRGuardrail, Status: gates.StatusBlock},
		{Name: gates.ConditionVIX, Status: gates.StatusOK},
		{Name: "custom", Status: gates.StatusCaution},
		{Name: gates.ConditionPriceLocation, Status: gates.StatusCaution},
	}

	out := BuildRationale(in)
	require.Len(t, out, 4)
	assert.Equal(t, gates.ConditionPriceLocation, out[0].Name)
	assert.Equal(t, gates.ConditionVIX, out[1].Name)
	assert.Equal(t, gates.ConditionATRGuardrail, out[2].Name)
	assert.Equal(t, "custom", out[3].Name)
}

func TestJoinLabels(t *testing.T) {
	assert.Equal(t, "none", joinLabels(nil))
	assert.Equal(t, "VIX", joinLabels([]string{"VIX"}))
	assert.Equal(t, "VIX and IV Rank", joinLabels([]string{"VIX", "IV Rank"}))
	assert.Equal(t, "A, B and C", joinLabels([]string{"A", "B", "C"}))
}
