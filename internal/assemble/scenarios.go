package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sawpanic/calendarrun/internal/market"
)

// Scenario is one named input in a batch file. Expect fields are optional
// and let a batch run double as a regression check. ExpectError is matched
// as a substring of the validation error, e.g. INVERTED_STRIKES.
type Scenario struct {
	Name           string       `yaml:"name"`
	Input          market.Input `yaml:"input"`
	ExpectColor    string       `yaml:"expect_color,omitempty"`
	ExpectStrategy string       `yaml:"expect_strategy,omitempty"`
	ExpectError    string       `yaml:"expect_error,omitempty"`
}

// ScenarioFile is the top-level document of a batch file
type ScenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios reads a batch file from disk
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios %s: %w", path, err)
	}
	return ParseScenarios(data)
}

// ParseScenarios decodes a batch document. Unknown keys are rejected so a
// typo in a field name does not silently evaluate a zero value.
func ParseScenarios(data []byte) ([]Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file ScenarioFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scenarios YAML: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file contains no scenarios")
	}

	seen := make(map[string]bool, len(file.Scenarios))
	for i := range file.Scenarios {
		sc := &file.Scenarios[i]
		if sc.Name == "" {
			sc.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		if seen[sc.Name] {
			return nil, fmt.Errorf("duplicate scenario name %q", sc.Name)
		}
		seen[sc.Name] = true
		sc.Input = Normalize(sc.Input)
	}
	return file.Scenarios, nil
}
