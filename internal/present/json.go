package present

import (
	"encoding/json"
	"io"
)

// RenderJSON writes v as indented JSON followed by a newline
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// JSONLines encodes each value on its own line
func JSONLines[T any](values []T) ([][]byte, error) {
	lines := make([][]byte, 0, len(values))
	for _, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		lines = append(lines, data)
	}
	return lines, nil
}
