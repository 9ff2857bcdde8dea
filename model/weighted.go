package model

import (
	"bytes"
	"encoding/json"
)

// WeightedEntry is one language with its cross-user weighted score
type WeightedEntry struct {
	Language string
	Score    float64
}

// WeightedReport is the final ranking, kept as an ordered slice because
// a plain map cannot guarantee the ascending score order of the artifact
type WeightedReport []WeightedEntry

// MarshalJSON serializes the report as a single JSON object
// keys appear in slice order (ascending score)
func (r WeightedReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, entry := range r {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(entry.Language)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(entry.Score)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
