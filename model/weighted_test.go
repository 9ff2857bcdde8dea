package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestWeightedReportMarshalJSON checks that the entry order is preserved in the JSON object
func TestWeightedReportMarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		report   WeightedReport
		expected string
	}{
		{
			name:     "Empty report marshals to an empty object",
			report:   WeightedReport{},
			expected: `{}`,
		},
		{
			name: "Entries keep ascending score order",
			report: WeightedReport{
				{Language: "Python", Score: 2.86},
				{Language: "Go", Score: 4.29},
			},
			expected: `{"Python":2.86,"Go":4.29}`,
		},
		{
			name: "Language names are escaped as JSON strings",
			report: WeightedReport{
				{Language: `F#`, Score: 1.5},
				{Language: `C++`, Score: 2.5},
			},
			expected: `{"F#":1.5,"C++":2.5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := json.Marshal(tt.report)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, string(content))
		})
	}
}
