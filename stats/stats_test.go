package stats

import (
	"testing"

	"github.com/devmetrics/langstats/model"
	"github.com/stretchr/testify/assert"
)

// TestMerge will test function Merge
func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		maps     []model.LanguageMap
		expected model.LanguageMap
	}{
		{
			name:     "Empty input returns empty map",
			maps:     []model.LanguageMap{},
			expected: model.LanguageMap{},
		},
		{
			name:     "Single map is returned unchanged",
			maps:     []model.LanguageMap{{"Go": 300}},
			expected: model.LanguageMap{"Go": 300},
		},
		{
			name:     "Same language summed across maps",
			maps:     []model.LanguageMap{{"Go": 300}, {"Go": 700}},
			expected: model.LanguageMap{"Go": 1000},
		},
		{
			name:     "Disjoint languages are all kept",
			maps:     []model.LanguageMap{{"Python": 100}, {"Go": 1000}},
			expected: model.LanguageMap{"Python": 100, "Go": 1000},
		},
		{
			name:     "Empty maps do not change the result",
			maps:     []model.LanguageMap{{}, {"Rust": 50}, {}},
			expected: model.LanguageMap{"Rust": 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Merge(tt.maps...))
		})
	}
}

// TestMergeCommutativity checks that the input order never changes the result
func TestMergeCommutativity(t *testing.T) {
	a := model.LanguageMap{"Go": 100, "Python": 20}
	b := model.LanguageMap{"Go": 50, "HTML": 5}
	c := model.LanguageMap{"Python": 80}

	expected := Merge(a, b, c)

	assert.Equal(t, expected, Merge(c, b, a))
	assert.Equal(t, expected, Merge(b, a, c))

	// associativity: merging intermediate results gives the same map
	assert.Equal(t, expected, Merge(Merge(a, b), c))
	assert.Equal(t, expected, Merge(a, Merge(b, c)))
}

// TestPercentages will test function Percentages
func TestPercentages(t *testing.T) {
	tests := []struct {
		name          string
		user          model.UserLanguages
		expectedTotal int
		expectedLangs map[string]float64
	}{
		{
			name:          "Single language is the full total",
			user:          model.UserLanguages{Name: "alice", Langs: model.LanguageMap{"Python": 100}},
			expectedTotal: 100,
			expectedLangs: map[string]float64{"Python": 100.0},
		},
		{
			name:          "Aggregated repositories of one language",
			user:          model.UserLanguages{Name: "bob", Langs: model.LanguageMap{"Go": 1000}},
			expectedTotal: 1000,
			expectedLangs: map[string]float64{"Go": 100.0},
		},
		{
			name:          "Percentages are truncated not rounded",
			user:          model.UserLanguages{Name: "carol", Langs: model.LanguageMap{"Go": 1, "Python": 1, "HTML": 1}},
			expectedTotal: 3,
			expectedLangs: map[string]float64{"Go": 33.33, "Python": 33.33, "HTML": 33.33},
		},
		{
			name:          "Zero total yields an empty breakdown",
			user:          model.UserLanguages{Name: "dave", Langs: model.LanguageMap{}},
			expectedTotal: 0,
			expectedLangs: map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Percentages(tt.user)

			assert.Equal(t, tt.user.Name, result.Name)
			assert.Equal(t, tt.expectedTotal, result.Total)
			assert.Equal(t, tt.expectedLangs, result.Langs)
		})
	}
}

// TestPercentagesSumNeverExceedsHundred checks the truncation invariant
func TestPercentagesSumNeverExceedsHundred(t *testing.T) {
	user := model.UserLanguages{
		Name:  "alice",
		Langs: model.LanguageMap{"Go": 333, "Python": 333, "HTML": 333, "CSS": 1},
	}

	result := Percentages(user)

	sum := 0.0
	for _, percent := range result.Langs {
		sum += percent
	}

	assert.LessOrEqual(t, sum, 100.0)
}

// TestWeightedScores will test function WeightedScores
func TestWeightedScores(t *testing.T) {
	tests := []struct {
		name     string
		users    []model.UserPercent
		expected model.WeightedReport
	}{
		{
			name: "Two users with distinct languages sorted ascending",
			users: []model.UserPercent{
				{Name: "alice", Total: 100, Langs: map[string]float64{"Python": 100.0}},
				{Name: "bob", Total: 1000, Langs: map[string]float64{"Go": 100.0}},
			},
			expected: model.WeightedReport{
				{Language: "Python", Score: 2.86}, // log(100)/log(5) truncated
				{Language: "Go", Score: 4.29},     // log(1000)/log(5) truncated
			},
		},
		{
			name: "Scores below the threshold are dropped",
			users: []model.UserPercent{
				{Name: "alice", Total: 100, Langs: map[string]float64{"Python": 90.0, "Makefile": 10.0}},
			},
			expected: model.WeightedReport{
				// Makefile: 0.10 * 2.8613 = 0.28, filtered out
				{Language: "Python", Score: 2.57},
			},
		},
		{
			name: "Same language summed across users",
			users: []model.UserPercent{
				{Name: "alice", Total: 100, Langs: map[string]float64{"Go": 100.0}},
				{Name: "bob", Total: 100, Langs: map[string]float64{"Go": 100.0}},
			},
			expected: model.WeightedReport{
				{Language: "Go", Score: 5.72},
			},
		},
		{
			name: "User without any byte contributes nothing",
			users: []model.UserPercent{
				{Name: "ghost", Total: 0, Langs: map[string]float64{}},
				{Name: "alice", Total: 100, Langs: map[string]float64{"Python": 100.0}},
			},
			expected: model.WeightedReport{
				{Language: "Python", Score: 2.86},
			},
		},
		{
			name: "User with a single byte contributes zero through log(1)",
			users: []model.UserPercent{
				{Name: "tiny", Total: 1, Langs: map[string]float64{"Go": 100.0}},
			},
			expected: model.WeightedReport{},
		},
		{
			name:     "No user yields an empty report",
			users:    []model.UserPercent{},
			expected: model.WeightedReport{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeightedScores(tt.users))
		})
	}
}

// TestWeightedScoresMonotonicity checks that at a fixed percentage a bigger
// total byte count strictly increases the language contribution
func TestWeightedScoresMonotonicity(t *testing.T) {
	small := WeightedScores([]model.UserPercent{
		{Name: "alice", Total: 30, Langs: map[string]float64{"Go": 100.0}},
	})

	large := WeightedScores([]model.UserPercent{
		{Name: "alice", Total: 300, Langs: map[string]float64{"Go": 100.0}},
	})

	assert.Len(t, small, 1)
	assert.Len(t, large, 1)
	assert.Greater(t, large[0].Score, small[0].Score)
}

// TestWeightedScoresThreshold checks that no surviving entry is at or below the threshold
func TestWeightedScoresThreshold(t *testing.T) {
	users := []model.UserPercent{
		{Name: "alice", Total: 500, Langs: map[string]float64{"Go": 50.0, "Python": 30.0, "HTML": 12.0, "CSS": 5.0, "Makefile": 3.0}},
		{Name: "bob", Total: 7, Langs: map[string]float64{"Rust": 100.0}},
	}

	for _, entry := range WeightedScores(users) {
		assert.Greater(t, entry.Score, 0.500)
	}
}
