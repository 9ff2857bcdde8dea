package stats

import (
	"math"
	"sort"

	"github.com/devmetrics/langstats/model"
)

// weighted entries with a score at or below this threshold are dropped from the final report
const weightedScoreThreshold = 0.500

// Merge sums a sequence of language maps into a single map
// a key missing from an input map counts as 0, so the operation is
// commutative and associative and an empty input yields an empty map
func Merge(maps ...model.LanguageMap) model.LanguageMap {
	merged := model.LanguageMap{}

	for _, m := range maps {
		for language, bytes := range m {
			merged[language] += bytes
		}
	}

	return merged
}

// Percentages converts a user's byte counts into a percentage breakdown of that user total
// each percentage is truncated (not rounded) to two decimals, so the sum can be slightly below 100
// a user with no bytes at all gets a zero total and an empty breakdown instead of dividing by zero
func Percentages(user model.UserLanguages) model.UserPercent {
	total := 0

	for _, bytes := range user.Langs {
		total += bytes
	}

	percents := make(map[string]float64, len(user.Langs))

	if total > 0 {
		for language, bytes := range user.Langs {
			percents[language] = math.Floor(float64(bytes)/float64(total)*10_000) / 100
		}
	}

	return model.UserPercent{
		Name:  user.Name,
		Total: total,
		Langs: percents,
	}
}

// WeightedScores combines all users percentage breakdowns into a single ranking
// each user's contribution for a language is its fractional share scaled by
// log base 5 of the user total byte count, so a language backed by a large
// body of code outweighs the same share backed by a few bytes
// summed scores are truncated to two decimals, sorted ascending and filtered
// to keep only entries strictly above the threshold
func WeightedScores(users []model.UserPercent) model.WeightedReport {
	scores := map[string]float64{}

	for _, user := range users {

		// log(0) is -Inf: a user without any byte of code cannot contribute
		// a user with exactly one byte contributes 0 through log(1)
		if user.Total <= 0 {
			continue
		}

		weight := math.Log(float64(user.Total)) / math.Log(5)

		for language, percent := range user.Langs {
			scores[language] += percent / 100 * weight
		}
	}

	report := make(model.WeightedReport, 0, len(scores))

	for language, score := range scores {
		truncated := math.Floor(score*100) / 100

		if truncated > weightedScoreThreshold {
			report = append(report, model.WeightedEntry{Language: language, Score: truncated})
		}
	}

	// ascending by score, ties broken on language name to keep the output deterministic
	sort.Slice(report, func(i, j int) bool {
		if report[i].Score != report[j].Score {
			return report[i].Score < report[j].Score
		}
		return report[i].Language < report[j].Language
	})

	return report
}
