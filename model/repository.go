package model

// LanguageMap associates a language name with the number of bytes of code
// written in that language. Values are always >= 0.
type LanguageMap map[string]int

type RepositoryRef struct {
	ID               int64   `json:"-"` // ignored from json, only used to match languages results
	FullName         string  `json:"fullName"`
	Owner            string  `json:"owner"`
	Repository       string  `json:"repository"`
	MostUsedLanguage *string `json:"-"`
}

// RepositoryLanguages is the result of fetching languages for a single repository
// Recovered is set when the fetch failed and was downgraded to an empty map
// so callers can distinguish "repository has no languages" from "fetch failed"
type RepositoryLanguages struct {
	RepositoryID int64
	Languages    LanguageMap
	Recovered    bool
	Reason       string
}

type UserLanguages struct {
	Name  string      `json:"name"`
	Langs LanguageMap `json:"langs"`
}

// UserPercent is the percentage breakdown for a single user
// percentages are truncated to two decimals, 100.0 means 100%
type UserPercent struct {
	Name  string             `json:"name"`
	Total int                `json:"TOTAL"`
	Langs map[string]float64 `json:"langs"`
}
