package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/devmetrics/langstats/model"
	log "github.com/sirupsen/logrus"
)

// artifact file names, written in this order
const (
	ByNameFile        = "by_name.json"
	TotalFile         = "total.json"
	PercentByNameFile = "percent_by_name.json"
	WeightedFile      = "weighted.json"
)

// jsonIndent is 3 spaces to match the historical artifact format
const jsonIndent = "   "

type Writer struct {
	directory string
}

func NewWriter(directory string) Writer {
	return Writer{directory: directory}
}

// WriteAll persists the four report artifacts
// the destination directory is created if absent
// there is no atomic write: a failure mid-sequence leaves the files
// already written intact and aborts the remaining ones
func (w Writer) WriteAll(byName []model.UserLanguages, total model.LanguageMap, percents []model.UserPercent, weighted model.WeightedReport) error {
	if err := os.MkdirAll(w.directory, 0o755); err != nil {
		return err
	}

	if err := w.writeJSON(ByNameFile, byName); err != nil {
		return err
	}

	if err := w.writeJSON(TotalFile, total); err != nil {
		return err
	}

	if err := w.writeJSON(PercentByNameFile, percents); err != nil {
		return err
	}

	return w.writeJSON(WeightedFile, weighted)
}

func (w Writer) writeJSON(name string, data interface{}) error {
	content, err := json.MarshalIndent(data, "", jsonIndent)

	if err != nil {
		return err
	}

	path := filepath.Join(w.directory, name)

	log.WithField("file", path).Debug("writing report artifact")

	return os.WriteFile(path, content, 0o644)
}
