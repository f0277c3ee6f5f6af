// Package categorizer assigns categories to transactions by matching
// their descriptions against per-category keyword lists. Matching is
// deliberately simple: case-insensitive substring, first match wins, no
// scoring and no longest-match preference.
package categorizer

import (
	"strings"

	"github.com/ruslany/expense-tracker/internal/logging"
	"github.com/ruslany/expense-tracker/internal/models"
)

// Detector performs keyword-based category detection.
type Detector struct {
	logger logging.Logger
}

// New creates a Detector.
func New(logger logging.Logger) *Detector {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Detector{logger: logger}
}

// Detect returns the id of the first category whose keywords match the
// description. Categories are scanned in slice order and keywords in
// their stored order, so results are stable for a given category set.
// The second return is false when nothing matched.
func (d *Detector) Detect(description string, categories []models.Category) (int64, bool) {
	if strings.TrimSpace(description) == "" {
		return 0, false
	}
	lowered := strings.ToLower(description)

	for _, category := range categories {
		for _, keyword := range category.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				d.logger.WithFields(
					logging.Field{Key: logging.FieldKeyword, Value: keyword},
					logging.Field{Key: logging.FieldCategory, Value: category.Name},
				).Debug("Description matched category keyword")
				return category.ID, true
			}
		}
	}
	return 0, false
}

// ResolveName finds a category id by name, case-insensitively. Used for
// explicit category names carried by the CSV itself, which take
// precedence over keyword detection.
func ResolveName(name string, categories []models.Category) (int64, bool) {
	for _, category := range categories {
		if strings.EqualFold(category.Name, name) {
			return category.ID, true
		}
	}
	return 0, false
}
