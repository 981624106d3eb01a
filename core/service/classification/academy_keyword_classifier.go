package classification

import (
	"strings"

	"academy_server/core/domain"
)

// =============================================================================
// Keyword Pattern Classifier
// =============================================================================

// ClassifyByKeywords assigns a category code from free text alone. Pure and
// case-insensitive. Categories are evaluated in the fixed priority order
// because their keyword sets overlap; the first match wins. Returns the
// empty code when no keyword set matches.
func ClassifyByKeywords(text string) domain.CategoryCode {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return ""
	}

	for _, code := range domain.CategoryPriority {
		for _, keyword := range domain.CategoryKeywords(code) {
			if strings.Contains(lower, keyword) {
				return code
			}
		}
	}
	return ""
}
