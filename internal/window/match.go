package window

import (
	"strings"

	"github.com/bdougie/pagecap/internal/models"
)

// MatchTitle finds the registry entry for title, ignoring case and surrounding space.
// An exact match wins; otherwise the first entry where either title contains the other.
// Entries with an empty title are skipped.
func MatchTitle(title string, registry []models.WindowRef) (models.WindowRef, bool) {
	want := normalize(title)
	if want == "" {
		return models.WindowRef{}, false
	}

	for _, w := range registry {
		if normalize(w.Title) == want {
			return w, true
		}
	}
	for _, w := range registry {
		name := normalize(w.Title)
		if name == "" {
			continue
		}
		if strings.Contains(want, name) || strings.Contains(name, want) {
			return w, true
		}
	}
	return models.WindowRef{}, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
