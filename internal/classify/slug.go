package classify

import (
	"strings"

	"github.com/kevinmichaelchen/showcase/internal/models"
)

// Slugify lower-cases s and collapses every run of characters outside
// [a-z0-9] into a single dash.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// Tone maps a free-form status label to a badge tone. Norwegian labels are
// recognized alongside English ones.
func Tone(status string) models.StatusTone {
	if status == "" {
		return models.ToneDefault
	}
	s := strings.ToLower(status)
	switch {
	case containsAny(s, "progress", "pagar", "pågår"):
		return models.ToneWarning
	case containsAny(s, "complete", "done", "fullfort", "fullført", "ferdig"):
		return models.ToneSuccess
	}
	return models.ToneDefault
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
