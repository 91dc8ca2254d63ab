// Package classify infers display metadata for repositories that have no
// manual override.
package classify

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kevinmichaelchen/showcase/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const noLicenseAsserted = "NOASSERTION"

var (
	frontendTags   = []string{"frontend", "ui", "react", "web", "landing", "design"}
	backendTags    = []string{"backend", "api", "server", "database", "ops"}
	fullstackTags  = []string{"fullstack", "full-stack", "platform"}
	openSourceTags = []string{"open-source", "opensource", "oss"}

	frontendLanguages = []string{"html", "css", "javascript", "typescript"}
)

// NormalizeTopics lower-cases topics. The result is never nil.
func NormalizeTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		out = append(out, strings.ToLower(t))
	}
	return out
}

// InferCategory always returns a concrete category. topics must already be
// normalized.
func InferCategory(topics []string, repo models.RawRepo) models.Category {
	hasFull := intersects(topics, fullstackTags)
	hasFront := intersects(topics, frontendTags)
	hasBack := intersects(topics, backendTags)

	switch {
	case hasFull || (hasFront && hasBack):
		return models.CategoryFullstack
	case hasFront:
		return models.CategoryFrontend
	case hasBack:
		return models.CategoryBackend
	}

	if repo.Language != nil && slices.Contains(frontendLanguages, strings.ToLower(*repo.Language)) {
		return models.CategoryFrontend
	}
	return models.CategoryFullstack
}

// InferOpenSource reports an open-source topic, or failing that a license
// that is present and asserted.
func InferOpenSource(topics []string, repo models.RawRepo) bool {
	if intersects(topics, openSourceTags) {
		return true
	}
	id := repo.LicenseID()
	return id != "" && id != noLicenseAsserted
}

// BuildTags prefers override tags, then up to three title-cased topics, then
// the primary language.
func BuildTags(override *models.Override, repo models.RawRepo, topics []string) []string {
	if override != nil && len(override.Tags) > 0 {
		return override.Tags
	}
	if len(topics) > 0 {
		n := min(len(topics), 3)
		tags := make([]string, 0, n)
		for _, t := range topics[:n] {
			tags = append(tags, Titleize(t))
		}
		return tags
	}
	if repo.Language != nil && *repo.Language != "" {
		return []string{*repo.Language}
	}
	return []string{}
}

// Titleize turns a kebab-case topic into words: "google-sheets" becomes
// "Google Sheets". Only the first rune of each word is upper-cased, so
// "3d-printing" stays "3d Printing".
func Titleize(topic string) string {
	upper := cases.Upper(language.English)
	words := strings.Split(topic, "-")
	for i, w := range words {
		_, n := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:n]) + w[n:]
	}
	return strings.Join(words, " ")
}

func intersects(topics, set []string) bool {
	for _, t := range topics {
		if slices.Contains(set, t) {
			return true
		}
	}
	return false
}
