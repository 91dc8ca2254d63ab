// Package projects holds the pure list operations pages apply on top of the
// cached collection.
package projects

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kevinmichaelchen/showcase/internal/models"
)

type SortKey string

const (
	SortStars   SortKey = "stars"
	SortUpdated SortKey = "updated"
)

// Filter keeps projects in category. All returns list as is; Open Source
// selects on the openSource flag rather than the category field.
func Filter(list []models.Project, category models.Category) []models.Project {
	switch category {
	case models.CategoryAll:
		return list
	case models.CategoryOpenSource:
		return keep(list, func(p models.Project) bool { return p.OpenSource })
	default:
		return keep(list, func(p models.Project) bool { return p.Category == category })
	}
}

// Sort returns a stably sorted copy. Pinned projects come first in pin order;
// the rest follow by stars or last update, newest first.
func Sort(list []models.Project, by SortKey, pinnedOrder map[string]int) []models.Project {
	out := make([]models.Project, len(list))
	copy(out, list)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ai, aPinned := pinnedOrder[a.Name]
		bi, bPinned := pinnedOrder[b.Name]

		if aPinned || bPinned {
			if !aPinned {
				return false
			}
			if !bPinned {
				return true
			}
			return ai < bi
		}

		if by == SortStars {
			return a.Stars > b.Stars
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	})
	return out
}

// Search matches term against display name, repo name and tags, ignoring
// case. An empty term matches everything.
func Search(list []models.Project, term string) []models.Project {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list
	}
	return keep(list, func(p models.Project) bool {
		if strings.Contains(strings.ToLower(p.DisplayName), term) ||
			strings.Contains(strings.ToLower(p.Name), term) {
			return true
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				return true
			}
		}
		return false
	})
}

// Limit returns at most n projects; n <= 0 means no limit.
func Limit(list []models.Project, n int) []models.Project {
	if n <= 0 || n >= len(list) {
		return list
	}
	return list[:n]
}

// ParseCategory accepts a category name in any case, plus "open-source" and
// the empty string for All.
func ParseCategory(s string) (models.Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return models.CategoryAll, nil
	case "frontend":
		return models.CategoryFrontend, nil
	case "backend":
		return models.CategoryBackend, nil
	case "fullstack":
		return models.CategoryFullstack, nil
	case "open source", "open-source", "opensource":
		return models.CategoryOpenSource, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortUpdated:
		return SortUpdated, nil
	case SortStars:
		return SortStars, nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

func keep(list []models.Project, pred func(models.Project) bool) []models.Project {
	out := make([]models.Project, 0, len(list))
	for _, p := range list {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
