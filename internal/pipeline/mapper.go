package pipeline

import (
	"strconv"

	"github.com/kevinmichaelchen/showcase/internal/classify"
	"github.com/kevinmichaelchen/showcase/internal/models"
	"github.com/kevinmichaelchen/showcase/internal/profile"
)

// Mapper derives a Project from a raw repo, applying any override and
// inferring what the override leaves out.
type Mapper struct {
	Registry *profile.Registry
	Labels   profile.Labels
}

func (m Mapper) Project(repo models.RawRepo) models.Project {
	o := m.Registry.Override(repo.Name)
	topics := classify.NormalizeTopics(repo.Topics)
	_, pinned := m.Registry.PinIndex(repo.Name)

	p := models.Project{
		ID:           repo.ID,
		Name:         repo.Name,
		DisplayName:  repo.Name,
		Description:  m.Labels.NoDescription,
		URL:          repo.URL,
		Language:     deref(repo.Language),
		Stars:        repo.Stars,
		Forks:        repo.Forks,
		UpdatedAt:    repo.UpdatedAt,
		UpdatedLabel: m.formatDate(repo),
		Topics:       topics,
		Tags:         classify.BuildTags(o, repo, topics),
		Category:     classify.InferCategory(topics, repo),
		OpenSource:   classify.InferOpenSource(topics, repo),
		Pinned:       pinned,
	}

	if d := deref(repo.Description); d != "" {
		p.Description = d
	}
	if h := deref(repo.Homepage); h != "" {
		p.DemoURL = h
	}

	slugSource := repo.Name
	if o != nil {
		if o.DisplayName != "" {
			p.DisplayName = o.DisplayName
			slugSource = o.DisplayName
		}
		if o.Description != "" {
			p.Description = o.Description
		}
		if o.DemoURL != "" {
			p.DemoURL = o.DemoURL
		}
		if o.Category != "" {
			p.Category = o.Category
		}
		if o.OpenSource != nil {
			p.OpenSource = *o.OpenSource
		}
		if o.Featured != nil {
			p.Featured = *o.Featured
		}
		p.LongDescription = o.LongDescription
		p.Status = o.Status
	}
	p.StatusTone = classify.Tone(p.Status)

	p.Slug = classify.Slugify(slugSource)
	if p.Slug == "" {
		p.Slug = "project-" + strconv.FormatInt(repo.ID, 10)
	}
	return p
}

func (m Mapper) formatDate(repo models.RawRepo) string {
	if repo.UpdatedAt.IsZero() {
		return ""
	}
	return repo.UpdatedAt.Format(m.Labels.DateLayout)
}

// uniqueSlugs suffixes repeated slugs with -2, -3, ... so every project in
// the collection can be addressed. Earlier entries keep the plain slug.
func uniqueSlugs(list []models.Project) {
	taken := make(map[string]bool, len(list))
	for i := range list {
		base := list[i].Slug
		slug := base
		for n := 2; taken[slug]; n++ {
			slug = base + "-" + strconv.Itoa(n)
		}
		taken[slug] = true
		list[i].Slug = slug
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
