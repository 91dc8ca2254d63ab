package profile

import (
	"strings"

	"github.com/kevinmichaelchen/showcase/internal/models"
)

// Registry is the read-only lookup built from a profile's override lists.
type Registry struct {
	overrides   map[string]*models.Override
	pinnedOrder map[string]int
	hidden      map[string]bool
}

func NewRegistry(p *Profile) *Registry {
	r := &Registry{
		overrides:   make(map[string]*models.Override, len(p.PinnedProjects)+len(p.Overrides)),
		pinnedOrder: make(map[string]int, len(p.PinnedProjects)),
		hidden:      make(map[string]bool, len(p.HiddenProjects)),
	}
	for i := range p.PinnedProjects {
		o := &p.PinnedProjects[i]
		r.overrides[o.Repo] = o
		r.pinnedOrder[o.Repo] = i
	}
	for i := range p.Overrides {
		o := &p.Overrides[i]
		r.overrides[o.Repo] = o
	}
	for _, name := range p.HiddenProjects {
		r.hidden[strings.ToLower(name)] = true
	}
	return r
}

// Override returns the override for a repo name, or nil.
func (r *Registry) Override(name string) *models.Override {
	return r.overrides[name]
}

// PinIndex returns the repo's position in the pinned list.
func (r *Registry) PinIndex(name string) (int, bool) {
	i, ok := r.pinnedOrder[name]
	return i, ok
}

// PinnedOrder returns a copy of the pin index map.
func (r *Registry) PinnedOrder() map[string]int {
	out := make(map[string]int, len(r.pinnedOrder))
	for k, v := range r.pinnedOrder {
		out[k] = v
	}
	return out
}

// Hidden reports whether name is on the hidden list, ignoring case.
func (r *Registry) Hidden(name string) bool {
	return r.hidden[strings.ToLower(name)]
}

// FilterHidden returns repos without the hidden ones. The input is not
// modified.
func (r *Registry) FilterHidden(repos []models.RawRepo) []models.RawRepo {
	if len(r.hidden) == 0 {
		return repos
	}
	out := make([]models.RawRepo, 0, len(repos))
	for _, repo := range repos {
		if !r.Hidden(repo.Name) {
			out = append(out, repo)
		}
	}
	return out
}
