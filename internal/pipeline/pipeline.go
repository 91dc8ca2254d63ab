// Package pipeline turns an account's GitHub repositories into the cached,
// sorted project collection the site renders.
package pipeline

import (
	"context"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kevinmichaelchen/showcase/internal/cache"
	"github.com/kevinmichaelchen/showcase/internal/github"
	"github.com/kevinmichaelchen/showcase/internal/models"
	"github.com/kevinmichaelchen/showcase/internal/profile"
	"github.com/kevinmichaelchen/showcase/internal/projects"
	"golang.org/x/sync/singleflight"
)

// Snapshot is what the cache holds between refreshes.
type Snapshot struct {
	Projects []models.Project
	Source   models.Source
}

type Option func(*Engine)

// WithAccount reads a different account than the profile names.
func WithAccount(account string) Option {
	return func(e *Engine) {
		if account != "" {
			e.account = account
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

type Engine struct {
	fetcher  github.Fetcher
	profile  *profile.Profile
	registry *profile.Registry
	mapper   Mapper
	cache    *cache.Cache[Snapshot]
	ttl      time.Duration
	account  string
	logger   *log.Logger

	group    singleflight.Group
	inflight atomic.Int32
}

// New builds an engine for one profile. The cache is owned by the caller so
// its lifetime can span the process.
func New(f github.Fetcher, p *profile.Profile, c *cache.Cache[Snapshot], ttl time.Duration, opts ...Option) *Engine {
	reg := profile.NewRegistry(p)
	e := &Engine{
		fetcher:  f,
		profile:  p,
		registry: reg,
		mapper:   Mapper{Registry: reg, Labels: p.Labels},
		cache:    c,
		ttl:      ttl,
		account:  p.GitHubUsername,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type refreshResult struct {
	snap Snapshot
	err  string
}

// Projects returns the project collection, refreshing it when the cached
// snapshot is missing or stale. Concurrent callers share one refresh. A fetch
// failure is not an error: the state falls back to the sample catalog and
// carries the failure message. The only error returned is ctx.Err() when the
// caller gives up; the refresh still completes and fills the cache.
func (e *Engine) Projects(ctx context.Context) (models.State, error) {
	key := e.cacheKey()
	if snap, _, ok := e.cache.Get(key, e.ttl); ok {
		return stateOf(snap, ""), nil
	}

	detached := context.WithoutCancel(ctx)
	ch := e.group.DoChan(key, func() (any, error) {
		e.inflight.Add(1)
		defer e.inflight.Add(-1)

		// A refresh may have landed between the miss above and joining the group.
		if snap, _, ok := e.cache.Get(key, e.ttl); ok {
			return refreshResult{snap: snap}, nil
		}
		return e.refresh(detached, key), nil
	})

	select {
	case <-ctx.Done():
		return models.State{}, ctx.Err()
	case res := <-ch:
		r := res.Val.(refreshResult)
		return stateOf(r.snap, r.err), nil
	}
}

// Current reports the state without blocking: success with the cached
// projects when fresh, loading while a refresh runs, idle otherwise.
func (e *Engine) Current() models.State {
	if snap, _, ok := e.cache.Get(e.cacheKey(), e.ttl); ok {
		return stateOf(snap, "")
	}
	if e.inflight.Load() > 0 {
		return models.State{Status: models.StatusLoading, Source: models.SourceGitHub, Projects: []models.Project{}}
	}
	return models.State{Status: models.StatusIdle, Source: models.SourceGitHub, Projects: []models.Project{}}
}

// Invalidate drops the cached snapshot so the next call refreshes.
func (e *Engine) Invalidate() {
	e.cache.Invalidate()
}

func (e *Engine) Profile() *profile.Profile {
	return e.profile
}

func (e *Engine) Account() string {
	return e.account
}

// PinnedOrder maps pinned repo names to their pin index. The map is a copy.
func (e *Engine) PinnedOrder() map[string]int {
	return e.registry.PinnedOrder()
}

// View indexes a collection for detail lookups and re-sorting.
type View struct {
	BySlug      map[string]models.Project
	PinnedOrder map[string]int
}

func (e *Engine) View(list []models.Project) View {
	bySlug := make(map[string]models.Project, len(list))
	for _, p := range list {
		bySlug[p.Slug] = p
	}
	return View{BySlug: bySlug, PinnedOrder: e.PinnedOrder()}
}

// Lookup finds a project by slug in the current collection.
func (e *Engine) Lookup(ctx context.Context, slug string) (models.Project, bool, error) {
	state, err := e.Projects(ctx)
	if err != nil {
		return models.Project{}, false, err
	}
	p, ok := e.View(state.Projects).BySlug[slug]
	return p, ok, nil
}

func (e *Engine) refresh(ctx context.Context, key string) refreshResult {
	fallback := e.registry.FilterHidden(e.profile.SampleProjects)

	repos, err := e.fetcher.FetchRepos(ctx, e.account)
	if err != nil {
		e.logger.Printf("WARN: fetching repos for %s failed (%v), using %d sample projects", e.account, err, len(fallback))
		snap := Snapshot{Projects: e.build(fallback), Source: models.SourceSample}
		e.cache.Set(key, snap)
		return refreshResult{snap: snap, err: err.Error()}
	}

	merged := MergeMissing(e.registry.FilterHidden(repos), fallback)
	snap := Snapshot{Projects: e.build(merged), Source: models.SourceGitHub}
	e.cache.Set(key, snap)
	e.logger.Printf("Fetched %d repos for %s (%d projects after merge)", len(repos), e.account, len(snap.Projects))
	return refreshResult{snap: snap}
}

func (e *Engine) build(repos []models.RawRepo) []models.Project {
	mapped := make([]models.Project, 0, len(repos))
	for _, r := range repos {
		mapped = append(mapped, e.mapper.Project(r))
	}
	sorted := projects.Sort(mapped, projects.SortUpdated, e.PinnedOrder())
	uniqueSlugs(sorted)
	return sorted
}

func (e *Engine) cacheKey() string {
	return strings.ToLower(e.account)
}

// MergeMissing keeps every fetched repo and appends fallback repos whose name
// (ignoring case) was not fetched.
func MergeMissing(fetched, fallback []models.RawRepo) []models.RawRepo {
	existing := make(map[string]bool, len(fetched))
	for _, r := range fetched {
		existing[r.LowerName()] = true
	}
	out := make([]models.RawRepo, 0, len(fetched)+len(fallback))
	out = append(out, fetched...)
	for _, r := range fallback {
		if !existing[r.LowerName()] {
			out = append(out, r)
		}
	}
	return out
}

func stateOf(snap Snapshot, errMsg string) models.State {
	return models.State{
		Status:   models.StatusSuccess,
		Source:   snap.Source,
		Projects: snap.Projects,
		Error:    errMsg,
	}
}
