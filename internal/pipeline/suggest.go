package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/kevinmichaelchen/showcase/internal/github"
	"github.com/kevinmichaelchen/showcase/internal/models"
	"github.com/kevinmichaelchen/showcase/internal/profile"
	"golang.org/x/sync/errgroup"
)

// Suggester drafts an override for one repository.
type Suggester interface {
	Suggest(ctx context.Context, repo models.RawRepo) (*models.Override, error)
}

// Undescribed returns visible repos that have no override in p.
func Undescribed(repos []models.RawRepo, p *profile.Profile) []models.RawRepo {
	reg := profile.NewRegistry(p)
	var out []models.RawRepo
	for _, r := range reg.FilterHidden(repos) {
		if reg.Override(r.Name) == nil {
			out = append(out, r)
		}
	}
	return out
}

// SuggestOverrides fetches the account's repos and asks s for an override for
// each one the profile does not describe yet. Failed suggestions are warned
// and skipped. The result keeps the fetch order.
func SuggestOverrides(ctx context.Context, f github.Fetcher, p *profile.Profile, account string, s Suggester) ([]models.Override, error) {
	repos, err := f.FetchRepos(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("fetching repos for %s: %w", account, err)
	}

	todo := Undescribed(repos, p)
	if len(todo) == 0 {
		fmt.Println("Every repo already has an override")
		return nil, nil
	}
	fmt.Printf("Suggesting overrides for %d repos...\n", len(todo))

	results := make([]*models.Override, len(todo))
	var done atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(5)

	for i, repo := range todo {
		i, repo := i, repo
		g.Go(func() error {
			o, err := s.Suggest(gCtx, repo)
			if err != nil {
				fmt.Printf("  WARN: %v\n", err)
				return nil // continue with other repos
			}
			results[i] = o

			n := done.Add(1)
			if n%10 == 0 || int(n) == len(todo) {
				fmt.Printf("  Suggested %d/%d\n", n, len(todo))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.Override, 0, done.Load())
	for _, o := range results {
		if o != nil {
			out = append(out, *o)
		}
	}
	return out, nil
}
