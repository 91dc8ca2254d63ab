package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenk/backoff"
	"github.com/kevinmichaelchen/showcase/internal/models"
	circuit "github.com/rubyist/circuitbreaker"
)

// ErrUpstreamDown is returned without contacting GitHub while the breaker is
// open.
var ErrUpstreamDown = errors.New("github API unavailable")

// Fetcher retrieves the raw repository list for one account. Every failure
// is reported the same way; callers do not distinguish rate limits from
// network or decode errors.
type Fetcher interface {
	FetchRepos(ctx context.Context, account string) ([]models.RawRepo, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, account string) ([]models.RawRepo, error)

func (f FetcherFunc) FetchRepos(ctx context.Context, account string) ([]models.RawRepo, error) {
	return f(ctx, account)
}

// BreakerFetcher stops calling GitHub after repeated failures so a refresh
// can fall back immediately instead of waiting on a dead upstream. It never
// retries.
type BreakerFetcher struct {
	next    Fetcher
	breaker *circuit.Breaker
}

// BreakerOption tunes the breaker, mostly for tests.
type BreakerOption func(*circuit.Options)

// WithTripThreshold sets the number of consecutive failures that open the
// breaker. The count only resets on a success, so failures spread further
// apart than the breaker's rolling window still add up.
func WithTripThreshold(n int64) BreakerOption {
	return func(o *circuit.Options) {
		o.ShouldTrip = circuit.ConsecutiveTripFunc(n)
	}
}

// WithWindow sets the breaker's rolling window for its failure and success
// counters.
func WithWindow(d time.Duration) BreakerOption {
	return func(o *circuit.Options) {
		o.WindowTime = d
	}
}

// WithCooldown sets the first wait before a half-open probe.
func WithCooldown(initial, maxInterval time.Duration) BreakerOption {
	return func(o *circuit.Options) {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = initial
		b.MaxInterval = maxInterval
		b.Multiplier = 2.0
		b.Reset()
		o.BackOff = b
	}
}

// NewBreakerFetcher trips after 5 consecutive failures and waits 30s, then
// exponentially up to 5m, before letting a probe through.
func NewBreakerFetcher(next Fetcher, opts ...BreakerOption) *BreakerFetcher {
	o := &circuit.Options{}
	WithTripThreshold(5)(o)
	WithCooldown(30*time.Second, 5*time.Minute)(o)
	for _, opt := range opts {
		opt(o)
	}
	return &BreakerFetcher{
		next:    next,
		breaker: circuit.NewBreakerWithOptions(o),
	}
}

func (b *BreakerFetcher) FetchRepos(ctx context.Context, account string) ([]models.RawRepo, error) {
	var repos []models.RawRepo
	err := b.breaker.Call(func() error {
		var fetchErr error
		repos, fetchErr = b.next.FetchRepos(ctx, account)
		return fetchErr
	}, 0)
	if errors.Is(err, circuit.ErrBreakerOpen) {
		return nil, fmt.Errorf("circuit breaker open: %w", ErrUpstreamDown)
	}
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// State reports "open" or "closed" for health checks.
func (b *BreakerFetcher) State() string {
	if b.breaker.Tripped() {
		return "open"
	}
	return "closed"
}
