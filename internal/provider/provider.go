// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider retrieves content from one source each (local entity
// store, news API, video API) and hands the aggregator canonical, scored
// items.
//
// Every variant implements the narrow Fetcher interface. Guard wraps a
// Fetcher into a Provider and implements the degrade-to-synthetic policy in
// one place: a disabled, unconfigured, failing, slow, panicking or empty
// source is replaced by the Generator's fallback items, so Search never
// returns an error and never returns an empty list.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/pdiddy/civic-search/internal/logging"
	"github.com/pdiddy/civic-search/internal/metrics"
	"github.com/pdiddy/civic-search/internal/normalize"
	"github.com/pdiddy/civic-search/internal/score"
	"github.com/pdiddy/civic-search/pkg/types"
)

// Reasons a Guard falls back to synthetic content.
var (
	ErrDisabled      = errors.New("provider disabled")
	ErrNotConfigured = errors.New("provider missing credentials or backing store")
	ErrNoResults     = errors.New("upstream returned no results")
)

// errCallerGone marks a fetch that failed because the caller cancelled or
// its own deadline passed. The breaker does not count it against the
// upstream.
var errCallerGone = errors.New("caller went away")

// Params is the input of one provider call.
type Params struct {
	// Query is the raw, trimmed user query. Fetchers enhance it themselves.
	Query    string
	Category string

	MaxResults int
	Language   string

	// Region is the caller's requested region name; Local reports whether it
	// is the configured local default.
	Region string
	Local  bool
}

// Provider is a content source the aggregator can fan out to. Search never
// fails: on any problem it returns synthetic fallback items.
type Provider interface {
	Name() string
	Kind() types.Kind
	Search(ctx context.Context, p Params) []types.ContentItem
}

// Fetcher performs one source's retrieval. Fetch returns items before
// normalization and scoring; errors are handled by Guard.
type Fetcher interface {
	// Name is the provider ID used as the item ID prefix.
	Name() string
	Kind() types.Kind

	// Ready reports ErrDisabled or ErrNotConfigured when the fetcher cannot
	// run. It must not perform I/O.
	Ready() error

	Fetch(ctx context.Context, p Params) ([]types.ContentItem, error)

	// Profile returns the scoring inputs for the fetcher's real items.
	Profile() Profile
}

// Profile supplies a provider's base score and recency bonuses.
type Profile struct {
	// Base returns the starting score of an item.
	Base func(types.ContentItem) float64

	Recency score.RecencyProfile
}

// FlatBase returns a Base function that gives every item b.
func FlatBase(b float64) func(types.ContentItem) float64 {
	return func(types.ContentItem) float64 { return b }
}

// SyntheticProfile scores fallback items: a low base and no recency bonus,
// so real content outranks them.
var SyntheticProfile = Profile{Base: FlatBase(20), Recency: score.NoRecency}

// GuardOptions configures a Guard.
type GuardOptions struct {
	// Timeout bounds each Fetch call. Zero means no extra deadline.
	Timeout time.Duration

	// Breaker, when set, short-circuits calls while the upstream is failing.
	Breaker *gobreaker.CircuitBreaker

	// Now is the scoring clock. Defaults to time.Now.
	Now func() time.Time

	Logger *zap.Logger
}

// Guard turns a Fetcher into a Provider.
type Guard struct {
	fetcher Fetcher
	gen     Generator
	opts    GuardOptions
	log     *zap.Logger
}

// NewGuard wraps f. gen produces fallback items and must not be nil.
func NewGuard(f Fetcher, gen Generator, opts GuardOptions) *Guard {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Guard{
		fetcher: f,
		gen:     gen,
		opts:    opts,
		log:     logging.OrNop(opts.Logger).With(zap.String("provider", f.Name())),
	}
}

// Name returns the wrapped fetcher's name.
func (g *Guard) Name() string { return g.fetcher.Name() }

// Kind returns the wrapped fetcher's kind.
func (g *Guard) Kind() types.Kind { return g.fetcher.Kind() }

// Ready reports whether the wrapped fetcher can reach its source. A
// provider that is not ready serves fallback content only.
func (g *Guard) Ready() error { return g.fetcher.Ready() }

// Search fetches, normalizes and scores items, falling back to synthetic
// content when the fetch fails for any reason.
func (g *Guard) Search(ctx context.Context, p Params) []types.ContentItem {
	started := time.Now()
	if p.MaxResults <= 0 {
		p.MaxResults = 1
	}

	items, err := g.fetch(ctx, p)
	profile := g.fetcher.Profile()
	outcome := metrics.OutcomeOK
	if err != nil {
		g.log.Warn("Provider degraded to synthetic results",
			zap.String("query", p.Query),
			zap.Error(err),
		)
		items = g.gen.Generate(g.fetcher.Kind(), p, p.MaxResults)
		for i := range items {
			items[i].Synthetic = true
		}
		profile = SyntheticProfile
		outcome = metrics.OutcomeFallback
	}
	if len(items) > p.MaxResults {
		items = items[:p.MaxResults]
	}

	items = normalize.Items(g.fetcher.Name(), items)
	now := g.opts.Now()
	for i := range items {
		items[i].RelevanceScore = score.Score(items[i], p.Query, score.Context{
			Now:     now,
			Base:    profile.Base(items[i]),
			Recency: profile.Recency,
		})
	}

	metrics.ObserveProvider(g.fetcher.Name(), outcome, started)
	g.log.Debug("Provider finished",
		zap.String("outcome", outcome),
		zap.Int("items", len(items)),
		zap.Duration("took", time.Since(started)),
	)
	return items
}

type fetchResult struct {
	items []types.ContentItem
	err   error
}

// fetch runs the fetcher under the timeout and breaker. The fetch runs in
// its own goroutine so a fetcher that ignores its context still cannot hold
// up the aggregation past the deadline.
func (g *Guard) fetch(ctx context.Context, p Params) ([]types.ContentItem, error) {
	if err := g.fetcher.Ready(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parent := ctx
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: fmt.Errorf("provider panic: %v", r)}
			}
		}()
		items, err := g.call(ctx, parent, p)
		done <- fetchResult{items: items, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch abandoned: %w", ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if len(r.items) == 0 {
			return nil, ErrNoResults
		}
		return r.items, nil
	}
}

// call runs one fetch through the breaker. parent is the caller's context;
// a failure after it is done is reported as errCallerGone so that only the
// upstream's own failures and the Guard timeout trip the breaker.
func (g *Guard) call(ctx, parent context.Context, p Params) ([]types.ContentItem, error) {
	if g.opts.Breaker == nil {
		return g.fetcher.Fetch(ctx, p)
	}
	res, err := g.opts.Breaker.Execute(func() (interface{}, error) {
		items, err := g.fetcher.Fetch(ctx, p)
		if err != nil && parent.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errCallerGone, err)
		}
		return items, err
	})
	if err != nil {
		return nil, err
	}
	items, _ := res.([]types.ContentItem)
	return items, nil
}

// NewBreaker builds the circuit breaker for an external provider.
func NewBreaker(name string, cfg types.ProviderConfig, log *zap.Logger) *gobreaker.CircuitBreaker {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	log = logging.OrNop(log)
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("Provider circuit breaker state change",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}
