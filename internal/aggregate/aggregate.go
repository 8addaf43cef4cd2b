// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate fans a search out to the content providers, merges the
// results into one ranked list and slices out the requested page.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/civic-search/internal/logging"
	"github.com/pdiddy/civic-search/internal/provider"
	"github.com/pdiddy/civic-search/internal/region"
	"github.com/pdiddy/civic-search/internal/score"
	"github.com/pdiddy/civic-search/pkg/types"
)

// ErrAggregation wraps failures in the merge, ranking or pagination stage.
var ErrAggregation = errors.New("aggregation failed")

// Request is the validated input of one aggregation.
type Request struct {
	Query    string
	Type     types.Kind
	Category string
	Region   string
	Language string
	Page     int
	PageSize int
}

// Result is one page of the merged result set.
type Result struct {
	Items []types.ContentItem

	// Total counts the merged, deduplicated items before pagination. Each
	// provider is asked for Quota items, which grows with the page number, so
	// Total is the number of items fetched for this page depth rather than a
	// count of every match. Fallback batches stop at 25 items per provider.
	Total int

	// Providers lists the providers that were queried, in fan-out order.
	Providers []string
}

// Aggregator merges results from a fixed provider set.
type Aggregator struct {
	providers   []provider.Provider
	prioritizer *region.Prioritizer
	log         *zap.Logger
}

// New returns an Aggregator over providers.
func New(providers []provider.Provider, p *region.Prioritizer, log *zap.Logger) *Aggregator {
	return &Aggregator{
		providers:   providers,
		prioritizer: p,
		log:         logging.OrNop(log),
	}
}

// Providers returns the configured providers.
func (a *Aggregator) Providers() []provider.Provider {
	return a.providers
}

// Select returns the providers serving kind. KindAll selects every provider.
func (a *Aggregator) Select(kind types.Kind) []provider.Provider {
	if kind == "" || kind == types.KindAll {
		return a.providers
	}
	var out []provider.Provider
	for _, p := range a.providers {
		if p.Kind() == kind {
			out = append(out, p)
		}
	}
	return out
}

// Quota returns how many items each provider is asked for. For KindAll
// every provider gets a quarter of the page, rounded up, times the page
// number, so later pages still have enough merged items to slice. A single
// kind asks for pageSize items per page.
func Quota(kind types.Kind, page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if kind == "" || kind == types.KindAll {
		return (pageSize + 3) / 4 * page
	}
	return pageSize * page
}

type providerResult struct {
	name  string
	items []types.ContentItem
}

// Aggregate runs the search. Provider failures never surface here: each
// provider degrades to fallback content on its own. Panics in the merge
// stage are returned as ErrAggregation.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("Aggregation panicked", zap.Any("panic", r))
			res = Result{}
			err = fmt.Errorf("%w: %v", ErrAggregation, r)
		}
	}()

	selected := a.Select(req.Type)
	local := a.prioritizer.IsLocal(req.Region)
	params := provider.Params{
		Query:      req.Query,
		Category:   req.Category,
		MaxResults: Quota(req.Type, req.Page, req.PageSize),
		Language:   req.Language,
		Region:     req.Region,
		Local:      local,
	}

	ch := make(chan providerResult, len(selected))
	var wg sync.WaitGroup
	for _, p := range selected {
		res.Providers = append(res.Providers, p.Name())
		wg.Add(1)
		go func(p provider.Provider) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					a.log.Error("Provider panicked outside its guard",
						zap.String("provider", p.Name()),
						zap.Any("panic", r),
					)
					ch <- providerResult{name: p.Name()}
				}
			}()
			ch <- providerResult{name: p.Name(), items: p.Search(ctx, params)}
		}(p)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.ContentItem
	for pr := range ch {
		all = append(all, pr.items...)
	}

	merged := deduplicate(all)
	if local {
		region.ApplyAffinity(merged)
	}
	ranked := a.prioritizer.Prioritize(merged, req.Region)

	res.Total = len(ranked)
	res.Items = paginate(ranked, req.Page, req.PageSize)

	a.log.Debug("Aggregation finished",
		zap.String("query", req.Query),
		zap.Strings("providers", res.Providers),
		zap.Int("total", res.Total),
		zap.Int("page_items", len(res.Items)),
	)
	return res, nil
}

// deduplicate keeps one item per ID: the higher-scoring one, preferring
// real over synthetic content on a tie. The result order is not significant.
func deduplicate(items []types.ContentItem) []types.ContentItem {
	seen := make(map[string]int, len(items))
	out := make([]types.ContentItem, 0, len(items))
	for _, it := range items {
		idx, ok := seen[it.ID]
		if !ok {
			seen[it.ID] = len(out)
			out = append(out, it)
			continue
		}
		if better(it, out[idx]) {
			out[idx] = it
		}
	}
	return out
}

func better(a, b types.ContentItem) bool {
	if a.RelevanceScore != b.RelevanceScore {
		return a.RelevanceScore > b.RelevanceScore
	}
	if a.Synthetic != b.Synthetic {
		return !a.Synthetic
	}
	return score.Less(a, b)
}

// paginate returns items[(page-1)*pageSize : page*pageSize], clipped. The
// result is never nil.
func paginate(items []types.ContentItem, page, pageSize int) []types.ContentItem {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return []types.ContentItem{}
	}
	skip := (page - 1) * pageSize
	if skip >= len(items) {
		return []types.ContentItem{}
	}
	end := min(skip+pageSize, len(items))
	out := make([]types.ContentItem, end-skip)
	copy(out, items[skip:end])
	return out
}
