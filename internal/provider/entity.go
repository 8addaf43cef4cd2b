// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/civic-search/internal/region"
	"github.com/pdiddy/civic-search/internal/score"
	"github.com/pdiddy/civic-search/internal/store"
	"github.com/pdiddy/civic-search/pkg/types"
)

const entityBase = 50.0

// EntitySearcher is the internal record-retrieval capability: substring
// search over public records of one kind. *store.Store implements it.
type EntitySearcher interface {
	Search(ctx context.Context, kind types.Kind, query string, limit int) ([]store.Entity, error)
}

// EntityFetcher serves locally owned records of one kind.
type EntityFetcher struct {
	kind       types.Kind
	name       string
	searcher   EntitySearcher
	classifier *region.Classifier
}

// NewEntityFetcher returns a fetcher for kind. A nil searcher makes the
// fetcher report ErrNotConfigured.
func NewEntityFetcher(kind types.Kind, searcher EntitySearcher, c *region.Classifier) *EntityFetcher {
	return &EntityFetcher{
		kind:       kind,
		name:       string(kind) + "s",
		searcher:   searcher,
		classifier: c,
	}
}

// Name returns the provider ID ("posts", "users").
func (f *EntityFetcher) Name() string { return f.name }

// Kind returns the served kind.
func (f *EntityFetcher) Kind() types.Kind { return f.kind }

// Ready reports ErrNotConfigured when no store is attached.
func (f *EntityFetcher) Ready() error {
	if f.searcher == nil {
		return ErrNotConfigured
	}
	return nil
}

// Profile gives local records a flat base.
func (f *EntityFetcher) Profile() Profile {
	return Profile{Base: FlatBase(entityBase), Recency: score.DefaultRecency}
}

// Fetch searches the store. Local records are matched by substring, so
// the raw query is used without enhancement; a category narrows results to
// records tagged with it.
func (f *EntityFetcher) Fetch(ctx context.Context, p Params) ([]types.ContentItem, error) {
	limit := p.MaxResults
	if p.Category != "" {
		// Over-fetch so tag filtering can still fill the request.
		limit *= 3
	}
	entities, err := f.searcher.Search(ctx, f.kind, p.Query, limit)
	if err != nil {
		return nil, fmt.Errorf("entity store: %w", err)
	}

	items := make([]types.ContentItem, 0, len(entities))
	for _, e := range entities {
		if p.Category != "" && !hasTag(e.Tags, p.Category) {
			continue
		}
		items = append(items, f.normalizeEntity(e))
	}
	return items, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (f *EntityFetcher) normalizeEntity(e store.Entity) types.ContentItem {
	it := types.ContentItem{
		ID:         e.ID,
		Kind:       e.Kind,
		Title:      e.Title,
		Body:       e.Body,
		Handle:     e.Handle,
		SourceName: e.SourceName,
		URL:        e.URL,
		Tags:       e.Tags,
		Timestamp:  e.CreatedAt,
		Region:     e.Region,
		Verified:   e.Verified,
		Featured:   e.Featured,
		Engagement: types.Engagement{
			Views:    types.Count(e.Views),
			Likes:    types.Count(e.Likes),
			Comments: types.Count(e.Comments),
		},
	}
	if e.Kind == types.KindUser && e.DisplayName != "" {
		it.Title = e.DisplayName
		it.Summary = e.Body
	}
	if it.SourceName == "" {
		it.SourceName = sourceNames[e.Kind]
	}
	if it.URL == "" {
		it.URL = localURL(e)
	}
	if !it.Region.Valid() && f.classifier != nil {
		it.Region = f.classifier.Classify(e.Title, e.Body, e.SourceName)
	}
	return it
}

func localURL(e store.Entity) string {
	if e.Kind == types.KindUser && e.Handle != "" {
		return "/users/" + url.PathEscape(strings.TrimPrefix(e.Handle, "@"))
	}
	return "/" + string(e.Kind) + "s/" + url.PathEscape(e.ID)
}
