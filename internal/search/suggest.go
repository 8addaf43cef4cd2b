// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/civic-search/internal/normalize"
	"github.com/pdiddy/civic-search/internal/provider"
	"github.com/pdiddy/civic-search/internal/store"
	"github.com/pdiddy/civic-search/pkg/types"
)

// MinSuggestQuery is the shortest query that produces suggestions.
const MinSuggestQuery = 2

// Suggestion types.
const (
	SuggestionUser     = "user"
	SuggestionTag      = "tag"
	SuggestionCategory = "category"
)

// SuggestionSource answers the identity and tag lookups. *store.Store
// implements it.
type SuggestionSource interface {
	Identities(ctx context.Context, query string, limit int) ([]store.Entity, error)
	Tags(ctx context.Context, query string, limit int) ([]store.TagCount, error)
}

// Suggest returns autocomplete entries for a partial query: matching user
// identities, tags and categories, each capped at the configured per-source
// limit. Queries shorter than MinSuggestQuery characters return an empty
// list. A failing source contributes nothing.
func (s *Service) Suggest(ctx context.Context, query string) []types.Suggestion {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSuggestQuery {
		return []types.Suggestion{}
	}
	limit := s.cfg.SuggestionsPerSource

	sources := []func() ([]types.Suggestion, error){
		func() ([]types.Suggestion, error) { return s.identitySuggestions(ctx, query, limit) },
		func() ([]types.Suggestion, error) { return s.tagSuggestions(ctx, query, limit) },
		func() ([]types.Suggestion, error) { return categorySuggestions(query, limit), nil },
	}
	names := []string{SuggestionUser, SuggestionTag, SuggestionCategory}

	results := make([][]types.Suggestion, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src func() ([]types.Suggestion, error)) {
			defer wg.Done()
			out, err := src()
			if err != nil {
				s.log.Warn("Suggestion source failed",
					zap.String("source", names[i]),
					zap.String("query", query),
					zap.Error(err),
				)
				return
			}
			results[i] = out
		}(i, src)
	}
	wg.Wait()

	out := []types.Suggestion{}
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

func (s *Service) identitySuggestions(ctx context.Context, query string, limit int) ([]types.Suggestion, error) {
	if s.suggestions == nil {
		return nil, nil
	}
	users, err := s.suggestions.Identities(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]types.Suggestion, 0, len(users))
	for _, u := range users {
		value := u.Handle
		if value == "" {
			value = u.DisplayName
		}
		md := map[string]string{"id": u.ID}
		if u.DisplayName != "" {
			md["display_name"] = u.DisplayName
		}
		if u.Verified {
			md["verified"] = "true"
		}
		out = append(out, types.Suggestion{Type: SuggestionUser, Value: value, Metadata: md})
	}
	return capSuggestions(out, limit), nil
}

func (s *Service) tagSuggestions(ctx context.Context, query string, limit int) ([]types.Suggestion, error) {
	if s.suggestions == nil {
		return nil, nil
	}
	tags, err := s.suggestions.Tags(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]types.Suggestion, 0, len(tags))
	for _, t := range tags {
		out = append(out, types.Suggestion{
			Type:     SuggestionTag,
			Value:    "#" + t.Tag,
			Metadata: map[string]string{"count": strconv.Itoa(t.Count)},
		})
	}
	return capSuggestions(out, limit), nil
}

// categorySuggestions matches the query against category keys and labels.
func categorySuggestions(query string, limit int) []types.Suggestion {
	var out []types.Suggestion
	for _, c := range provider.Categories() {
		if normalize.Contains(c.Key, query) || normalize.Contains(c.Label, query) {
			out = append(out, types.Suggestion{
				Type:     SuggestionCategory,
				Value:    c.Label,
				Metadata: map[string]string{"key": c.Key},
			})
		}
	}
	return capSuggestions(out, limit)
}

func capSuggestions(in []types.Suggestion, limit int) []types.Suggestion {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}
