// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search is the entry point of a universal search: it validates
// and normalizes caller input, runs the aggregation and shapes the response
// envelope. It also serves autocomplete suggestions.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/civic-search/internal/aggregate"
	"github.com/pdiddy/civic-search/internal/logging"
	"github.com/pdiddy/civic-search/pkg/types"
)

// Validation errors. Callers map the ErrInvalidRequest family to a client
// error.
var (
	ErrInvalidRequest = errors.New("invalid search request")
	ErrInvalidQuery   = fmt.Errorf("%w: query", ErrInvalidRequest)
	ErrInvalidType    = fmt.Errorf("%w: type", ErrInvalidRequest)
)

// ErrAggregation is returned when merging provider results fails.
var ErrAggregation = aggregate.ErrAggregation

// Aggregator runs one aggregation. *aggregate.Aggregator implements it.
type Aggregator interface {
	Aggregate(ctx context.Context, req aggregate.Request) (aggregate.Result, error)
}

// Service is the search facade.
type Service struct {
	cfg           types.SearchConfig
	defaultRegion string
	agg           Aggregator
	suggestions   SuggestionSource
	log           *zap.Logger
}

// NewService returns a facade over agg. suggestions may be nil, in which
// case only category suggestions are served.
func NewService(cfg types.Config, agg Aggregator, suggestions SuggestionSource, log *zap.Logger) *Service {
	sc := cfg.Search
	def := types.DefaultConfig().Search
	if sc.DefaultPageSize < 1 {
		sc.DefaultPageSize = def.DefaultPageSize
	}
	if sc.MaxPageSize < sc.DefaultPageSize {
		sc.MaxPageSize = max(def.MaxPageSize, sc.DefaultPageSize)
	}
	if sc.MaxQueryLength < 1 {
		sc.MaxQueryLength = def.MaxQueryLength
	}
	if sc.SuggestionsPerSource < 1 {
		sc.SuggestionsPerSource = def.SuggestionsPerSource
	}
	region := cfg.Region.Default
	if region == "" {
		region = string(types.RegionLocal)
	}
	return &Service{
		cfg:           sc,
		defaultRegion: region,
		agg:           agg,
		suggestions:   suggestions,
		log:           logging.OrNop(log),
	}
}

// ParseRequest builds a SearchRequest from string inputs such as query
// parameters. Non-numeric page values become zero, which Search coerces to
// the defaults. Type strings are lowercased and plural forms accepted;
// unknown types are kept so Search can reject them.
func ParseRequest(query, typ, page, pageSize string) types.SearchRequest {
	req := types.SearchRequest{Query: query}
	if k, ok := types.ParseKind(typ); ok {
		req.Type = k
	} else {
		req.Type = types.Kind(strings.ToLower(strings.TrimSpace(typ)))
	}
	req.Page, _ = strconv.Atoi(strings.TrimSpace(page))
	req.PageSize, _ = strconv.Atoi(strings.TrimSpace(pageSize))
	return req
}

// Normalize validates req and applies defaults. It returns a copy.
func (s *Service) Normalize(req types.SearchRequest) (types.SearchRequest, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return req, fmt.Errorf("%w: must not be empty", ErrInvalidQuery)
	}
	if n := utf8.RuneCountInString(req.Query); n > s.cfg.MaxQueryLength {
		return req, fmt.Errorf("%w: %d characters exceeds the limit of %d", ErrInvalidQuery, n, s.cfg.MaxQueryLength)
	}

	k, ok := types.ParseKind(string(req.Type))
	if !ok {
		return req, fmt.Errorf("%w: unknown type %q", ErrInvalidType, req.Type)
	}
	req.Type = k

	if req.Page < 1 {
		req.Page = 1
	}
	switch {
	case req.PageSize < 1:
		req.PageSize = s.cfg.DefaultPageSize
	case req.PageSize > s.cfg.MaxPageSize:
		req.PageSize = s.cfg.MaxPageSize
	}

	req.Category = strings.TrimSpace(req.Category)
	req.Region = strings.TrimSpace(req.Region)
	if req.Region == "" {
		req.Region = s.defaultRegion
	}
	return req, nil
}

// Search runs a universal search. Provider failures never surface; the
// only errors are validation errors and ErrAggregation.
func (s *Service) Search(ctx context.Context, req types.SearchRequest) (*types.SearchResponse, error) {
	started := time.Now()

	req, err := s.Normalize(req)
	if err != nil {
		return nil, err
	}

	s.log.Info("Executing search",
		zap.String("query", req.Query),
		zap.String("type", string(req.Type)),
		zap.String("category", req.Category),
		zap.String("region", req.Region),
		zap.Int("page", req.Page),
		zap.Int("page_size", req.PageSize),
	)

	res, err := s.agg.Aggregate(ctx, aggregate.Request{
		Query:    req.Query,
		Type:     req.Type,
		Category: req.Category,
		Region:   req.Region,
		Language: s.cfg.Language,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		s.log.Error("Search failed", zap.String("query", req.Query), zap.Error(err))
		return nil, fmt.Errorf("searching %q: %w", req.Query, err)
	}

	items := res.Items
	if items == nil {
		items = []types.ContentItem{}
	}
	resp := &types.SearchResponse{
		Query:      req.Query,
		TypeFilter: req.Type,
		Total:      res.Total,
		Items:      items,
		Pagination: types.Pagination{
			Page:        req.Page,
			PageSize:    req.PageSize,
			Total:       res.Total,
			HasNextPage: len(items) == req.PageSize,
			HasPrevPage: req.Page > 1,
		},
		TookMs: time.Since(started).Milliseconds(),
	}

	s.log.Info("Search completed",
		zap.String("query", req.Query),
		zap.Int("total", resp.Total),
		zap.Int("items", len(items)),
		zap.Int64("took_ms", resp.TookMs),
	)
	return resp, nil
}
