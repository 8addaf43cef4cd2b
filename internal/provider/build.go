// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/civic-search/internal/logging"
	"github.com/pdiddy/civic-search/internal/region"
	"github.com/pdiddy/civic-search/pkg/types"
)

// Deps carries the shared collaborators of the provider set.
type Deps struct {
	// HTTPClient serves the external providers. Nil builds one from
	// cfg.HTTP.Timeout.
	HTTPClient *http.Client

	// Entities backs the internal providers. Nil leaves them unconfigured,
	// so they always serve fallback content.
	Entities EntitySearcher

	// Generator produces fallback items. Nil picks one from cfg.Synthetic.
	Generator Generator

	Classifier *region.Classifier
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewGenerator returns the generator selected by cfg.
func NewGenerator(cfg types.SyntheticConfig, now func() time.Time) Generator {
	if cfg.Deterministic {
		return NewTemplateGenerator(now)
	}
	return NewRandomGenerator(cfg.Seed, now)
}

// Build assembles the four guarded providers: posts, news, videos and
// users, in that order.
func Build(cfg types.Config, deps Deps) []Provider {
	log := logging.OrNop(deps.Logger)
	if deps.HTTPClient == nil {
		deps.HTTPClient = &http.Client{Timeout: cfg.HTTP.Timeout}
	}
	if deps.Classifier == nil {
		deps.Classifier = region.NewClassifier(cfg.Region)
	}
	if deps.Generator == nil {
		deps.Generator = NewGenerator(cfg.Synthetic, deps.Now)
	}

	guard := func(f Fetcher, breaker bool, pc types.ProviderConfig) Provider {
		opts := GuardOptions{
			Timeout: cfg.Search.ProviderTimeout,
			Now:     deps.Now,
			Logger:  log,
		}
		if breaker {
			opts.Breaker = NewBreaker(f.Name(), pc, log)
		}
		return NewGuard(f, deps.Generator, opts)
	}

	news := &NewsFetcher{
		Client:     deps.HTTPClient,
		Config:     cfg.News,
		UserAgent:  cfg.HTTP.UserAgent,
		Classifier: deps.Classifier,
		Enhancer:   Enhancer{Expansions: newsExpansions, Qualifier: cfg.Region.LocaleQualifier},
		Logger:     log,
	}
	videos := &VideoFetcher{
		Client:      deps.HTTPClient,
		Config:      cfg.Video,
		UserAgent:   cfg.HTTP.UserAgent,
		CountryCode: cfg.Region.CountryCode,
		Classifier:  deps.Classifier,
		Enhancer:    Enhancer{Expansions: videoExpansions, Qualifier: cfg.Region.LocaleQualifier},
		Logger:      log,
	}

	return []Provider{
		guard(NewEntityFetcher(types.KindPost, deps.Entities, deps.Classifier), false, types.ProviderConfig{}),
		guard(news, true, cfg.News),
		guard(videos, true, cfg.Video),
		guard(NewEntityFetcher(types.KindUser, deps.Entities, deps.Classifier), false, types.ProviderConfig{}),
	}
}
