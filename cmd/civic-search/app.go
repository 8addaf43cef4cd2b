// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"go.uber.org/zap"

	"github.com/pdiddy/civic-search/internal/aggregate"
	"github.com/pdiddy/civic-search/internal/logging"
	"github.com/pdiddy/civic-search/internal/provider"
	"github.com/pdiddy/civic-search/internal/region"
	"github.com/pdiddy/civic-search/internal/search"
	"github.com/pdiddy/civic-search/internal/store"
	"github.com/pdiddy/civic-search/pkg/types"
)

// app is the wired component graph shared by the search, suggest and
// serve subcommands.
type app struct {
	store     *store.Store
	providers []provider.Provider
	service   *search.Service
}

// buildApp wires store, providers, aggregator and facade from c. A store
// that fails to open is logged and skipped; the internal providers then
// serve fallback content.
func buildApp(c types.Config, log *zap.Logger) *app {
	log = logging.OrNop(log)
	a := &app{}

	var entities provider.EntitySearcher
	var suggestions search.SuggestionSource
	if c.Store.Enabled {
		st, err := store.Open(c.Store)
		if err != nil {
			log.Warn("Entity store unavailable, internal providers will fall back",
				zap.String("path", c.Store.Path),
				zap.Error(err),
			)
		} else {
			a.store = st
			entities = st
			suggestions = st
		}
	}

	classifier := region.NewClassifier(c.Region)
	a.providers = provider.Build(c, provider.Deps{
		Entities:   entities,
		Classifier: classifier,
		Logger:     log,
	})
	agg := aggregate.New(a.providers, region.NewPrioritizer(classifier, c.Region.Default), log)
	a.service = search.NewService(c, agg, suggestions, log)
	return a
}

// Close releases the store.
func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
