// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for civic-search: the
// canonical ContentItem every provider produces, the search request and
// response envelopes exposed to callers, and the configuration tree.
package types

import (
	"strings"
	"time"
)

// Kind tags the content kind of a ContentItem. The set is open: providers may
// introduce new kinds without changes to the aggregator.
type Kind string

const (
	KindPost  Kind = "post"
	KindNews  Kind = "news"
	KindVideo Kind = "video"
	KindUser  Kind = "user"
)

// KindAll is the type filter that selects every provider.
const KindAll Kind = "all"

// KnownKinds lists the kinds accepted as a type filter, in display order.
var KnownKinds = []Kind{KindPost, KindNews, KindVideo, KindUser}

// ParseKind maps a type filter string to a Kind. Empty input selects KindAll.
// The second return is false for unknown kinds.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(KindAll) {
		return KindAll, true
	}
	for _, k := range KnownKinds {
		// Plural forms are common in query strings (?type=posts).
		if string(k) == s || string(k)+"s" == s {
			return k, true
		}
	}
	return "", false
}

// Region is the coarse geographic or editorial affinity of an item.
type Region string

const (
	RegionLocal         Region = "local"
	RegionRegional      Region = "regional"
	RegionInternational Region = "international"
)

// Valid reports whether r is one of the three enumerated regions.
func (r Region) Valid() bool {
	switch r {
	case RegionLocal, RegionRegional, RegionInternational:
		return true
	}
	return false
}

// Engagement holds optional popularity counters. A nil counter means the
// provider does not expose that signal.
type Engagement struct {
	Views    *int64 `json:"views,omitempty" yaml:"views,omitempty"`
	Likes    *int64 `json:"likes,omitempty" yaml:"likes,omitempty"`
	Comments *int64 `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// Count returns a pointer to n, for filling Engagement literals.
func Count(n int64) *int64 { return &n }

// ContentItem is the canonical, request-scoped view of one search hit. It is
// created during a single aggregation call and never persisted.
type ContentItem struct {
	// ID is unique within one response. Providers prefix it with their
	// provider ID to avoid collisions.
	ID string `json:"id" yaml:"id"`

	Kind Kind `json:"kind" yaml:"kind"`

	Title string `json:"title" yaml:"title"`

	// Summary may be truncated or derived from Body.
	Summary string `json:"summary" yaml:"summary"`

	// Body is the full text used for scoring. It is not part of the response.
	Body string `json:"-" yaml:"-"`

	// Handle is the user identity field (e.g. "@maria") for user and post items.
	Handle string `json:"handle,omitempty" yaml:"handle,omitempty"`

	SourceName       string `json:"source_name" yaml:"source_name"`
	SourceProviderID string `json:"source_provider_id" yaml:"source_provider_id"`

	// Timestamp is the publication or creation time.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	Region Region `json:"region" yaml:"region"`

	Engagement Engagement `json:"engagement" yaml:"engagement"`

	Verified bool `json:"verified,omitempty" yaml:"verified,omitempty"`
	Featured bool `json:"featured,omitempty" yaml:"featured,omitempty"`

	// RelevanceScore is in [0,100] and recomputed for every query.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	URL  string   `json:"url" yaml:"url"`
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Synthetic marks items produced by a provider's fallback generator
	// rather than retrieved from the real source.
	Synthetic bool `json:"synthetic" yaml:"synthetic"`
}
