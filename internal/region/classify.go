// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package region infers the regional affinity of content and reorders
// scored results so local content surfaces first.
package region

import (
	"strings"

	"github.com/pdiddy/civic-search/internal/normalize"
	"github.com/pdiddy/civic-search/pkg/types"
)

// Classifier assigns a Region by scanning text against curated indicator
// lists. It is immutable after construction and safe for concurrent use.
type Classifier struct {
	local    []string
	regional []string
	trusted  []string
}

// NewClassifier builds a Classifier from the region configuration.
func NewClassifier(cfg types.RegionConfig) *Classifier {
	return &Classifier{
		local:    foldAll(cfg.LocalIndicators),
		regional: foldAll(cfg.RegionalIndicators),
		trusted:  foldAll(cfg.TrustedSources),
	}
}

func foldAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if f := normalize.Fold(s); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Classify scans the given texts (title, description, source identifier,
// URL) and returns the first tier with a matching indicator: local, then
// regional, else international.
func (c *Classifier) Classify(texts ...string) types.Region {
	hay := normalize.Fold(strings.Join(texts, " "))
	if hay == "" {
		return types.RegionInternational
	}
	if matchAny(hay, c.local) {
		return types.RegionLocal
	}
	if matchAny(hay, c.regional) {
		return types.RegionRegional
	}
	return types.RegionInternational
}

// Trusted reports whether the item's source name or URL matches a trusted
// source.
func (c *Classifier) Trusted(item types.ContentItem) bool {
	name := normalize.Fold(item.SourceName)
	url := normalize.Fold(item.URL)
	for _, t := range c.trusted {
		if name == t || (strings.Contains(t, ".") && strings.Contains(url, t)) {
			return true
		}
	}
	return false
}

// matchAny reports whether any indicator occurs in hay. Domain indicators
// (".br") match as suffixes of a host; short word indicators ("stf", "sus")
// must stand alone so they do not match inside longer words.
func matchAny(hay string, indicators []string) bool {
	for _, ind := range indicators {
		switch {
		case strings.HasPrefix(ind, "."):
			if containsDomainSuffix(hay, ind) {
				return true
			}
		case len(ind) <= 4:
			if containsWord(hay, ind) {
				return true
			}
		default:
			if strings.Contains(hay, ind) {
				return true
			}
		}
	}
	return false
}

func containsWord(hay, word string) bool {
	for _, f := range strings.FieldsFunc(hay, isSeparator) {
		if f == word {
			return true
		}
	}
	return false
}

func containsDomainSuffix(hay, suffix string) bool {
	for _, f := range strings.Fields(hay) {
		host := f
		if i := strings.Index(host, "://"); i >= 0 {
			host = host[i+3:]
		}
		if i := strings.IndexAny(host, "/?#"); i >= 0 {
			host = host[:i]
		}
		if strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return false
	case r > 127:
		return false
	}
	return true
}
