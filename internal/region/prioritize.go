// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package region

import (
	"strings"

	"github.com/pdiddy/civic-search/internal/score"
	"github.com/pdiddy/civic-search/pkg/types"
)

// Bucket is a regional priority group. Lower values surface first.
type Bucket int

const (
	BucketPriority Bucket = iota // local and from a trusted source
	BucketLocal
	BucketRegional
	BucketInternational
	numBuckets
)

// String returns the bucket name.
func (b Bucket) String() string {
	switch b {
	case BucketPriority:
		return "priority"
	case BucketLocal:
		return "local"
	case BucketRegional:
		return "regional"
	case BucketInternational:
		return "international"
	default:
		return "unknown"
	}
}

// Affinity bonuses added by ApplyAffinity.
const (
	LocalAffinity    = 5.0
	RegionalAffinity = 2.0
)

// Prioritizer reorders scored results by regional affinity.
type Prioritizer struct {
	classifier   *Classifier
	localDefault string
}

// NewPrioritizer returns a Prioritizer. localDefault is the region name
// for which prioritization applies; other requested regions sort by score
// only.
func NewPrioritizer(c *Classifier, localDefault string) *Prioritizer {
	if localDefault == "" {
		localDefault = string(types.RegionLocal)
	}
	return &Prioritizer{classifier: c, localDefault: localDefault}
}

// IsLocal reports whether requested names the local default region. An
// empty request means the default.
func (p *Prioritizer) IsLocal(requested string) bool {
	requested = strings.TrimSpace(requested)
	return requested == "" || strings.EqualFold(requested, p.localDefault)
}

// BucketOf returns the priority bucket of item.
func (p *Prioritizer) BucketOf(item types.ContentItem) Bucket {
	switch item.Region {
	case types.RegionLocal:
		if p.classifier != nil && p.classifier.Trusted(item) {
			return BucketPriority
		}
		return BucketLocal
	case types.RegionRegional:
		return BucketRegional
	default:
		return BucketInternational
	}
}

// ApplyAffinity adds the regional affinity bonus to each item's score. It
// is a separate pass from base scoring so the region grouping stays
// independent of the numeric score.
func ApplyAffinity(items []types.ContentItem) {
	for i := range items {
		switch items[i].Region {
		case types.RegionLocal:
			items[i].RelevanceScore = score.Clamp(items[i].RelevanceScore + LocalAffinity)
		case types.RegionRegional:
			items[i].RelevanceScore = score.Clamp(items[i].RelevanceScore + RegionalAffinity)
		}
	}
}

// Prioritize returns a reordered copy of items. For the local default region
// items are grouped into buckets (priority, local, regional,
// international), each bucket is sorted by descending score, and the buckets
// are concatenated in order. For any other region the list is sorted by
// score only.
func (p *Prioritizer) Prioritize(items []types.ContentItem, requested string) []types.ContentItem {
	out := make([]types.ContentItem, 0, len(items))
	if !p.IsLocal(requested) {
		out = append(out, items...)
		score.Sort(out)
		return out
	}

	var groups [numBuckets][]types.ContentItem
	for _, it := range items {
		b := p.BucketOf(it)
		groups[b] = append(groups[b], it)
	}
	for _, g := range groups {
		score.Sort(g)
		out = append(out, g...)
	}
	return out
}
