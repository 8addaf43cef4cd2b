// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes the relevance of a ContentItem to a query.
//
// The model is additive: a provider-supplied base score plus match,
// identity, engagement and recency bonuses, clamped to [0,100]. Scoring is
// deterministic and side-effect free; Context carries the clock so tests can
// pin it.
package score

import (
	"math"
	"sort"
	"time"

	"github.com/pdiddy/civic-search/internal/normalize"
	"github.com/pdiddy/civic-search/pkg/types"
)

const (
	Min = 0.0
	Max = 100.0
)

// Match bonuses.
const (
	TitleMatch    = 10.0
	SummaryMatch  = 5.0
	BodyMatch     = 3.0
	HandleMatch   = 8.0
	IdentityBonus = 2.0
)

// Engagement scale constants and caps. Each counter is divided by its scale
// and capped so popularity alone cannot dominate the ordering.
const (
	likesScale    = 10.0
	likesCap      = 5.0
	viewsScale    = 100.0
	viewsCap      = 3.0
	commentsScale = 5.0
	commentsCap   = 3.0
)

// Recency thresholds.
const (
	FreshAge  = 24 * time.Hour
	RecentAge = 72 * time.Hour
	WeekAge   = 168 * time.Hour
)

// RecencyProfile holds a provider's bonuses for items younger than
// FreshAge, RecentAge and WeekAge respectively.
type RecencyProfile struct {
	Fresh  float64
	Recent float64
	Week   float64
}

// DefaultRecency is used by providers without their own profile.
var DefaultRecency = RecencyProfile{Fresh: 10, Recent: 5, Week: 2}

// NoRecency disables the recency bonus.
var NoRecency = RecencyProfile{}

// Context carries the per-provider inputs of a scoring pass.
type Context struct {
	// Now is the reference time for recency decay.
	Now time.Time

	// Base is the provider's starting score for the item.
	Base float64

	Recency RecencyProfile
}

// Score returns the relevance of item to query, clamped to [Min, Max].
func Score(item types.ContentItem, query string, ctx Context) float64 {
	s := ctx.Base
	s += matchBonus(item, query)
	if item.Verified || item.Featured {
		s += IdentityBonus
	}
	s += Engagement(item.Engagement)
	s += Recency(item.Timestamp, ctx.Now, ctx.Recency)
	return Clamp(s)
}

// Apply scores every item in place.
func Apply(items []types.ContentItem, query string, ctx Context) {
	for i := range items {
		items[i].RelevanceScore = Score(items[i], query, ctx)
	}
}

func matchBonus(item types.ContentItem, query string) float64 {
	var b float64
	if normalize.Contains(item.Title, query) {
		b += TitleMatch
	}
	if normalize.Contains(item.Summary, query) {
		b += SummaryMatch
	}
	if normalize.Contains(item.Body, query) {
		b += BodyMatch
	}
	if item.Handle != "" && normalize.Contains(item.Handle, query) {
		b += HandleMatch
	}
	return b
}

// Engagement returns min(likes/10,5) + min(views/100,3) + min(comments/5,3).
// Missing or negative counters contribute nothing.
func Engagement(e types.Engagement) float64 {
	return scaled(e.Likes, likesScale, likesCap) +
		scaled(e.Views, viewsScale, viewsCap) +
		scaled(e.Comments, commentsScale, commentsCap)
}

func scaled(n *int64, scale, limit float64) float64 {
	if n == nil || *n <= 0 {
		return 0
	}
	return math.Min(float64(*n)/scale, limit)
}

// Recency returns the bonus for an item published at ts. Zero timestamps get
// no bonus; timestamps in the future count as brand new.
func Recency(ts, now time.Time, p RecencyProfile) float64 {
	if ts.IsZero() {
		return 0
	}
	age := now.Sub(ts)
	if age < 0 {
		age = 0
	}
	switch {
	case age < FreshAge:
		return p.Fresh
	case age < RecentAge:
		return p.Recent
	case age < WeekAge:
		return p.Week
	default:
		return 0
	}
}

// Clamp bounds s to [Min, Max]. NaN clamps to Min.
func Clamp(s float64) float64 {
	if math.IsNaN(s) {
		return Min
	}
	return math.Max(Min, math.Min(Max, s))
}

// Less orders a before b: higher score first, then the more recent
// timestamp, then the lower ID so the order is total.
func Less(a, b types.ContentItem) bool {
	if a.RelevanceScore != b.RelevanceScore {
		return a.RelevanceScore > b.RelevanceScore
	}
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID < b.ID
}

// Sort orders items by Less. The sort is stable.
func Sort(items []types.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool { return Less(items[i], items[j]) })
}
