// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts provider-specific records into the canonical
// ContentItem shape and provides the text folding used for matching.
package normalize

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/civic-search/pkg/types"
)

// MaxSummaryRunes bounds ContentItem.Summary.
const MaxSummaryRunes = 280

// Item canonicalizes one provider record. It prefixes the ID with
// providerID, stamps SourceProviderID, defaults unknown regions to
// international, derives a summary from the body when missing and
// truncates it, and turns tags into a sorted lowercase set.
func Item(providerID string, it types.ContentItem) types.ContentItem {
	it.ID = prefixID(providerID, it.ID)
	it.SourceProviderID = providerID
	it.Title = collapseSpace(it.Title)

	if !it.Region.Valid() {
		it.Region = types.RegionInternational
	}

	summary := collapseSpace(it.Summary)
	if summary == "" {
		summary = collapseSpace(it.Body)
	}
	it.Summary = Truncate(summary, MaxSummaryRunes)
	it.Tags = Tags(it.Tags)
	if !it.Timestamp.IsZero() {
		it.Timestamp = it.Timestamp.UTC()
	}
	return it
}

// Items applies Item to every record and returns a new slice.
func Items(providerID string, items []types.ContentItem) []types.ContentItem {
	out := make([]types.ContentItem, 0, len(items))
	for _, it := range items {
		out = append(out, Item(providerID, it))
	}
	return out
}

func prefixID(providerID, id string) string {
	prefix := providerID + ":"
	if strings.HasPrefix(id, prefix) {
		return id
	}
	return prefix + id
}

// Tags lowercases, trims and deduplicates tags, returning them sorted.
// Nil is returned for an empty set.
func Tags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#")))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Truncate shortens s to at most max runes, cutting at the last word
// boundary and appending "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	cut := string(r[:max-3])
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRightFunc(cut, unicode.IsSpace) + "..."
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold lowercases s and strips diacritics so "Reforma Agrária" and
// "reforma agraria" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(collapseSpace(folded))
}

// Contains reports whether the folded form of text contains the folded
// query. An empty query never matches.
func Contains(text, query string) bool {
	q := Fold(query)
	if q == "" {
		return false
	}
	return strings.Contains(Fold(text), q)
}
