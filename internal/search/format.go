// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/civic-search/pkg/types"
)

// FormatTable writes a response as a human-readable table to w.
func FormatTable(resp *types.SearchResponse, w io.Writer) {
	if resp == nil || len(resp.Items) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-6s  %-13s  %-20s  %-6s  %s\n",
		"Rank", "Title", "Kind", "Region", "Source", "Score", "Flags")
	fmt.Fprintln(w, strings.Repeat("-", 116))

	offset := (resp.Pagination.Page - 1) * resp.Pagination.PageSize
	for i, it := range resp.Items {
		fmt.Fprintf(w, "%-4d  %-50s  %-6s  %-13s  %-20s  %-6.1f  %s\n",
			offset+i+1,
			truncate(it.Title, 50),
			it.Kind,
			it.Region,
			truncate(it.SourceName, 20),
			it.RelevanceScore,
			flags(it),
		)
	}

	p := resp.Pagination
	fmt.Fprintf(w, "\n%d results for %q (page %d, %d per page, %dms)",
		resp.Total, resp.Query, p.Page, p.PageSize, resp.TookMs)
	if p.HasNextPage {
		fmt.Fprint(w, ", more available")
	}
	fmt.Fprintln(w)
}

func flags(it types.ContentItem) string {
	var f []string
	if it.Synthetic {
		f = append(f, "synthetic")
	}
	if it.Verified {
		f = append(f, "verified")
	}
	if it.Featured {
		f = append(f, "featured")
	}
	return strings.Join(f, ",")
}

// FormatJSON writes a response as indented JSON to w.
func FormatJSON(resp *types.SearchResponse, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// FormatSuggestions writes suggestions one per line, grouped by type.
func FormatSuggestions(suggestions []types.Suggestion, w io.Writer) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No suggestions.")
		return
	}
	for _, s := range suggestions {
		fmt.Fprintf(w, "%-9s  %s\n", s.Type, s.Value)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
