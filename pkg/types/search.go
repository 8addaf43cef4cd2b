// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchRequest is the validated input of one universal search.
type SearchRequest struct {
	Query    string `json:"query" yaml:"query"`
	Type     Kind   `json:"type" yaml:"type"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Region is the caller's requested region: the configured local default
	// (usually "local") or anything else (e.g. "world") to bypass regional
	// prioritization.
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Page     int    `json:"page" yaml:"page"`
	PageSize int    `json:"page_size" yaml:"page_size"`
}

// Pagination describes the slice of the merged result set in a response.
type Pagination struct {
	Page        int  `json:"page" yaml:"page"`
	PageSize    int  `json:"pageSize" yaml:"page_size"`
	Total       int  `json:"total" yaml:"total"`
	HasNextPage bool `json:"hasNextPage" yaml:"has_next_page"`
	HasPrevPage bool `json:"hasPrevPage" yaml:"has_prev_page"`
}

// SearchResponse is the envelope returned to the calling surface.
type SearchResponse struct {
	Query      string        `json:"query" yaml:"query"`
	TypeFilter Kind          `json:"typeFilter" yaml:"type_filter"`
	Total      int           `json:"total" yaml:"total"`
	Items      []ContentItem `json:"items" yaml:"items"`
	Pagination Pagination    `json:"pagination" yaml:"pagination"`
	TookMs     int64         `json:"took_ms" yaml:"took_ms"`
}

// Suggestion is one autocomplete entry.
type Suggestion struct {
	Type     string            `json:"type" yaml:"type"`
	Value    string            `json:"value" yaml:"value"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// SuggestionResponse is the envelope of the suggestions operation.
type SuggestionResponse struct {
	Suggestions []Suggestion `json:"suggestions" yaml:"suggestions"`
}
