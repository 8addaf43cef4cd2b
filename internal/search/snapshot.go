// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/civic-search/pkg/types"
)

// Snapshot is the on-disk record of one search and its response. A saved
// snapshot can be printed again later without querying the providers.
type Snapshot struct {
	Request  types.SearchRequest  `yaml:"request"`
	Response types.SearchResponse `yaml:"response"`
	SavedAt  time.Time            `yaml:"saved_at"`
}

// WriteSnapshot saves a request and its response to a YAML file.
func WriteSnapshot(path string, req types.SearchRequest, resp *types.SearchResponse) error {
	if resp == nil {
		return fmt.Errorf("writing snapshot: nil response")
	}
	snap := Snapshot{
		Request:  req,
		Response: *resp,
		SavedAt:  time.Now().UTC(),
	}
	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSnapshot loads a previously saved snapshot from disk.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap.Response.Items == nil {
		snap.Response.Items = []types.ContentItem{}
	}
	return &snap, nil
}
