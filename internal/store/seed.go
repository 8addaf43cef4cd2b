// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// SeedFile is the on-disk YAML form of a batch of entities.
type SeedFile struct {
	Entities []Entity `yaml:"entities"`
}

// ReadSeedFile parses a seed file from disk.
func ReadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	return &sf, nil
}

// WriteSeedFile saves entities as a seed file.
func WriteSeedFile(path string, entities []Entity) error {
	data, err := yaml.Marshal(&SeedFile{Entities: entities})
	if err != nil {
		return fmt.Errorf("marshaling seed file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Import loads a seed file into the store and returns the number of
// entities written.
func (s *Store) Import(ctx context.Context, path string) (int, error) {
	sf, err := ReadSeedFile(path)
	if err != nil {
		return 0, err
	}
	if err := s.Upsert(ctx, sf.Entities); err != nil {
		return 0, err
	}
	return len(sf.Entities), nil
}
