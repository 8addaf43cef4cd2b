// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/civic-search/internal/store"
	"github.com/pdiddy/civic-search/pkg/types"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load posts and users into the entity store",
	Long: `Seed imports a YAML seed file into the SQLite entity store that backs the
posts and users providers. Existing records with the same ID are replaced.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().String("file", "data/seed.yaml", "seed file to import")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	n, err := st.Import(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Imported %d entities from %s into %s\n", n, path, cfg.Store.Path)

	counts, err := st.Count(ctx)
	if err != nil {
		return err
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(os.Stdout, "  %-6s %d\n", k, counts[types.Kind(k)])
	}
	return nil
}
