// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/civic-search/internal/search"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <prefix>",
	Short: "Show autocomplete suggestions for a partial query",
	Long: `Suggest matches a partial query against user handles, tags and
categories. Prefixes shorter than two characters return nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().Bool("json", false, "output JSON")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	a := buildApp(cfg, log)
	defer a.Close()

	list := a.service.Suggest(context.Background(), args[0])

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	search.FormatSuggestions(list, os.Stdout)
	return nil
}
