// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/civic-search/internal/search"
	"github.com/pdiddy/civic-search/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search posts, news, videos and users",
	Long: `Search runs one query against every provider matching --type, merges the
results, ranks them with local content first and prints one page.

The query may be given as an argument or with --query. Use --save to keep
the response on disk and --load to print a saved response again without
querying the providers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringP("query", "q", "", "search query")
	f.String("type", "all", "content type: all, post, news, video, user")
	f.String("category", "", "category key, e.g. politics or economy")
	f.String("region", "", "requested region (default: the configured local region)")
	f.Int("page", 1, "page number, starting at 1")
	f.Int("page-size", 0, "items per page (default: search.default_page_size)")
	f.Bool("json", false, "output JSON")
	f.String("save", "", "write the response to a YAML snapshot file")
	f.String("load", "", "print a saved snapshot instead of searching")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if path, _ := cmd.Flags().GetString("load"); path != "" {
		snap, err := search.ReadSnapshot(path)
		if err != nil {
			return err
		}
		return printResponse(&snap.Response, jsonOutput)
	}

	req := requestFromFlags(cmd, args)

	a := buildApp(cfg, log)
	defer a.Close()

	resp, err := a.service.Search(context.Background(), req)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := search.WriteSnapshot(path, req, resp); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Saved snapshot:", path)
	}
	return printResponse(resp, jsonOutput)
}

// requestFromFlags builds a request from the positional query or --query
// and the filter flags.
func requestFromFlags(cmd *cobra.Command, args []string) types.SearchRequest {
	query, _ := cmd.Flags().GetString("query")
	if len(args) > 0 {
		query = args[0]
	}
	typ, _ := cmd.Flags().GetString("type")
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")

	req := search.ParseRequest(query, typ, "", "")
	req.Page = page
	req.PageSize = pageSize
	req.Category, _ = cmd.Flags().GetString("category")
	req.Region, _ = cmd.Flags().GetString("region")
	return req
}

func printResponse(resp *types.SearchResponse, jsonOutput bool) error {
	if jsonOutput {
		return search.FormatJSON(resp, os.Stdout)
	}
	search.FormatTable(resp, os.Stdout)
	return nil
}
