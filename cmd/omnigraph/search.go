package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omnii-ai/omnigraph/pkg/search"
	"github.com/omnii-ai/omnigraph/pkg/types"
)

var (
	searchTenant    string
	searchLimit     int
	searchDepth     int
	searchMinScore  float64
	searchTypes     []string
	searchTimeRange string
	searchNoContext bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the tenant knowledge graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if searchTimeRange != "" && !search.ValidTimeRange(searchTimeRange) {
			return fmt.Errorf("invalid --time-range %q (valid phrases: %s)",
				searchTimeRange, strings.Join(search.TimeRangePhrases, ", "))
		}

		gw, err := buildGateway()
		if err != nil {
			return err
		}
		defer gw.Close(context.Background())

		emb, err := buildEmbedder()
		if err != nil {
			return err
		}
		defer emb.Close()

		opts := &search.Options{
			Limit:          searchLimit,
			MaxDepth:       searchDepth,
			MinScore:       searchMinScore,
			TimeRange:      searchTimeRange,
			IncludeContext: !searchNoContext,
		}
		for _, t := range searchTypes {
			opts.NodeTypes = append(opts.NodeTypes, types.NodeLabel(t))
		}

		searcher := search.NewSearcher(gw, emb, log)
		result, err := searcher.Search(cmd.Context(), args[0], searchTenant, opts)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchTenant, "tenant", "", "tenant id (required)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", search.DefaultLimit, "maximum results")
	searchCmd.Flags().IntVar(&searchDepth, "depth", search.MaxExpansionDepth, "expansion depth (max 2)")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", search.DefaultMinScore, "minimum vector similarity")
	searchCmd.Flags().StringSliceVar(&searchTypes, "types", nil, "restrict to node labels")
	searchCmd.Flags().StringVar(&searchTimeRange, "time-range", "", `relative time filter (e.g. "last week")`)
	searchCmd.Flags().BoolVar(&searchNoContext, "no-context", false, "skip graph expansion")
	searchCmd.MarkFlagRequired("tenant")
	rootCmd.AddCommand(searchCmd)
}
