package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/omnii-ai/omnigraph/pkg/discovery"
)

var (
	discoverTenant   string
	discoverNoCreate bool
	discoverMinConf  float64
	discoverSource   string
)

var discoverCmd = &cobra.Command{
	Use:   "discover [text]",
	Short: "Extract entities and relationships from text into the graph",
	Long: `Discover sends text (an email, a note, a calendar entry) to the extraction
model and writes validated entities and relationships into the tenant graph.
Text is read from the argument, or from stdin when no argument is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 1 {
			text = args[0]
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = string(data)
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

		llmClient, err := buildLLM()
		if err != nil {
			return err
		}

		d := discovery.NewDiscoverer(gw, emb, llmClient, log)
		result, err := d.Discover(cmd.Context(), discoverTenant, text, &discovery.Options{
			CreateMissingNodes: !discoverNoCreate,
			MinConfidence:      discoverMinConf,
			SourceContext:      discoverSource,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverTenant, "tenant", "", "tenant id (required)")
	discoverCmd.Flags().BoolVar(&discoverNoCreate, "no-create", false, "link existing nodes only, never create")
	discoverCmd.Flags().Float64Var(&discoverMinConf, "min-confidence", discovery.DefaultMinConfidence, "entity confidence cut")
	discoverCmd.Flags().StringVar(&discoverSource, "source", "", "source context stored on written edges")
	discoverCmd.MarkFlagRequired("tenant")
	rootCmd.AddCommand(discoverCmd)
}
