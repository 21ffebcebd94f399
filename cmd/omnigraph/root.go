package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/omnii-ai/omnigraph/pkg/config"
	"github.com/omnii-ai/omnigraph/pkg/embedder"
	"github.com/omnii-ai/omnigraph/pkg/gateway"
	"github.com/omnii-ai/omnigraph/pkg/llm"
	"github.com/omnii-ai/omnigraph/pkg/logger"
	"github.com/omnii-ai/omnigraph/pkg/telemetry"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "omnigraph",
		Short: "Omnigraph: knowledge-graph retrieval and enrichment engine",
		Long: `Omnigraph retrieves semantically and relationally relevant facts from a
tenant-scoped property graph and grows that graph by extracting entities and
relationships from unstructured text.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}
			log = buildLogger(cfg)
			return nil
		},
	}
)

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./omnigraph.yaml)")
}

func buildLogger(cfg *config.Config) *slog.Logger {
	base := logger.New(cfg.Log.Level, cfg.Log.Format)
	if !cfg.Telemetry.Enabled {
		return base
	}
	handler, err := telemetry.NewParquetHandler(base.Handler(), cfg.Telemetry.ParquetPath)
	if err != nil {
		base.Warn("telemetry disabled", "error", err)
		return base
	}
	return slog.New(handler)
}

func buildGateway() (*gateway.Neo4j, error) {
	gw, err := gateway.NewNeo4j(cfg.Database.URI, cfg.Database.Username,
		cfg.Database.Password, cfg.Database.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to graph database: %w", err)
	}
	return gw, nil
}

func buildEmbedder() (embedder.Client, error) {
	embCfg := embedder.Config{
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		BatchSize:  cfg.Embedding.BatchSize,
	}

	var client embedder.Client
	switch cfg.Embedding.Provider {
	case "local":
		local, err := embedder.NewLocalEmbedder(embCfg)
		if err != nil {
			return nil, err
		}
		client = local
	default:
		apiKey := cfg.Embedding.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		client = embedder.NewOpenAIEmbedder(apiKey, embCfg)
	}

	if cfg.Cache.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		client = embedder.NewCachedClient(client, rdb, cfg.Cache.TTL, log)
	}
	return client, nil
}

func buildLLM() (llm.Client, error) {
	apiKey := cfg.LLM.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	client, err := llm.NewOpenAIClient(apiKey, llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	if !cfg.Breaker.Enabled {
		return client, nil
	}
	return llm.NewBreakerClient(client, llm.BreakerConfig{
		Enabled:          true,
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
		ReadyToTripRatio: cfg.Breaker.ReadyToTripRatio,
	}, log), nil
}
