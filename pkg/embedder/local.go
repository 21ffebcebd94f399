package embedder

import (
	"context"
	"fmt"

	embedeverything "github.com/soundprediction/go-embedeverything/pkg/embedder"
)

// LocalEmbedder implements Client using an in-process EmbedEverything model.
// Used for development and air-gapped deployments where the OpenAI API is
// not reachable.
type LocalEmbedder struct {
	client *embedeverything.Embedder
	config Config
}

// NewLocalEmbedder creates a local embedding client for the given model.
func NewLocalEmbedder(config Config) (*LocalEmbedder, error) {
	client, err := embedeverything.NewEmbedder(config.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create local embedder: %w", err)
	}
	if config.Dimensions <= 0 {
		config.Dimensions = DefaultDimensions
	}
	return &LocalEmbedder{client: client, config: config}, nil
}

// Embed generates embeddings for the given texts.
func (e *LocalEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	// go-embedeverything does not support context yet
	embeddings, err := e.client.Embed(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	return embeddings, nil
}

// EmbedSingle generates an embedding for one text.
func (e *LocalEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return embeddings[0], nil
}

// Dimensions returns the configured vector width.
func (e *LocalEmbedder) Dimensions() int {
	return e.config.Dimensions
}

// Close releases the underlying model.
func (e *LocalEmbedder) Close() error {
	e.client.Close()
	return nil
}
