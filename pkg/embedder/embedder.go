// Package embedder provides text embedding clients producing fixed-dimension
// vectors for node embeddings and search queries.
package embedder

import "context"

// DefaultDimensions is the embedding width the system was provisioned with.
// Nodes are never persisted with a vector of any other length.
const DefaultDimensions = 1536

// Client turns text into fixed-length numeric vectors.
type Client interface {
	// Embed generates embeddings for a batch of texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed width of produced vectors.
	Dimensions() int

	// Close releases any resources held by the client.
	Close() error
}

// Config holds common embedding settings.
type Config struct {
	// Model is the embedding model identifier.
	Model string
	// Dimensions is the expected vector width; zero means DefaultDimensions.
	Dimensions int
	// BatchSize caps how many texts go into one provider request.
	BatchSize int
}
