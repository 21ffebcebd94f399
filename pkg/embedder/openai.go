package embedder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	// embedMaxAttempts is the total attempt count for rate-limited calls.
	embedMaxAttempts = 3
	// embedInitialBackoff is the delay before the first retry; it doubles
	// on each subsequent retry (1s, 2s, 4s).
	embedInitialBackoff = time.Second
)

// OpenAIEmbedder implements Client using the OpenAI embeddings API.
// Rate-limited calls are retried with exponential backoff; any other
// provider failure propagates immediately.
type OpenAIEmbedder struct {
	client *openai.Client
	config Config
}

// NewOpenAIEmbedder creates an OpenAI embedding client.
func NewOpenAIEmbedder(apiKey string, config Config) *OpenAIEmbedder {
	if config.Model == "" {
		config.Model = string(openai.SmallEmbedding3)
	}
	if config.Dimensions <= 0 {
		config.Dimensions = DefaultDimensions
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(apiKey),
		config: config,
	}
}

// Embed generates embeddings for the given texts, batching as needed.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.config.BatchSize {
		end := start + e.config.BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

// EmbedSingle generates an embedding for one text.
func (e *OpenAIEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
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
func (e *OpenAIEmbedder) Dimensions() int {
	return e.config.Dimensions
}

// Close implements Client; the HTTP client holds no resources to release.
func (e *OpenAIEmbedder) Close() error { return nil }

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(e.config.Model),
		Dimensions: e.config.Dimensions,
	}

	var lastErr error
	backoff := embedInitialBackoff

	for attempt := 0; attempt < embedMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		resp, err := e.client.CreateEmbeddings(ctx, req)
		if err != nil {
			if !isRateLimited(err) {
				return nil, fmt.Errorf("embedding request failed: %w", err)
			}
			lastErr = err
			continue
		}

		embeddings := make([][]float32, len(resp.Data))
		for i, d := range resp.Data {
			embeddings[i] = d.Embedding
		}
		return embeddings, nil
	}

	return nil, fmt.Errorf("embedding rate limit retries exhausted: %w", lastErr)
}

func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "rate_limit")
}
