package llm

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig controls the rate-limit retry behavior.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// InitialDelay is the backoff before the first retry; it doubles on
	// each subsequent retry.
	InitialDelay time.Duration
}

// DefaultRetryConfig returns the standard 3-attempt, 1s/2s/4s backoff.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Second,
	}
}

// RetryClient wraps a Client and retries rate-limited calls with exponential
// backoff. Any other failure propagates immediately without retry.
type RetryClient struct {
	client Client
	config *RetryConfig
}

// NewRetryClient creates a retrying wrapper around client.
func NewRetryClient(client Client, config *RetryConfig) *RetryClient {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = time.Second
	}
	return &RetryClient{client: client, config: config}
}

// Chat implements Client with rate-limit retry.
func (r *RetryClient) Chat(ctx context.Context, messages []Message) (*Response, error) {
	var lastErr error
	delay := r.config.InitialDelay

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("context cancelled during retry backoff: %w", ctx.Err())
			}
			delay *= 2
		}

		resp, err := r.client.Chat(ctx, messages)
		if err == nil {
			return resp, nil
		}
		if !IsRateLimit(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("rate limit retries exhausted: %w", lastErr)
}
