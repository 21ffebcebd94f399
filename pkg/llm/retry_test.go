package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	calls     int
	responses []func() (*Response, error)
}

func (s *scriptedClient) Chat(ctx context.Context, messages []Message) (*Response, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx]()
}

func fastRetry() *RetryConfig {
	return &RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond}
}

func TestRetryClientRetriesRateLimits(t *testing.T) {
	client := &scriptedClient{responses: []func() (*Response, error){
		func() (*Response, error) { return nil, NewRateLimitError("429") },
		func() (*Response, error) { return nil, NewRateLimitError("429") },
		func() (*Response, error) { return &Response{Content: "{}"}, nil },
	}}

	resp, err := NewRetryClient(client, fastRetry()).Chat(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", resp.Content)
	assert.Equal(t, 3, client.calls)
}

func TestRetryClientExhaustsAttempts(t *testing.T) {
	client := &scriptedClient{responses: []func() (*Response, error){
		func() (*Response, error) { return nil, NewRateLimitError("429") },
	}}

	_, err := NewRetryClient(client, fastRetry()).Chat(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, IsRateLimit(err))
	assert.Equal(t, 3, client.calls, "exactly MaxAttempts calls")
}

func TestRetryClientDoesNotRetryOtherErrors(t *testing.T) {
	boom := errors.New("model exploded")
	client := &scriptedClient{responses: []func() (*Response, error){
		func() (*Response, error) { return nil, boom },
	}}

	_, err := NewRetryClient(client, fastRetry()).Chat(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, client.calls, "non-rate-limit failures propagate immediately")
}

func TestRetryClientHonorsContextCancellation(t *testing.T) {
	client := &scriptedClient{responses: []func() (*Response, error){
		func() (*Response, error) { return nil, NewRateLimitError("429") },
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRetryClient(client, &RetryConfig{MaxAttempts: 3, InitialDelay: time.Minute}).Chat(ctx, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimitErrorIs(t *testing.T) {
	err := NewRateLimitError("too fast")
	assert.True(t, IsRateLimit(err))
	assert.True(t, errors.Is(err, &RateLimitError{}))
	assert.False(t, IsRateLimit(errors.New("other")))
}
