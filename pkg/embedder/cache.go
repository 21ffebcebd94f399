package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedClient wraps a Client with a Redis-backed embedding cache. Agents
// tend to re-issue identical queries in short succession, so a small TTL
// cache avoids repeated provider round-trips. Cache failures are never
// fatal: on any Redis error the call falls through to the inner client.
type CachedClient struct {
	inner  Client
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedClient creates a caching wrapper around inner.
func NewCachedClient(inner Client, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedClient {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedClient{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

// Embed returns embeddings for texts, serving cache hits and embedding only
// the misses through the inner client.
func (c *CachedClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	missIdx := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))

	for i, text := range texts {
		if vec := c.get(ctx, text); vec != nil {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) > 0 {
		embedded, err := c.inner.Embed(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, vec := range embedded {
			out[missIdx[j]] = vec
			c.put(ctx, missTexts[j], vec)
		}
	}

	return out, nil
}

// EmbedSingle returns the embedding for one text.
func (c *CachedClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// Dimensions returns the inner client's vector width.
func (c *CachedClient) Dimensions() int {
	return c.inner.Dimensions()
}

// Close closes the inner client. The Redis client is owned by the caller.
func (c *CachedClient) Close() error {
	return c.inner.Close()
}

func (c *CachedClient) get(ctx context.Context, text string) []float32 {
	val, err := c.rdb.Get(ctx, c.key(text)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("embedding cache read failed", "error", err)
		}
		return nil
	}
	var vec []float32
	if err := json.Unmarshal(val, &vec); err != nil {
		c.logger.Warn("embedding cache entry corrupt", "error", err)
		return nil
	}
	if len(vec) != c.inner.Dimensions() {
		return nil
	}
	return vec
}

func (c *CachedClient) put(ctx context.Context, text string, vec []float32) {
	bytes, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(text), bytes, c.ttl).Err(); err != nil {
		c.logger.Warn("embedding cache write failed", "error", err)
	}
}

func (c *CachedClient) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "omnigraph:emb:" + hex.EncodeToString(sum[:])
}
