// Package search implements dual-channel retrieval over a tenant-scoped
// knowledge graph: approximate-nearest-neighbor vector search combined with
// bounded graph expansion, with transparent degradation to keyword search
// when the vector index is unavailable.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/omnii-ai/omnigraph/pkg/embedder"
	"github.com/omnii-ai/omnigraph/pkg/gateway"
	"github.com/omnii-ai/omnigraph/pkg/metrics"
	"github.com/omnii-ai/omnigraph/pkg/types"
)

// Channel names used in wrapped errors and metrics labels.
const (
	channelVector  = "vector"
	channelKeyword = "keyword"
)

// Searcher is the local search orchestrator. Instances are safe for
// concurrent use; the only shared state is the vector availability latch.
type Searcher struct {
	gw          gateway.Gateway
	embedder    embedder.Client
	logger      *slog.Logger
	vectorState gateway.Availability
}

// NewSearcher creates a search orchestrator.
func NewSearcher(gw gateway.Gateway, emb embedder.Client, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{gw: gw, embedder: emb, logger: logger}
}

// ResetVectorChannel clears the unavailability latch so the next search
// probes the vector index again, e.g. after the index has been rebuilt.
func (s *Searcher) ResetVectorChannel() {
	s.vectorState.Reset()
}

// Search retrieves semantically and relationally relevant facts for a
// natural-language query. The vector-to-keyword substitution is invisible in
// the result shape; only timing metadata and logs reveal which channel ran.
func (s *Searcher) Search(ctx context.Context, query, tenantID string, opts *Options) (*types.LocalSearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.ErrEmptyQuery
	}
	if tenantID == "" {
		return nil, types.ErrEmptyTenant
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	normalized := opts.normalized()

	// Reject unknown phrases before any I/O.
	if normalized.TimeRange != "" {
		if _, err := TimeRangeCutoff(normalized.TimeRange, time.Now()); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	var results []types.DualChannelResult
	contextIncluded := normalized.IncludeContext

	if !contextIncluded {
		out, err := s.vectorOnly(ctx, query, tenantID, normalized)
		if err != nil {
			return nil, fmt.Errorf("%s channel: %w", channelVector, err)
		}
		metrics.SearchesTotal.WithLabelValues(channelVector).Inc()
		results = out
	} else {
		out, err := s.dualChannel(ctx, query, tenantID, normalized)
		if err != nil {
			return nil, err
		}
		results = out
	}

	if normalized.TimeRange != "" {
		results = s.filterByTime(ctx, tenantID, results, normalized.TimeRange)
	}

	elapsed := time.Since(start)
	metrics.SearchDuration.Observe(elapsed.Seconds())

	return &types.LocalSearchResult{
		Query:          query,
		TotalResults:   len(results),
		Results:        results,
		SearchMetadata: timingSplit(elapsed, contextIncluded),
	}, nil
}

// dualChannel runs the combined vector+expansion path, transparently
// substituting the keyword channel when the vector index is latched off,
// signals unavailability, or yields nothing under the active filters.
func (s *Searcher) dualChannel(ctx context.Context, query, tenantID string, opts Options) ([]types.DualChannelResult, error) {
	if s.vectorState.Available() {
		results, err := s.vectorSearch(ctx, query, tenantID, opts)
		switch {
		case err == nil && len(results) > 0:
			metrics.SearchesTotal.WithLabelValues(channelVector).Inc()
			return results, nil
		case err == nil:
			// Nothing above threshold under the active filters; let
			// the keyword channel have a try without latching.
			s.logger.Debug("vector channel empty, trying keyword search", "query", query)
		case gateway.IsIndexUnavailable(err):
			s.vectorState.MarkUnavailable()
			s.logger.Warn("vector index unavailable, latching keyword fallback", "error", err)
		default:
			return nil, fmt.Errorf("%s channel: %w", channelVector, err)
		}
		metrics.FallbacksTotal.Inc()
	} else {
		metrics.LatchSkipsTotal.Inc()
	}

	results, err := s.keywordSearch(ctx, query, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("%s channel: %w", channelKeyword, err)
	}
	metrics.SearchesTotal.WithLabelValues(channelKeyword).Inc()
	return results, nil
}

// timingSplit approximates the vector/traversal division of one combined
// query as a fixed 30/70 ratio; the channels run inside a single round trip
// and cannot be measured independently without instrumenting the gateway.
func timingSplit(elapsed time.Duration, contextIncluded bool) types.SearchMetadata {
	total := elapsed.Milliseconds()
	if !contextIncluded {
		return types.SearchMetadata{
			VectorSearchTime:   total,
			GraphTraversalTime: 0,
			TotalTime:          total,
		}
	}
	vector := total * 30 / 100
	return types.SearchMetadata{
		VectorSearchTime:   vector,
		GraphTraversalTime: total - vector,
		TotalTime:          total,
	}
}
