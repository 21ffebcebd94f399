package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/omnii-ai/omnigraph/pkg/types"
)

// vectorIndexName is the ANN index over node embeddings.
const vectorIndexName = "node_embeddings"

// vectorSearch runs the combined dual-channel query: ANN seed selection plus
// bounded expansion in one round trip. The index is asked for 2x the limit
// so post-filtering by score and label still leaves enough candidates.
func (s *Searcher) vectorSearch(ctx context.Context, query, tenantID string, opts Options) ([]types.DualChannelResult, error) {
	embedding, err := s.embedder.EmbedSingle(ctx, strings.ReplaceAll(query, "\n", " "))
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	cypher := fmt.Sprintf(`
	CALL db.index.vector.queryNodes('%s', $candidates, $embedding)
	YIELD node AS n, score
	WHERE n.tenantId = $tenantId AND score >= $minScore`+labelFilterClause+`
	WITH n, score
	ORDER BY score DESC
	LIMIT $limit`, vectorIndexName) +
		expansionClause(opts.MaxDepth) +
		contextReturnClause(opts.MaxDepth)

	res, err := s.gw.Execute(ctx, cypher, map[string]interface{}{
		"candidates": opts.Limit * 2,
		"embedding":  embedding,
		"tenantId":   tenantID,
		"minScore":   opts.MinScore,
		"labels":     opts.labelStrings(),
		"limit":      opts.Limit,
	})
	if err != nil {
		return nil, err
	}

	return MergeRows(res), nil
}

// vectorOnly runs the ANN query without expansion, for includeContext=false
// callers. Results carry empty neighbor and relationship lists so the shape
// stays uniform.
func (s *Searcher) vectorOnly(ctx context.Context, query, tenantID string, opts Options) ([]types.DualChannelResult, error) {
	embedding, err := s.embedder.EmbedSingle(ctx, strings.ReplaceAll(query, "\n", " "))
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	cypher := fmt.Sprintf(`
	CALL db.index.vector.queryNodes('%s', $candidates, $embedding)
	YIELD node AS n, score
	WHERE n.tenantId = $tenantId AND score >= $minScore`+labelFilterClause+`
	RETURN n.id AS id, n.name AS name, labels(n) AS labels,
	       properties(n) AS properties, score
	ORDER BY score DESC
	LIMIT $limit`, vectorIndexName)

	res, err := s.gw.Execute(ctx, cypher, map[string]interface{}{
		"candidates": opts.Limit * 2,
		"embedding":  embedding,
		"tenantId":   tenantID,
		"minScore":   opts.MinScore,
		"labels":     opts.labelStrings(),
		"limit":      opts.Limit,
	})
	if err != nil {
		return nil, err
	}

	results := MergeRows(res)
	for i := range results {
		results[i].Related = []types.RelatedEntity{}
		results[i].Relationships = []types.DirectRelationship{}
	}
	return results, nil
}
