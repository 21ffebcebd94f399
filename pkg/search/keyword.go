package search

import (
	"context"
	"sort"
	"strings"

	"github.com/omnii-ai/omnigraph/pkg/gateway"
	"github.com/omnii-ai/omnigraph/pkg/types"
)

// textFields are the candidate properties scored at weight 1; the name is
// scored at weight 2.
var textFields = []string{"description", "text", "content"}

type scoredSeed struct {
	id    string
	score float64
}

// keywordSearch is the fallback channel: substring term overlap scored in
// process, then the same expansion and merge pipeline as the vector path so
// the caller-facing shape does not change.
func (s *Searcher) keywordSearch(ctx context.Context, query, tenantID string, opts Options) ([]types.DualChannelResult, error) {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return []types.DualChannelResult{}, nil
	}

	res, err := s.gw.Execute(ctx, `
	MATCH (n)
	WHERE n.tenantId = $tenantId AND n.name IS NOT NULL`+labelFilterClause+`
	RETURN n.id AS id, n.name AS name, properties(n) AS properties
	LIMIT $candidateLimit`, map[string]interface{}{
		"tenantId":       tenantID,
		"labels":         opts.labelStrings(),
		"candidateLimit": keywordCandidateLimit,
	})
	if err != nil {
		return nil, err
	}

	seeds := scoreCandidates(res, terms)
	if len(seeds) > opts.Limit {
		seeds = seeds[:opts.Limit]
	}

	results := make([]types.DualChannelResult, 0, len(seeds))
	for _, seed := range seeds {
		merged, err := s.expandSeed(ctx, tenantID, seed, opts)
		if err != nil {
			return nil, err
		}
		if merged != nil {
			results = append(results, *merged)
		}
	}
	return results, nil
}

// expandSeed runs the expansion+merge pipeline for one keyword-scored seed.
func (s *Searcher) expandSeed(ctx context.Context, tenantID string, seed scoredSeed, opts Options) (*types.DualChannelResult, error) {
	cypher := `
	MATCH (n {id: $id, tenantId: $tenantId})
	WITH n, $score AS score` +
		expansionClause(opts.MaxDepth) +
		contextReturnClause(opts.MaxDepth)

	res, err := s.gw.Execute(ctx, cypher, map[string]interface{}{
		"id":       seed.id,
		"tenantId": tenantID,
		"score":    seed.score,
	})
	if err != nil {
		return nil, err
	}

	merged := MergeRows(res)
	if len(merged) == 0 {
		return nil, nil
	}
	return &merged[0], nil
}

// queryTerms splits the query into lowercase terms of length >= 2.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			terms = append(terms, f)
		}
	}
	return terms
}

// scoreCandidates scores each candidate row against the query terms: a term
// found as a substring of the name contributes 2, a term found in any text
// field contributes 1, normalized by 3x the term count so a full match in
// both name and text scores 1.0. Zero-score candidates are dropped and the
// rest sorted descending.
func scoreCandidates(res *gateway.Result, terms []string) []scoredSeed {
	idIdx := res.Index("id")
	nameIdx := res.Index("name")
	propsIdx := res.Index("properties")

	seeds := make([]scoredSeed, 0, len(res.Rows))
	for _, row := range res.Rows {
		id := valueAt(row, idIdx, gateway.AsString)
		if id == "" {
			continue
		}
		name := strings.ToLower(valueAt(row, nameIdx, gateway.AsString))
		props := valueAt(row, propsIdx, gateway.AsMap)

		var text strings.Builder
		for _, field := range textFields {
			if v := gateway.AsString(props[field]); v != "" {
				text.WriteString(strings.ToLower(v))
				text.WriteByte(' ')
			}
		}
		body := text.String()

		var weighted float64
		for _, term := range terms {
			if strings.Contains(name, term) {
				weighted += 2
			}
			if strings.Contains(body, term) {
				weighted += 1
			}
		}
		if weighted == 0 {
			continue
		}
		seeds = append(seeds, scoredSeed{
			id:    id,
			score: weighted / float64(len(terms)*3),
		})
	}

	sort.SliceStable(seeds, func(i, j int) bool {
		return seeds[i].score > seeds[j].score
	})
	return seeds
}

// TermScore exposes the keyword scoring formula for a single candidate.
// Mostly useful to callers explaining why a fallback result ranked where it
// did.
func TermScore(query, name, text string) float64 {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return 0
	}
	lowerName := strings.ToLower(name)
	lowerText := strings.ToLower(text)
	var weighted float64
	for _, term := range terms {
		if strings.Contains(lowerName, term) {
			weighted += 2
		}
		if strings.Contains(lowerText, term) {
			weighted += 1
		}
	}
	return weighted / float64(len(terms)*3)
}
