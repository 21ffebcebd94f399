package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnii-ai/omnigraph/pkg/gateway"
	"github.com/omnii-ai/omnigraph/pkg/types"
)

// fakeGateway scripts Execute by inspecting the query text.
type fakeGateway struct {
	executed []string
	params   []map[string]interface{}
	handler  func(query string, params map[string]interface{}) (*gateway.Result, error)
}

func (f *fakeGateway) Execute(ctx context.Context, query string, params map[string]interface{}) (*gateway.Result, error) {
	f.executed = append(f.executed, query)
	f.params = append(f.params, params)
	return f.handler(query, params)
}

func (f *fakeGateway) queriesContaining(substr string) int {
	count := 0
	for _, q := range f.executed {
		if strings.Contains(q, substr) {
			count++
		}
	}
	return count
}

// fakeEmbedder returns a fixed vector and counts calls.
type fakeEmbedder struct {
	calls int
	fail  error
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		vec, err := f.EmbedSingle(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.5
	}
	return vec, nil
}

func (f *fakeEmbedder) Dimensions() int { return 4 }
func (f *fakeEmbedder) Close() error    { return nil }

func contextRow(id, name string, score float64) []interface{} {
	return []interface{}{
		id, name, []interface{}{"Entity"},
		map[string]interface{}{"name": name, "embedding": []interface{}{0.1}},
		score,
		[]interface{}{},
		[]interface{}{},
	}
}

func vectorResult(rows ...[]interface{}) *gateway.Result {
	return &gateway.Result{Fields: contextFields(), Rows: rows}
}

func TestSearchRejectsEmptyQueryBeforeIO(t *testing.T) {
	gw := &fakeGateway{handler: func(q string, p map[string]interface{}) (*gateway.Result, error) {
		t.Fatal("gateway must not be called for an empty query")
		return nil, nil
	}}
	emb := &fakeEmbedder{}
	s := NewSearcher(gw, emb, nil)

	_, err := s.Search(context.Background(), "   ", "tenant-1", nil)
	assert.ErrorIs(t, err, types.ErrEmptyQuery)
	assert.Zero(t, emb.calls, "embedder must not be called for an empty query")

	_, err = s.Search(context.Background(), "ok", "", nil)
	assert.ErrorIs(t, err, types.ErrEmptyTenant)
}

func TestSearchRejectsUnknownTimeRangeBeforeIO(t *testing.T) {
	gw := &fakeGateway{handler: func(q string, p map[string]interface{}) (*gateway.Result, error) {
		t.Fatal("gateway must not be called for an unknown time range")
		return nil, nil
	}}
	s := NewSearcher(gw, &fakeEmbedder{}, nil)

	_, err := s.Search(context.Background(), "roadmap", "tenant-1", &Options{
		TimeRange:      "fortnight ago",
		IncludeContext: true,
	})
	assert.ErrorIs(t, err, ErrUnknownTimeRange)
}

func TestSearchVectorPath(t *testing.T) {
	gw := &fakeGateway{handler: func(q string, p map[string]interface{}) (*gateway.Result, error) {
		require.Contains(t, q, "db.index.vector.queryNodes")
		// Over-fetch: the index is asked for 2x the limit.
		assert.Equal(t, 10, p["candidates"])
		assert.Equal(t, "tenant-1", p["tenantId"])
		return vectorResult(contextRow("n1", "Roadmap", 0.92)), nil
	}}
	s := NewSearcher(gw, &fakeEmbedder{}, nil)

	result, err := s.Search(context.Background(), "roadmap", "tenant-1", &Options{
		Limit:          5,
		IncludeContext: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "roadmap", result.Query)
	assert.Equal(t, 1, result.TotalResults)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "n1", result.Results[0].ID)
	assert.NotContains(t, result.Results[0].Properties, "embedding")
	assert.Equal(t, result.SearchMetadata.TotalTime,
		result.SearchMetadata.VectorSearchTime+result.SearchMetadata.GraphTraversalTime)
}

func TestSearchDepthIsClamped(t *testing.T) {
	var captured string
	gw := &fakeGateway{handler: func(q string, p map[string]interface{}) (*gateway.Result, error) {
		captured = q
		return vectorResult(contextRow("n1", "Roadmap", 0.9)), nil
	}}
	s := NewSearcher(gw, &fakeEmbedder{}, nil)

	_, err := s.Search(context.Background(), "roadmap", "tenant-1", &Options{
		MaxDepth:       5,
		IncludeContext: true,
	})
	require.NoError(t, err)
	// Depth 5 clamps to 2: the query expands hop 2 but no further.
	assert.Contains(t, captured, "m2")
	assert.NotContains(t, captured, "m3")

	gw.executed = nil
	_, err = s.Search(context.Background(), "roadmap", "tenant-1", &Options{
		MaxDepth:       1,
		IncludeContext: true,
	})
	require.NoError(t, err)
	assert.NotContains(t, captured, "m2", "depth 1 must not expand a second hop")
}

func TestSearchNoContextReturnsEmptyExpansion(t *testing.T) {
	gw := &fakeGateway{handler: func(q string, p map[string]interface{}) (*gateway.Result, error) {
		assert.NotContains(t, q, "OPTIONAL MATCH", "no expansion when context is excluded")
		return &gateway.Result{
			Fields: []string{"id", "name", "labels", "properties", "score"},
			Rows: [][]interface{}{{
				"n1", "Roadmap", []interface{}{"Document"},
				map[string]interface{}{"name": "Roadmap"}, 0.88,
			}},
		}, nil
	}}
	s := NewSearcher(gw, &fakeEmbedder{}, nil)

	result, err := s.Search(context.Background(), "roadmap", "tenant-1", &Options{IncludeContext: false})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.NotNil(t, result.Results[0].Related)
	assert.Empty(t, result.Results[0].Related)
	assert.Empty(t, result.Results[0].Relationships)
	assert.Zero(t, result.SearchMetadata.GraphTraversalTime)
}

func TestSearchFallsBackOnIndexErrorAndLatches(t *testing.T) {
	gw := &fakeGateway{}
	gw.handler = func(q string, p map[string]interface{}) (*gateway.Result, error) {
		switch {
		case strings.Contains(q, "db.index.vector.queryNodes"):
			return nil, gateway.NewIndexUnavailableError("no such vector index")
		case strings.Contains(q, "candidateLimit"):
			return &gateway.Result{
				Fields: []string{"id", "name", "properties"},
				Rows: [][]interface{}{
					{"n1", "Marketing Roadmap", map[string]interface{}{}},
				},
			}, nil
		default: // seed expansion
			return vectorResult(contextRow("n1", "Marketing Roadmap", p["score"].(float64))), nil
		}
	}
	s := NewSearcher(gw, &fakeEmbedder{}, nil)

	result, err := s.Search(context.Background(), "marketing roadmap review", "tenant-1", &Options{
		MinScore:       0.9,
		IncludeContext: true,
	})
	require.NoError(t, err, "index failure must be invisible to the caller")
	require.Len(t, result.Results, 1)
	// Score comes from term overlap: two of three terms in the name.
	assert.InDelta(t, 0.444, result.Results[0].Score, 0.001)
	assert.Equal(t, 1, gw.queriesContaining("db.index.vector.queryNodes"))

	// Second search: the latch skips the vector probe entirely.
	_, err = s.Search(context.Background(), "marketing roadmap review", "tenant-1", &Options{
		IncludeContext: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, gw.queriesContaining("db.index.vector.queryNodes"),
		"latched channel must not be probed again")

	// Reset re-enables probing.
	s.ResetVectorChannel()
	_, err = s.Search(context.Background(), "marketing roadmap review", "tenant-1", &Options{
		IncludeContext: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, gw.queriesContaining("db.index.vector.queryNodes"))
}

func TestSearchEmptyVectorResultsTryKeyword(t *testing.T) {
	gw := &fakeGateway{}
	gw.handler = func(q string, p map[string]interface{}) (*gateway.Result, error) {
		switch {
		case strings.Contains(q, "db.index.vector.queryNodes"):
			return vectorResult(), nil
		case strings.Contains(q, "candidateLimit"):
			return &gateway.Result{
				Fields: []string{"id", "name", "properties"},
				Rows:   [][]interface{}{{"n1", "Roadmap", map[string]interface{}{}}},
			}, nil
		default:
			return vectorResult(contextRow("n1", "Roadmap", p["score"].(float64))), nil
		}
	}
	s := NewSearcher(gw, &fakeEmbedder{}, nil)

	result, err := s.Search(context.Background(), "roadmap", "tenant-1", &Options{IncludeContext: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalResults)

	// An empty vector result is not an index failure: no latch.
	_, err = s.Search(context.Background(), "roadmap", "tenant-1", &Options{IncludeContext: true})
	require.NoError(t, err)
	assert.Equal(t, 2, gw.queriesContaining("db.index.vector.queryNodes"))
}

func TestSearchPropagatesNonIndexErrors(t *testing.T) {
	gw := &fakeGateway{handler: func(q string, p map[string]interface{}) (*gateway.Result, error) {
		return nil, assert.AnError
	}}
	s := NewSearcher(gw, &fakeEmbedder{}, nil)

	_, err := s.Search(context.Background(), "roadmap", "tenant-1", &Options{IncludeContext: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector channel")
}
