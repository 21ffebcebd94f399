package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnii-ai/omnigraph/pkg/gateway"
)

func contextFields() []string {
	return []string{"id", "name", "labels", "properties", "score", "related", "relationships"}
}

func TestMergeRowsStripsEmbedding(t *testing.T) {
	res := &gateway.Result{
		Fields: contextFields(),
		Rows: [][]interface{}{{
			"n1", "Acme Corp", []interface{}{"Entity"},
			map[string]interface{}{
				"name":      "Acme Corp",
				"industry":  "software",
				"embedding": []interface{}{0.1, 0.2, 0.3},
			},
			0.91,
			[]interface{}{},
			[]interface{}{},
		}},
	}

	results := MergeRows(res)
	require.Len(t, results, 1)
	assert.NotContains(t, results[0].Properties, "embedding")
	assert.Equal(t, "software", results[0].Properties["industry"])
	assert.Equal(t, 0.91, results[0].Score)
}

func TestMergeRowsDeduplicatesNeighbors(t *testing.T) {
	res := &gateway.Result{
		Fields: contextFields(),
		Rows: [][]interface{}{{
			"n1", "Alice", []interface{}{"Contact"},
			map[string]interface{}{"name": "Alice"},
			0.8,
			[]interface{}{
				map[string]interface{}{"id": "n2", "name": "Acme", "relationship_type": "EMPLOYED_BY", "hop_distance": int64(1)},
				map[string]interface{}{"id": "n3", "name": "Offsite", "relationship_type": "ATTENDED", "hop_distance": int64(1)},
				// Same node reached again at hop 2; first occurrence wins.
				map[string]interface{}{"id": "n2", "name": "Acme", "relationship_type": "LOCATED_IN", "hop_distance": int64(2)},
			},
			[]interface{}{},
		}},
	}

	results := MergeRows(res)
	require.Len(t, results, 1)
	require.Len(t, results[0].Related, 2)

	seen := map[string]bool{}
	for _, r := range results[0].Related {
		assert.False(t, seen[r.ID], "neighbor %s repeated", r.ID)
		seen[r.ID] = true
	}
	assert.Equal(t, "EMPLOYED_BY", results[0].Related[0].RelationshipType)
	assert.Equal(t, 1, results[0].Related[0].HopDistance)
}

func TestMergeRowsNormalizesRelationships(t *testing.T) {
	res := &gateway.Result{
		Fields: contextFields(),
		Rows: [][]interface{}{{
			"n1", "Alice", []interface{}{"Contact"},
			map[string]interface{}{"name": "Alice"},
			0.8,
			[]interface{}{},
			[]interface{}{
				map[string]interface{}{
					"type":       "EMPLOYED_BY",
					"direction":  "out",
					"properties": map[string]interface{}{"role": "CTO"},
				},
				map[string]interface{}{"type": "", "direction": "in"},
			},
		}},
	}

	results := MergeRows(res)
	require.Len(t, results, 1)
	require.Len(t, results[0].Relationships, 1)
	rel := results[0].Relationships[0]
	assert.Equal(t, "EMPLOYED_BY", rel.Type)
	assert.Equal(t, "out", rel.Direction)
	assert.Equal(t, "CTO", rel.Properties["role"])
}

func TestMergeRowsEmptyInput(t *testing.T) {
	assert.Empty(t, MergeRows(nil))
	assert.Empty(t, MergeRows(&gateway.Result{}))
}
