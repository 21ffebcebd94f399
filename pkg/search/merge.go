package search

import (
	"github.com/omnii-ai/omnigraph/pkg/gateway"
	"github.com/omnii-ai/omnigraph/pkg/types"
)

// MergeRows turns the tabular rows of a combined vector+expansion query into
// DualChannelResults. It is pure and deterministic given its input: per row
// it strips the embedding property, deduplicates the neighbor list by node
// id (first occurrence wins, which is the shortest hop since hop-1 entries
// precede hop-2 entries), and normalizes direct relationships.
func MergeRows(res *gateway.Result) []types.DualChannelResult {
	if res == nil || len(res.Rows) == 0 {
		return []types.DualChannelResult{}
	}

	idIdx := res.Index("id")
	nameIdx := res.Index("name")
	labelsIdx := res.Index("labels")
	propsIdx := res.Index("properties")
	scoreIdx := res.Index("score")
	relatedIdx := res.Index("related")
	relsIdx := res.Index("relationships")

	out := make([]types.DualChannelResult, 0, len(res.Rows))
	for _, row := range res.Rows {
		result := types.DualChannelResult{
			ID:            valueAt(row, idIdx, gateway.AsString),
			Name:          valueAt(row, nameIdx, gateway.AsString),
			Labels:        toLabels(valueAt(row, labelsIdx, gateway.AsStringSlice)),
			Properties:    stripEmbedding(valueAt(row, propsIdx, gateway.AsMap)),
			Score:         valueAt(row, scoreIdx, gateway.AsFloat),
			Related:       dedupeRelated(valueAt(row, relatedIdx, gateway.AsMapSlice)),
			Relationships: normalizeRelationships(valueAt(row, relsIdx, gateway.AsMapSlice)),
		}
		out = append(out, result)
	}
	return out
}

func valueAt[T any](row []interface{}, idx int, coerce func(interface{}) T) T {
	var zero T
	if idx < 0 || idx >= len(row) {
		return zero
	}
	return coerce(row[idx])
}

// stripEmbedding removes the embedding vector from returned properties.
// Embeddings are large and leak the provider representation; they never
// cross the caller boundary.
func stripEmbedding(props map[string]interface{}) map[string]interface{} {
	if props == nil {
		return map[string]interface{}{}
	}
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		if k == "embedding" {
			continue
		}
		out[k] = v
	}
	return out
}

func dedupeRelated(entries []map[string]interface{}) []types.RelatedEntity {
	out := make([]types.RelatedEntity, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		id := gateway.AsString(e["id"])
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, types.RelatedEntity{
			ID:               id,
			Name:             gateway.AsString(e["name"]),
			Labels:           toLabels(gateway.AsStringSlice(e["labels"])),
			RelationshipType: gateway.AsString(e["relationship_type"]),
			HopDistance:      int(gateway.AsFloat(e["hop_distance"])),
		})
	}
	return out
}

func normalizeRelationships(entries []map[string]interface{}) []types.DirectRelationship {
	out := make([]types.DirectRelationship, 0, len(entries))
	for _, e := range entries {
		relType := gateway.AsString(e["type"])
		if relType == "" {
			continue
		}
		props := gateway.AsMap(e["properties"])
		if props == nil {
			props = map[string]interface{}{}
		}
		out = append(out, types.DirectRelationship{
			Type:       relType,
			Direction:  gateway.AsString(e["direction"]),
			Properties: props,
		})
	}
	return out
}

// toLabels converts label strings, dropping the :Node base label every stored
// node carries for indexing.
func toLabels(ss []string) []types.NodeLabel {
	out := make([]types.NodeLabel, 0, len(ss))
	for _, s := range ss {
		if s == "Node" {
			continue
		}
		out = append(out, types.NodeLabel(s))
	}
	return out
}
