package types

// RelatedEntity is a node reached from a primary result by graph expansion,
// tagged with how it was reached.
type RelatedEntity struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Labels           []NodeLabel `json:"labels,omitempty"`
	RelationshipType string      `json:"relationship_type"`
	HopDistance      int         `json:"hop_distance"`
}

// DirectRelationship is a normalized edge touching a primary result node.
type DirectRelationship struct {
	Type       string                 `json:"type"`
	Direction  string                 `json:"direction"` // "out" or "in"
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// DualChannelResult combines a primary node, its similarity or text-match
// score, and its expansion context. The node's embedding is never included.
type DualChannelResult struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Labels        []NodeLabel            `json:"labels,omitempty"`
	Properties    map[string]interface{} `json:"properties,omitempty"`
	Score         float64                `json:"score"`
	Related       []RelatedEntity        `json:"related_entities"`
	Relationships []DirectRelationship   `json:"relationships"`
}

// SearchMetadata reports wall-clock timing for one search call, in
// milliseconds. The vector/traversal split is an estimate since both phases
// run inside one combined query.
type SearchMetadata struct {
	VectorSearchTime   int64 `json:"vector_search_time"`
	GraphTraversalTime int64 `json:"graph_traversal_time"`
	TotalTime          int64 `json:"total_time"`
}

// LocalSearchResult is the orchestrator's caller-facing result. It is pure
// data, JSON-serializable, identical in shape for both channels.
type LocalSearchResult struct {
	Query          string              `json:"query"`
	TotalResults   int                 `json:"total_results"`
	Results        []DualChannelResult `json:"results"`
	SearchMetadata SearchMetadata      `json:"search_metadata"`
}

// RelationshipDiscoveryResult reports one extraction call: the full
// pre-confidence-filter entity and relationship lists plus aggregate counts
// of what was actually written.
type RelationshipDiscoveryResult struct {
	Entities             []ExtractedEntity       `json:"entities"`
	Relationships        []ExtractedRelationship `json:"relationships"`
	NodesCreated         int                     `json:"nodes_created"`
	NodesLinked          int                     `json:"nodes_linked"`
	RelationshipsCreated int                     `json:"relationships_created"`
}
