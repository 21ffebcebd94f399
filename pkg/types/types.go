package types

import (
	"errors"
	"time"
)

// Validation errors returned before any I/O is performed.
var (
	ErrEmptyQuery   = errors.New("query cannot be empty")
	ErrEmptyText    = errors.New("text cannot be empty")
	ErrEmptyTenant  = errors.New("tenant id cannot be empty")
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrEmptyNodeID  = errors.New("node id cannot be empty")
	ErrBadEmbedding = errors.New("embedding dimension does not match provider dimension")
)

// NodeLabel is the closed-set type tag of a graph vertex.
type NodeLabel string

const (
	LabelConcept  NodeLabel = "Concept"
	LabelEntity   NodeLabel = "Entity"
	LabelEvent    NodeLabel = "Event"
	LabelContact  NodeLabel = "Contact"
	LabelDocument NodeLabel = "Document"
	LabelChunk    NodeLabel = "Chunk"
)

// NodeLabels enumerates every label a node may carry.
var NodeLabels = []NodeLabel{
	LabelConcept,
	LabelEntity,
	LabelEvent,
	LabelContact,
	LabelDocument,
	LabelChunk,
}

// ValidNodeLabel reports whether l belongs to the closed label set.
func ValidNodeLabel(l NodeLabel) bool {
	for _, known := range NodeLabels {
		if l == known {
			return true
		}
	}
	return false
}

// Node represents a vertex in a tenant-scoped knowledge graph.
type Node struct {
	ID        string                 `json:"id"`
	TenantID  string                 `json:"tenant_id"`
	Labels    []NodeLabel            `json:"labels"`
	Name      string                 `json:"name"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt *time.Time             `json:"updated_at,omitempty"`
	Embedding []float32              `json:"embedding,omitempty"`
	Props     map[string]interface{} `json:"properties,omitempty"`
}

// Validate checks required fields for persistence.
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrEmptyNodeID
	}
	if n.Name == "" {
		return ErrEmptyName
	}
	if n.TenantID == "" {
		return ErrEmptyTenant
	}
	return nil
}

// Relationship represents a directed edge between two existing nodes.
// Edges are written with merge semantics on the (from, type, to) triple.
type Relationship struct {
	FromID    string                 `json:"from_id"`
	ToID      string                 `json:"to_id"`
	Type      RelationshipType       `json:"type"`
	Props     map[string]interface{} `json:"properties,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
