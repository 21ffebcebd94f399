// Package discovery grows the knowledge graph from unstructured text: it
// sends text to the extraction model, validates the structured output,
// resolves extracted entities against existing tenant nodes (or creates new
// ones with embeddings), and writes edges for extracted relationships under
// a positive type allow-list.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/omnii-ai/omnigraph/pkg/embedder"
	"github.com/omnii-ai/omnigraph/pkg/gateway"
	"github.com/omnii-ai/omnigraph/pkg/llm"
	"github.com/omnii-ai/omnigraph/pkg/metrics"
	"github.com/omnii-ai/omnigraph/pkg/prompts"
	"github.com/omnii-ai/omnigraph/pkg/types"
)

const (
	// DefaultMinConfidence is the default confidence cut for extracted
	// entities entering resolution.
	DefaultMinConfidence = 0.5
	// resolveMinScore is the similarity threshold for vector-assisted name
	// resolution. High on purpose: linking the wrong node is worse than
	// creating a duplicate.
	resolveMinScore = 0.92
)

// Options controls one discovery call.
type Options struct {
	// CreateMissingNodes controls whether unresolved entities become new
	// nodes. DefaultOptions enables it.
	CreateMissingNodes bool
	// MinConfidence is the entity confidence cut (default 0.5).
	MinConfidence float64
	// SourceContext, when set, is stored on every written edge for
	// provenance.
	SourceContext string
}

// DefaultOptions returns the standard discovery options.
func DefaultOptions() *Options {
	return &Options{
		CreateMissingNodes: true,
		MinConfidence:      DefaultMinConfidence,
	}
}

// Discoverer runs LLM-driven entity and relationship extraction against one
// tenant graph. Instances are safe for concurrent use.
type Discoverer struct {
	gw       gateway.Gateway
	embedder embedder.Client
	llm      llm.Client
	logger   *slog.Logger

	// resolveState latches vector-assisted resolution off after an index
	// failure; exact name matching continues to work without it.
	resolveState gateway.Availability
}

// NewDiscoverer creates a relationship discoverer. The LLM client is wrapped
// with the standard rate-limit retry policy; pass an unwrapped client.
func NewDiscoverer(gw gateway.Gateway, emb embedder.Client, client llm.Client, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{
		gw:       gw,
		embedder: emb,
		llm:      llm.NewRetryClient(client, nil),
		logger:   logger,
	}
}

// ResetVectorResolution clears the resolution latch.
func (d *Discoverer) ResetVectorResolution() {
	d.resolveState.Reset()
}

// Discover extracts entities and relationships from text and writes them to
// the tenant graph. Relationships whose endpoints fail to resolve are
// skipped silently; partial extraction is expected and never an error.
func (d *Discoverer) Discover(ctx context.Context, tenantID, text string, opts *Options) (*types.RelationshipDiscoveryResult, error) {
	if tenantID == "" {
		return nil, types.ErrEmptyTenant
	}
	if strings.TrimSpace(text) == "" {
		return nil, types.ErrEmptyText
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	minConfidence := opts.MinConfidence
	if minConfidence == 0 {
		minConfidence = DefaultMinConfidence
	}

	extraction, err := d.extract(ctx, text, opts.SourceContext)
	if err != nil {
		return nil, err
	}

	result := &types.RelationshipDiscoveryResult{
		Entities:      extraction.Entities,
		Relationships: extraction.Relationships,
	}

	resolved := make(map[string]string, len(extraction.Entities))
	for _, entity := range extraction.Entities {
		if entity.Confidence < minConfidence {
			continue
		}
		nodeID, created, err := d.resolveOrCreate(ctx, tenantID, entity, opts.CreateMissingNodes)
		if err != nil {
			return nil, err
		}
		if nodeID == "" {
			continue
		}
		resolved[strings.ToLower(entity.Name)] = nodeID
		if created {
			result.NodesCreated++
			metrics.NodesCreated.Inc()
		} else {
			result.NodesLinked++
			metrics.NodesLinked.Inc()
		}
	}

	for _, rel := range extraction.Relationships {
		relType := types.NormalizeRelationshipType(rel.Type)
		if !types.AllowedRelationshipType(relType) {
			d.logger.Debug("skipping relationship outside allow-list", "type", rel.Type)
			continue
		}
		fromID, fromOK := resolved[strings.ToLower(rel.From)]
		toID, toOK := resolved[strings.ToLower(rel.To)]
		if !fromOK || !toOK {
			continue
		}
		if err := d.createRelationship(ctx, tenantID, fromID, toID, relType, rel.Properties, opts.SourceContext); err != nil {
			return nil, err
		}
		result.RelationshipsCreated++
		metrics.RelationshipsCreated.Inc()
	}

	d.logger.Info("relationship discovery complete",
		"tenant_id", tenantID,
		"entities", len(result.Entities),
		"nodes_created", result.NodesCreated,
		"nodes_linked", result.NodesLinked,
		"relationships_created", result.RelationshipsCreated)

	return result, nil
}

// extract sends text to the extraction model and post-filters the response:
// entities outside the five-type enumeration and relationships on the vague
// blacklist are dropped before anything reaches resolution.
func (d *Discoverer) extract(ctx context.Context, text, sourceContext string) (*prompts.Extraction, error) {
	resp, err := d.llm.Chat(ctx, prompts.ExtractionMessages(text, sourceContext))
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	raw, err := prompts.ParseExtraction(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	return prompts.FilterExtraction(raw), nil
}

// resolveOrCreate maps an extracted entity onto a node id. Resolution tries
// a case-insensitive exact name match, then vector similarity (unless
// latched), and finally creates a new node when allowed. Returns the node
// id, whether a node was created, and any gateway error.
func (d *Discoverer) resolveOrCreate(ctx context.Context, tenantID string, entity types.ExtractedEntity, createMissing bool) (string, bool, error) {
	res, err := d.gw.Execute(ctx, `
	MATCH (n)
	WHERE n.tenantId = $tenantId AND toLower(n.name) = toLower($name)
	RETURN n.id AS id
	LIMIT 1`, map[string]interface{}{
		"tenantId": tenantID,
		"name":     entity.Name,
	})
	if err != nil {
		return "", false, fmt.Errorf("node resolution failed: %w", err)
	}
	if id := firstID(res); id != "" {
		return id, false, nil
	}

	embedding, err := d.embedder.EmbedSingle(ctx, embeddingText(entity))
	if err != nil {
		return "", false, fmt.Errorf("failed to embed entity %q: %w", entity.Name, err)
	}
	if len(embedding) != d.embedder.Dimensions() {
		return "", false, types.ErrBadEmbedding
	}

	if id := d.vectorResolve(ctx, tenantID, embedding); id != "" {
		return id, false, nil
	}

	if !createMissing {
		return "", false, nil
	}

	id, err := d.createNode(ctx, tenantID, entity, embedding)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// vectorResolve looks for a near-identical existing node by embedding. Index
// failures latch vector resolution off for the process; any failure here
// degrades to "no match" since exact matching already ran.
func (d *Discoverer) vectorResolve(ctx context.Context, tenantID string, embedding []float32) string {
	if !d.resolveState.Available() {
		return ""
	}

	res, err := d.gw.Execute(ctx, `
	CALL db.index.vector.queryNodes('node_embeddings', 1, $embedding)
	YIELD node AS n, score
	WHERE n.tenantId = $tenantId AND score >= $minScore
	RETURN n.id AS id`, map[string]interface{}{
		"embedding": embedding,
		"tenantId":  tenantID,
		"minScore":  resolveMinScore,
	})
	if err != nil {
		if gateway.IsIndexUnavailable(err) {
			d.resolveState.MarkUnavailable()
			d.logger.Warn("vector resolution unavailable, using exact matching only", "error", err)
		} else {
			d.logger.Warn("vector resolution failed", "error", err)
		}
		return ""
	}
	return firstID(res)
}

func (d *Discoverer) createNode(ctx context.Context, tenantID string, entity types.ExtractedEntity, embedding []float32) (string, error) {
	label := types.LabelForEntityType(entity.Type)
	id := uuid.NewString()

	// The type label comes from the closed LabelForEntityType mapping, never
	// from model output, so interpolating it is safe. The :Node base label
	// puts the node under the shared vector and range indexes.
	query := fmt.Sprintf(`
	CREATE (n:Node:%s {id: $id, tenantId: $tenantId, name: $name,
	              createdAt: datetime($createdAt), embedding: $embedding})
	SET n += $props
	RETURN n.id AS id`, label)

	_, err := d.gw.Execute(ctx, query, map[string]interface{}{
		"id":        id,
		"tenantId":  tenantID,
		"name":      entity.Name,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
		"embedding": embedding,
		"props":     scalarProps(entity.Properties),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create node %q: %w", entity.Name, err)
	}
	return id, nil
}

// createRelationship writes a merge-semantics edge: repeating the same
// (from, type, to) triple never produces duplicates. The type has already
// passed the allow-list, which is what makes the interpolation safe.
func (d *Discoverer) createRelationship(ctx context.Context, tenantID, fromID, toID string, relType types.RelationshipType, props map[string]interface{}, sourceContext string) error {
	merged := scalarProps(props)
	if sourceContext != "" {
		merged["sourceContext"] = sourceContext
	}

	query := fmt.Sprintf(`
	MATCH (a {id: $fromId, tenantId: $tenantId})
	MATCH (b {id: $toId, tenantId: $tenantId})
	MERGE (a)-[r:%s]->(b)
	ON CREATE SET r.createdAt = datetime($createdAt)
	SET r += $props`, relType)

	_, err := d.gw.Execute(ctx, query, map[string]interface{}{
		"fromId":    fromID,
		"toId":      toID,
		"tenantId":  tenantID,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
		"props":     merged,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s relationship: %w", relType, err)
	}
	return nil
}

// embeddingText serializes an entity for embedding: the name plus its
// properties in deterministic key order.
func embeddingText(entity types.ExtractedEntity) string {
	if len(entity.Properties) == 0 {
		return entity.Name
	}
	var b strings.Builder
	b.WriteString(entity.Name)
	for _, k := range sortedKeys(entity.Properties) {
		fmt.Fprintf(&b, " %s: %v", k, entity.Properties[k])
	}
	return b.String()
}

// reservedPropKeys are node and edge keys the system writes itself. They are
// stripped from extraction-sourced properties before any SET += so model
// output can never reassign a node's identity, tenant, or timestamps.
var reservedPropKeys = map[string]struct{}{
	"id":            {},
	"tenantId":      {},
	"name":          {},
	"createdAt":     {},
	"updatedAt":     {},
	"embedding":     {},
	"sourceContext": {},
}

// scalarProps keeps only property values the graph store accepts as node or
// relationship properties, dropping reserved keys.
func scalarProps(props map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		if _, reserved := reservedPropKeys[k]; reserved {
			continue
		}
		switch v.(type) {
		case string, bool, int, int64, float32, float64:
			out[k] = v
		}
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstID(res *gateway.Result) string {
	if res == nil || len(res.Rows) == 0 {
		return ""
	}
	idx := res.Index("id")
	if idx < 0 || idx >= len(res.Rows[0]) {
		return ""
	}
	return gateway.AsString(res.Rows[0][idx])
}
