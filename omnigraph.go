package omnigraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/omnii-ai/omnigraph/pkg/discovery"
	"github.com/omnii-ai/omnigraph/pkg/embedder"
	"github.com/omnii-ai/omnigraph/pkg/gateway"
	"github.com/omnii-ai/omnigraph/pkg/llm"
	"github.com/omnii-ai/omnigraph/pkg/search"
	"github.com/omnii-ai/omnigraph/pkg/types"
)

var (
	// ErrNodeNotFound is returned when a node lookup matches nothing.
	ErrNodeNotFound = errors.New("node not found")
)

// Client bundles retrieval and discovery over one tenant-scoped knowledge
// graph. It is the main entry point for library users; the cmd/omnigraph CLI
// is a thin wrapper around it.
type Client struct {
	gw         gateway.Gateway
	embedder   embedder.Client
	llm        llm.Client
	searcher   *search.Searcher
	discoverer *discovery.Discoverer
	logger     *slog.Logger
}

// NewClient creates a client from its three backing services. The LLM client
// should be unwrapped; discovery adds its own retry policy.
func NewClient(gw gateway.Gateway, emb embedder.Client, llmClient llm.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		gw:         gw,
		embedder:   emb,
		llm:        llmClient,
		searcher:   search.NewSearcher(gw, emb, logger),
		discoverer: discovery.NewDiscoverer(gw, emb, llmClient, logger),
		logger:     logger,
	}
}

// Search retrieves semantically and relationally relevant facts for a
// natural-language query within one tenant graph.
func (c *Client) Search(ctx context.Context, query, tenantID string, opts *search.Options) (*types.LocalSearchResult, error) {
	return c.searcher.Search(ctx, query, tenantID, opts)
}

// Discover extracts entities and relationships from text and writes them to
// the tenant graph.
func (c *Client) Discover(ctx context.Context, tenantID, text string, opts *discovery.Options) (*types.RelationshipDiscoveryResult, error) {
	return c.discoverer.Discover(ctx, tenantID, text, opts)
}

// GetNode retrieves a single node by id within a tenant. The stored embedding
// is not returned.
func (c *Client) GetNode(ctx context.Context, tenantID, nodeID string) (*types.Node, error) {
	if tenantID == "" {
		return nil, types.ErrEmptyTenant
	}
	if nodeID == "" {
		return nil, types.ErrEmptyNodeID
	}

	res, err := c.gw.Execute(ctx, `
	MATCH (n {id: $id, tenantId: $tenantId})
	RETURN n.id AS id, labels(n) AS labels, n.name AS name,
	       n.createdAt AS createdAt, properties(n) AS props
	LIMIT 1`, map[string]interface{}{
		"id":       nodeID,
		"tenantId": tenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("node lookup failed: %w", err)
	}
	if len(res.Rows) == 0 {
		return nil, ErrNodeNotFound
	}

	row := res.Rows[0]
	props := gateway.AsMap(row[res.Index("props")])
	delete(props, "embedding")

	node := &types.Node{
		ID:        gateway.AsString(row[res.Index("id")]),
		TenantID:  tenantID,
		Name:      gateway.AsString(row[res.Index("name")]),
		CreatedAt: gateway.AsTime(row[res.Index("createdAt")]),
		Props:     props,
	}
	for _, l := range gateway.AsStringSlice(row[res.Index("labels")]) {
		if l == "Node" {
			continue
		}
		node.Labels = append(node.Labels, types.NodeLabel(l))
	}
	return node, nil
}

// ClearTenant removes every node and edge belonging to one tenant.
func (c *Client) ClearTenant(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return types.ErrEmptyTenant
	}
	_, err := c.gw.Execute(ctx, `
	MATCH (n {tenantId: $tenantId})
	DETACH DELETE n`, map[string]interface{}{
		"tenantId": tenantID,
	})
	if err != nil {
		return fmt.Errorf("failed to clear tenant %s: %w", tenantID, err)
	}
	c.logger.Info("tenant graph cleared", "tenant_id", tenantID)
	return nil
}

// indexEnsurer is satisfied by gateway implementations that can provision
// their own indexes, such as gateway.Neo4j.
type indexEnsurer interface {
	EnsureIndexes(ctx context.Context, dimensions int) error
}

// CreateIndices provisions the vector and range indexes the search paths
// depend on, sized to the embedder's vector width. It is a no-op for gateways
// that do not manage indexes.
func (c *Client) CreateIndices(ctx context.Context) error {
	if e, ok := c.gw.(indexEnsurer); ok {
		return e.EnsureIndexes(ctx, c.embedder.Dimensions())
	}
	return nil
}

// ResetVectorChannels clears both unavailability latches, e.g. after the
// vector index has been rebuilt.
func (c *Client) ResetVectorChannels() {
	c.searcher.ResetVectorChannel()
	c.discoverer.ResetVectorResolution()
}

// Searcher returns the underlying search orchestrator.
func (c *Client) Searcher() *search.Searcher {
	return c.searcher
}

// Discoverer returns the underlying discovery service.
func (c *Client) Discoverer() *discovery.Discoverer {
	return c.discoverer
}

// Gateway returns the underlying graph gateway.
func (c *Client) Gateway() gateway.Gateway {
	return c.gw
}

// Close releases the embedder and, when the gateway supports it, the store
// connection.
func (c *Client) Close(ctx context.Context) error {
	var errs []error
	if err := c.embedder.Close(); err != nil {
		errs = append(errs, err)
	}
	if closer, ok := c.gw.(interface{ Close(context.Context) error }); ok {
		if err := closer.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
