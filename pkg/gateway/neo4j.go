package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// Neo4j implements Gateway against a Neo4j database. One instance serves one
// tenant database; tenant filtering inside queries is still required because
// shared deployments may colocate tenants in a single database.
type Neo4j struct {
	client   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// NewNeo4j creates a Neo4j gateway.
func NewNeo4j(uri, username, password, database string, logger *slog.Logger) (*Neo4j, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Neo4j{client: driver, database: database, logger: logger}, nil
}

// Execute runs a parameterized Cypher query and returns its rows. Driver
// values are normalized to plain Go types before they cross the boundary.
func (g *Neo4j) Execute(ctx context.Context, query string, params map[string]interface{}) (*Result, error) {
	session := g.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: g.database})
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		result := &Result{}
		for res.Next(ctx) {
			record := res.Record()
			if result.Fields == nil {
				result.Fields = record.Keys
			}
			row := make([]interface{}, len(record.Values))
			for i, v := range record.Values {
				row[i] = normalizeValue(v)
			}
			result.Rows = append(result.Rows, row)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return nil, classifyError(err)
	}
	return out.(*Result), nil
}

// VerifyConnectivity checks that the database is reachable.
func (g *Neo4j) VerifyConnectivity(ctx context.Context) error {
	return g.client.VerifyConnectivity(ctx)
}

// EnsureIndexes creates the vector index over node embeddings plus the range
// indexes the retrieval queries rely on. All indexes hang off the shared
// :Node base label that every created node carries in addition to its type
// label, since Neo4j vector indexes cover exactly one label. Safe to call
// repeatedly.
func (g *Neo4j) EnsureIndexes(ctx context.Context, dimensions int) error {
	statements := []string{
		fmt.Sprintf(`CREATE VECTOR INDEX node_embeddings IF NOT EXISTS
			FOR (n:Node) ON (n.embedding)
			OPTIONS {indexConfig: {`+"`vector.dimensions`"+`: %d, `+"`vector.similarity_function`"+`: 'cosine'}}`, dimensions),
		`CREATE INDEX node_tenant_id IF NOT EXISTS FOR (n:Node) ON (n.tenantId)`,
		`CREATE INDEX node_name IF NOT EXISTS FOR (n:Node) ON (n.name)`,
		`CREATE INDEX node_created_at IF NOT EXISTS FOR (n:Node) ON (n.createdAt)`,
	}
	for _, stmt := range statements {
		if _, err := g.Execute(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// Close releases the underlying driver.
func (g *Neo4j) Close(ctx context.Context) error {
	return g.client.Close(ctx)
}

// normalizeValue converts driver-specific value types into the plain Go
// types the rest of the system works with.
func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case dbtype.Node:
		return normalizeMap(t.Props)
	case dbtype.Relationship:
		return normalizeMap(t.Props)
	case dbtype.LocalDateTime:
		return t.Time()
	case dbtype.Date:
		return t.Time()
	case dbtype.LocalTime:
		return t.Time()
	case time.Time:
		return t
	case map[string]interface{}:
		return normalizeMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}
