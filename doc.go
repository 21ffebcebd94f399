// Package omnigraph provides per-tenant knowledge graph retrieval and
// enrichment for Go.
//
// Retrieval runs over two channels in a single round trip: approximate
// nearest-neighbor vector search over node embeddings, combined with bounded
// graph expansion around each hit. When the vector index is missing or
// broken, retrieval degrades transparently to keyword search with the same
// result shape, and a process-wide latch keeps later searches from re-probing
// the broken index.
//
// Enrichment sends unstructured text through an extraction model, resolves
// the returned entities against existing tenant nodes (by exact name, then by
// embedding similarity), and writes relationship edges under a positive type
// allow-list.
//
// # Basic Usage
//
// Create a client from its three backing services:
//
//	gw, err := gateway.NewNeo4j("bolt://localhost:7687", "neo4j", "password", "neo4j", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer gw.Close(ctx)
//
//	emb := embedder.NewOpenAIEmbedder(apiKey, embedder.Config{Model: "text-embedding-3-small"})
//	model, err := llm.NewOpenAIClient(apiKey, llm.Config{Model: "gpt-4o-mini"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client := omnigraph.NewClient(gw, emb, model, logger)
//	defer client.Close(ctx)
//
// # Searching
//
//	result, err := client.Search(ctx, "project timeline", "tenant-1", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, r := range result.Results {
//		fmt.Printf("%s (%.2f)\n", r.Name, r.Score)
//	}
//
// # Growing the Graph
//
//	result, err := client.Discover(ctx, "tenant-1", "Alice was hired by Acme Corp as CTO", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("created %d nodes, %d relationships\n", result.NodesCreated, result.RelationshipsCreated)
//
// # Multi-tenancy
//
// Every operation takes a tenant id and touches only that tenant's subgraph.
// Queries never cross tenant boundaries.
//
// # Architecture
//
//   - pkg/gateway: graph store abstraction and typed errors
//   - pkg/search: dual-channel retrieval, keyword fallback, temporal filters
//   - pkg/discovery: extraction, entity resolution, edge writing
//   - pkg/embedder: embedding clients (OpenAI-compatible, local, cached)
//   - pkg/llm: chat clients with retry and circuit-breaker wrappers
//   - pkg/types: core type definitions and the relationship allow-list
package omnigraph
