// Package metrics exposes Prometheus collectors for retrieval and
// extraction. Collectors are package-level and registered on the default
// registry, matching the usual promauto pattern.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal counts searches by the channel that produced results.
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "omnigraph_searches_total",
		Help: "Total search calls by result channel.",
	}, []string{"channel"})

	// FallbacksTotal counts vector-to-keyword substitutions.
	FallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "omnigraph_keyword_fallbacks_total",
		Help: "Searches that fell back from the vector channel to keyword search.",
	})

	// LatchSkipsTotal counts vector probes skipped because the channel
	// was latched unavailable.
	LatchSkipsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "omnigraph_vector_latch_skips_total",
		Help: "Vector probes skipped due to the unavailability latch.",
	})

	// SearchDuration observes end-to-end search wall-clock time.
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "omnigraph_search_duration_seconds",
		Help:    "End-to-end search duration.",
		Buckets: prometheus.DefBuckets,
	})

	// NodesCreated counts nodes created by relationship discovery.
	NodesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "omnigraph_discovery_nodes_created_total",
		Help: "Nodes created by relationship discovery.",
	})

	// NodesLinked counts extracted entities resolved to existing nodes.
	NodesLinked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "omnigraph_discovery_nodes_linked_total",
		Help: "Extracted entities resolved to existing nodes.",
	})

	// RelationshipsCreated counts edges written by relationship discovery.
	RelationshipsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "omnigraph_discovery_relationships_created_total",
		Help: "Relationships written by discovery.",
	})
)
