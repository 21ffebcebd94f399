package search

import "github.com/omnii-ai/omnigraph/pkg/types"

const (
	// DefaultLimit is the default maximum result count.
	DefaultLimit = 10
	// DefaultMinScore is the default minimum vector similarity.
	DefaultMinScore = 0.7
	// MaxExpansionDepth is the hard traversal cap. Requests for deeper
	// expansion are clamped, never honored.
	MaxExpansionDepth = 2
	// keywordCandidateLimit caps how many nodes the keyword channel pulls
	// for in-process scoring.
	keywordCandidateLimit = 500
)

// Options controls one search call.
type Options struct {
	// Limit is the maximum number of results (default 10).
	Limit int
	// MaxDepth is the expansion depth, clamped to MaxExpansionDepth.
	MaxDepth int
	// MinScore is the minimum vector similarity (default 0.7).
	MinScore float64
	// NodeTypes restricts results to the given labels when non-empty.
	NodeTypes []types.NodeLabel
	// TimeRange is an optional relative-time phrase ("last week", ...).
	TimeRange string
	// IncludeContext controls graph expansion. When false only the vector
	// channel runs and results carry empty context.
	IncludeContext bool
}

// DefaultOptions returns the standard search options.
func DefaultOptions() *Options {
	return &Options{
		Limit:          DefaultLimit,
		MaxDepth:       MaxExpansionDepth,
		MinScore:       DefaultMinScore,
		IncludeContext: true,
	}
}

// normalized returns a copy with defaults filled in and the depth clamped.
func (o *Options) normalized() Options {
	out := *o
	if out.Limit <= 0 {
		out.Limit = DefaultLimit
	}
	if out.MinScore <= 0 {
		out.MinScore = DefaultMinScore
	}
	if out.MaxDepth <= 0 || out.MaxDepth > MaxExpansionDepth {
		out.MaxDepth = MaxExpansionDepth
	}
	return out
}

// labelStrings returns the node-type filter as plain strings for query
// parameters; an empty slice means no filtering.
func (o *Options) labelStrings() []string {
	out := make([]string, 0, len(o.NodeTypes))
	for _, l := range o.NodeTypes {
		out = append(out, string(l))
	}
	return out
}
