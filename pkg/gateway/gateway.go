// Package gateway abstracts the tenant-scoped property-graph store behind a
// tabular query interface. Core packages depend only on the Gateway interface
// and the typed errors in this package; everything specific to Neo4j,
// including its error text, stays behind the Neo4j implementation.
package gateway

import (
	"context"
	"time"
)

// Result holds tabular rows returned by a graph query.
type Result struct {
	Fields []string
	Rows   [][]interface{}
}

// Index returns the position of the named field, or -1 when absent.
func (r *Result) Index(field string) int {
	for i, f := range r.Fields {
		if f == field {
			return i
		}
	}
	return -1
}

// Gateway executes parameterized graph queries. Tenant isolation is the
// caller's responsibility: every query must filter by tenant id.
type Gateway interface {
	Execute(ctx context.Context, query string, params map[string]interface{}) (*Result, error)
}

// AsString coerces a row value to a string.
func AsString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// AsFloat coerces a row value to a float64.
func AsFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

// AsStringSlice coerces a row value to a string slice.
func AsStringSlice(v interface{}) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// AsMap coerces a row value to a property map.
func AsMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return nil
}

// AsMapSlice coerces a row value to a slice of property maps, skipping
// entries of any other type.
func AsMapSlice(v interface{}) []map[string]interface{} {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// AsTime coerces a row value to a time.Time.
func AsTime(v interface{}) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Time{}
}
