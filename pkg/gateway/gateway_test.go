package gateway

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultIndex(t *testing.T) {
	res := &Result{Fields: []string{"id", "name", "score"}}
	assert.Equal(t, 0, res.Index("id"))
	assert.Equal(t, 2, res.Index("score"))
	assert.Equal(t, -1, res.Index("missing"))
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		index bool
	}{
		{"nil", nil, false},
		{"missing vector index", errors.New("There is no such vector schema index"), true},
		{"index keyword", errors.New("Index `node_embeddings` not found"), true},
		{"http 400", errors.New("server responded with status 400"), true},
		{"connection refused", errors.New("connection refused"), false},
		{"syntax", errors.New("Invalid input 'FOO'"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := classifyError(tc.err)
			if tc.err == nil {
				assert.NoError(t, out)
				return
			}
			assert.Equal(t, tc.index, IsIndexUnavailable(out))
			if !tc.index {
				var qe *QueryError
				require.ErrorAs(t, out, &qe, "non-index failures must be typed")
				assert.ErrorIs(t, out, tc.err, "the raw driver error stays reachable")
			}
		})
	}
}

func TestIsIndexUnavailableSeesWrappedErrors(t *testing.T) {
	err := fmt.Errorf("vector channel: %w", NewIndexUnavailableError("no such index"))
	assert.True(t, IsIndexUnavailable(err))
	assert.False(t, IsIndexUnavailable(errors.New("no such index")))
	assert.False(t, IsIndexUnavailable(nil))
}

func TestQueryErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := &QueryError{Op: "search", Err: inner}
	assert.Contains(t, err.Error(), "search")
	assert.ErrorIs(t, err, inner)
}

func TestAvailabilityLatch(t *testing.T) {
	var a Availability
	require.True(t, a.Available())
	a.MarkUnavailable()
	assert.False(t, a.Available())
	a.Reset()
	assert.True(t, a.Available())
}

func TestCoercions(t *testing.T) {
	assert.Equal(t, "x", AsString("x"))
	assert.Equal(t, "", AsString(42))

	assert.Equal(t, 1.5, AsFloat(1.5))
	assert.Equal(t, 2.0, AsFloat(float32(2)))
	assert.Equal(t, 3.0, AsFloat(int64(3)))
	assert.Equal(t, 4.0, AsFloat(4))
	assert.Equal(t, 0.0, AsFloat("nope"))

	assert.Equal(t, []string{"a", "b"}, AsStringSlice([]string{"a", "b"}))
	assert.Equal(t, []string{"a"}, AsStringSlice([]interface{}{"a", 1}))
	assert.Nil(t, AsStringSlice("a"))

	m := map[string]interface{}{"k": "v"}
	assert.Equal(t, m, AsMap(m))
	assert.Nil(t, AsMap("nope"))

	maps := AsMapSlice([]interface{}{m, "skip", nil})
	require.Len(t, maps, 1)
	assert.Equal(t, m, maps[0])
	assert.Nil(t, AsMapSlice("nope"))

	now := time.Now()
	assert.Equal(t, now, AsTime(now))
	assert.True(t, AsTime("nope").IsZero())
}
