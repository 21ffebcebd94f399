package omnigraph

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnii-ai/omnigraph/pkg/gateway"
	"github.com/omnii-ai/omnigraph/pkg/llm"
	"github.com/omnii-ai/omnigraph/pkg/types"
)

type fakeGateway struct {
	executed []string
	result   *gateway.Result
	err      error
}

func (f *fakeGateway) Execute(_ context.Context, query string, _ map[string]interface{}) (*gateway.Result, error) {
	f.executed = append(f.executed, query)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &gateway.Result{}, nil
}

type fakeEmbedder struct{ closed bool }

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, 4)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(_ context.Context, _ string) ([]float32, error) {
	return make([]float32, 4), nil
}

func (f *fakeEmbedder) Dimensions() int { return 4 }

func (f *fakeEmbedder) Close() error {
	f.closed = true
	return nil
}

type fakeLLM struct{}

func (fakeLLM) Chat(_ context.Context, _ []llm.Message) (*llm.Response, error) {
	return &llm.Response{Content: `{"entities": [], "relationships": []}`}, nil
}

func newTestClient(gw gateway.Gateway) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(gw, &fakeEmbedder{}, fakeLLM{}, logger)
}

func TestGetNode(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gw := &fakeGateway{result: &gateway.Result{
		Fields: []string{"id", "labels", "name", "createdAt", "props"},
		Rows: [][]interface{}{{
			"node-1",
			[]interface{}{"Contact"},
			"Alice",
			created,
			map[string]interface{}{"role": "CTO", "embedding": []interface{}{0.1, 0.2}},
		}},
	}}
	client := newTestClient(gw)

	node, err := client.GetNode(context.Background(), "tenant-1", "node-1")
	require.NoError(t, err)
	assert.Equal(t, "node-1", node.ID)
	assert.Equal(t, "tenant-1", node.TenantID)
	assert.Equal(t, "Alice", node.Name)
	assert.Equal(t, []types.NodeLabel{types.LabelContact}, node.Labels)
	assert.Equal(t, created, node.CreatedAt)
	assert.Equal(t, "CTO", node.Props["role"])
	assert.NotContains(t, node.Props, "embedding")
}

func TestGetNodeNotFound(t *testing.T) {
	client := newTestClient(&fakeGateway{})
	_, err := client.GetNode(context.Background(), "tenant-1", "missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestGetNodeValidatesInput(t *testing.T) {
	client := newTestClient(&fakeGateway{})

	_, err := client.GetNode(context.Background(), "", "node-1")
	assert.ErrorIs(t, err, types.ErrEmptyTenant)

	_, err = client.GetNode(context.Background(), "tenant-1", "")
	assert.ErrorIs(t, err, types.ErrEmptyNodeID)
}

func TestClearTenant(t *testing.T) {
	gw := &fakeGateway{}
	client := newTestClient(gw)

	require.NoError(t, client.ClearTenant(context.Background(), "tenant-1"))
	require.Len(t, gw.executed, 1)
	assert.True(t, strings.Contains(gw.executed[0], "DETACH DELETE"))

	assert.ErrorIs(t, client.ClearTenant(context.Background(), ""), types.ErrEmptyTenant)
}

func TestCreateIndicesIsNoopWithoutSupport(t *testing.T) {
	gw := &fakeGateway{}
	client := newTestClient(gw)

	require.NoError(t, client.CreateIndices(context.Background()))
	assert.Empty(t, gw.executed)
}

func TestCloseReleasesEmbedder(t *testing.T) {
	emb := &fakeEmbedder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(&fakeGateway{}, emb, fakeLLM{}, logger)

	require.NoError(t, client.Close(context.Background()))
	assert.True(t, emb.closed)
}
