package tool_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	// Packages
	jack "github.com/mutablelogic/go-jack"
	fake "github.com/mutablelogic/go-jack/pkg/internal/fake"
	schema "github.com/mutablelogic/go-jack/pkg/schema"
	tool "github.com/mutablelogic/go-jack/pkg/tool"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func decodeObject(t *testing.T, data json.RawMessage) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func Test_decodeArguments_001(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(tool.Arguments{}, tool.DecodeArguments(""))
	assert.Equal(tool.Arguments{}, tool.DecodeArguments("   "))
	assert.Equal(tool.Arguments{}, tool.DecodeArguments(`{"query":`))
	assert.Equal(tool.Arguments{}, tool.DecodeArguments(`null`))
	assert.Equal(tool.Arguments{}, tool.DecodeArguments(`[1,2]`))
	assert.Equal(tool.Arguments{"query": "rust"}, tool.DecodeArguments(`{"query":"rust"}`))
}

func Test_decodeArguments_002(t *testing.T) {
	assert := assert.New(t)

	// Encoding then decoding arguments is lossless
	for _, args := range []tool.Arguments{
		{"query": "rust macros", "limit": float64(3)},
		{"ref": "abcd1234"},
		{"title": "A note", "body": "Line one\nLine two", "tags": "topic:a,topic:b"},
		{"node_ids": []any{"abcd", "ef01"}},
		{},
	} {
		data, err := json.Marshal(args)
		require.NoError(t, err)
		assert.Equal(args, tool.DecodeArguments(string(data)))
	}
}

func Test_dispatch_001(t *testing.T) {
	assert := assert.New(t)
	backend := &fake.Backend{
		SearchResult: &schema.SearchResult{Query: "rust macros", Results: []schema.Node{{ID: "a"}, {ID: "b"}}, Total: 2},
	}
	d := tool.NewDispatcher(backend, nil)

	result := d.Dispatch(context.Background(), "forest_search", tool.DecodeArguments(`{"query":"rust macros"}`))
	assert.NoError(result.Err)
	assert.Equal(float64(2), decodeObject(t, result.Content)["total"])

	// Default limit applied
	require.Len(t, backend.Calls, 1)
	assert.Equal([]any{"rust macros", 5}, backend.Calls[0].Args)
}

func Test_dispatch_002(t *testing.T) {
	assert := assert.New(t)
	backend := &fake.Backend{}
	d := tool.NewDispatcher(backend, nil)

	// Unknown tool is reported, not raised
	result := d.Dispatch(context.Background(), "forest_tags", tool.Arguments{})
	assert.ErrorIs(result.Err, jack.ErrNotFound)
	assert.Equal("Unknown tool: forest_tags", decodeObject(t, result.Content)["error"])
	assert.Empty(backend.Calls)
}

func Test_dispatch_003(t *testing.T) {
	assert := assert.New(t)
	backend := &fake.Backend{Err: errors.New("connection refused")}
	d := tool.NewDispatcher(backend, nil)

	// Backend failures become error payloads
	result := d.Dispatch(context.Background(), "forest_stats", tool.Arguments{})
	assert.Error(result.Err)
	assert.Equal("connection refused", decodeObject(t, result.Content)["error"])
}

func Test_dispatch_004(t *testing.T) {
	assert := assert.New(t)
	backend := &fake.Backend{}
	d := tool.NewDispatcher(backend, nil)

	// Malformed arguments decode to nothing, and the tool reports what is missing
	result := d.Dispatch(context.Background(), "forest_search", tool.DecodeArguments(`{"query": "rust`))
	assert.ErrorIs(result.Err, jack.ErrBadParameter)
	assert.Contains(decodeObject(t, result.Content)["error"], "query")
	assert.Empty(backend.Calls)

	// Empty query
	result = d.Dispatch(context.Background(), "forest_search", tool.Arguments{"query": "  "})
	assert.ErrorIs(result.Err, jack.ErrBadParameter)
	assert.Contains(decodeObject(t, result.Content)["error"], "query is required")

	// Wrong type
	result = d.Dispatch(context.Background(), "forest_read", tool.Arguments{"ref": float64(12)})
	assert.ErrorIs(result.Err, jack.ErrBadParameter)
	assert.Empty(backend.Calls)
}

func Test_dispatch_005(t *testing.T) {
	assert := assert.New(t)
	backend := &fake.Backend{
		SynthesizeResult: &schema.SynthesizeResult{Node: schema.Node{ID: "new", Title: "Synthesis"}},
	}
	d := tool.NewDispatcher(backend, nil)

	// Too few nodes
	result := d.Dispatch(context.Background(), "forest_synthesize", tool.Arguments{"node_ids": []any{"abcd"}})
	assert.ErrorIs(result.Err, jack.ErrBadParameter)
	assert.Empty(backend.Calls)

	result = d.Dispatch(context.Background(), "forest_synthesize", tool.Arguments{"node_ids": []any{"abcd", "ef01"}})
	assert.NoError(result.Err)
	assert.Equal([]string{"synthesize"}, backend.Ops())
	assert.Equal([]any{"abcd,ef01"}, backend.Calls[0].Args)
}

func Test_dispatch_006(t *testing.T) {
	assert := assert.New(t)
	backend := &fake.Backend{}
	d := tool.NewDispatcher(backend, nil)

	result := d.Dispatch(context.Background(), "forest_capture", tool.Arguments{
		"title": "Rust macros", "body": "Declarative and procedural", "tags": "tech:rust", "extra": true,
	})
	assert.NoError(result.Err)
	require.Len(t, backend.Calls, 1)
	assert.Equal([]any{"Rust macros", "Declarative and procedural", "tech:rust"}, backend.Calls[0].Args)

	// Body must be present, but may be empty
	result = d.Dispatch(context.Background(), "forest_capture", tool.Arguments{"title": "Only a title"})
	assert.ErrorIs(result.Err, jack.ErrBadParameter)
	require.Len(t, backend.Calls, 1)

	result = d.Dispatch(context.Background(), "forest_capture", tool.DecodeArguments(`{"title":"t","body":""}`))
	assert.NoError(result.Err)
	require.Len(t, backend.Calls, 2)
	assert.Equal([]any{"t", "", ""}, backend.Calls[1].Args)
}

func Test_dispatch_007(t *testing.T) {
	assert := assert.New(t)
	backend := &fake.Backend{}
	d := tool.NewDispatcher(backend, nil)

	// An explicit limit reaches the backend
	result := d.Dispatch(context.Background(), "forest_search", tool.DecodeArguments(`{"query":"x","limit":3}`))
	assert.NoError(result.Err)
	require.Len(t, backend.Calls, 1)
	assert.Equal([]any{"x", 3}, backend.Calls[0].Args)

	// A null limit takes the default
	result = d.Dispatch(context.Background(), "forest_search", tool.DecodeArguments(`{"query":"x","limit":null}`))
	assert.NoError(result.Err)
	require.Len(t, backend.Calls, 2)
	assert.Equal([]any{"x", 5}, backend.Calls[1].Args)
}
