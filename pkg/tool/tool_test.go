package tool_test

import (
	"encoding/json"
	"testing"

	// Packages
	tool "github.com/mutablelogic/go-jack/pkg/tool"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func Test_catalog_001(t *testing.T) {
	assert := assert.New(t)

	defs, err := tool.Catalog()
	require.NoError(t, err)
	require.Len(t, defs, len(tool.Names))

	for i, def := range defs {
		assert.Equal("function", def.Type)
		assert.Equal(string(tool.Names[i]), def.Function.Name)
		assert.NotEmpty(def.Function.Description)
		assert.NotNil(def.Function.Parameters)
	}

	// Same definitions on every call
	again, err := tool.Catalog()
	require.NoError(t, err)
	assert.Equal(defs, again)
}

func Test_catalog_002(t *testing.T) {
	assert := assert.New(t)

	defs, err := tool.Catalog()
	require.NoError(t, err)

	required := map[string][]string{}
	for _, def := range defs {
		required[def.Function.Name] = def.Function.Parameters.Required
	}
	assert.Equal([]string{"query"}, required["forest_search"])
	assert.Equal([]string{"ref"}, required["forest_read"])
	assert.ElementsMatch([]string{"title", "body"}, required["forest_capture"])
	assert.Empty(required["forest_stats"])
	assert.Equal([]string{"node_ids"}, required["forest_synthesize"])
}

func Test_catalog_003(t *testing.T) {
	assert := assert.New(t)

	s, err := tool.Synthesize.Schema()
	require.NoError(t, err)

	data, err := json.Marshal(s.Properties["node_ids"])
	require.NoError(t, err)

	var v map[string]any
	require.NoError(t, json.Unmarshal(data, &v))
	assert.Equal("array", v["type"])
	assert.Equal(float64(2), v["minItems"])
	assert.Equal(map[string]any{"type": "string"}, v["items"])
}

func Test_name_001(t *testing.T) {
	assert := assert.New(t)

	for _, name := range tool.Names {
		assert.True(name.Valid(), name)
	}
	assert.False(tool.Name("forest_tags").Valid())
	assert.True(tool.Search.ReadOnly())
	assert.True(tool.Read.ReadOnly())
	assert.True(tool.Stats.ReadOnly())
	assert.False(tool.Capture.ReadOnly())
	assert.False(tool.Synthesize.ReadOnly())
}
