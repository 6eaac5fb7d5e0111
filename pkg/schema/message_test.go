package schema_test

import (
	"encoding/json"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-jack/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func TestNewMessage(t *testing.T) {
	assert := assert.New(t)

	msg := schema.NewUserMessage("Hello, world!")
	assert.Equal(schema.RoleUser, msg.Role)
	assert.Equal("Hello, world!", msg.Text())
	assert.False(msg.HasToolCalls())
}

func TestAssistantMessage_NullContent(t *testing.T) {
	assert := assert.New(t)

	msg := schema.NewAssistantMessage("", schema.NewToolCall("call_1", "forest_stats", "{}"))
	assert.Nil(msg.Content)
	assert.Equal("", msg.Text())
	assert.True(msg.HasToolCalls())

	// Tool-call-only turns are echoed back with an explicit null content
	data, err := json.Marshal(msg)
	assert.NoError(err)
	assert.JSONEq(`{
		"role": "assistant",
		"content": null,
		"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "forest_stats", "arguments": "{}"}}]
	}`, string(data))
}

func TestToolMessage(t *testing.T) {
	assert := assert.New(t)

	msg := schema.NewToolMessage("call_1", json.RawMessage(`{"total":2}`))
	assert.Equal(schema.RoleTool, msg.Role)
	assert.Equal("call_1", msg.ToolCallID)
	assert.Equal(`{"total":2}`, msg.Text())
}

func TestShortID(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("0123abcd", schema.Node{ID: "0123abcd-ffff-4444"}.ShortID())
	assert.Equal("abc", schema.Node{ID: "abc"}.ShortID())
}

func TestNodeExtraFields(t *testing.T) {
	assert := assert.New(t)

	var node schema.Node
	assert.NoError(json.Unmarshal([]byte(`{"id":"abc","title":"T","edgeCount":2}`), &node))
	assert.Equal("T", node.Title)
	assert.Equal(map[string]any{"edgeCount": float64(2)}, node.Extra)

	// Modelled fields take precedence over extra ones of the same name
	node.Extra["title"] = "other"
	data, err := json.Marshal(node)
	assert.NoError(err)
	assert.JSONEq(`{"id":"abc","title":"T","edgeCount":2}`, string(data))

	// Nodes without extra fields are unchanged
	var plain schema.Node
	assert.NoError(json.Unmarshal([]byte(`{"id":"abc"}`), &plain))
	assert.Nil(plain.Extra)
}
