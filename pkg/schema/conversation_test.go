package schema_test

import (
	"encoding/json"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-jack/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func Test_conversation_001(t *testing.T) {
	assert := assert.New(t)

	conv := schema.NewConversation("system", "user")
	assert.Len(conv, 2)
	assert.NoError(conv.Validate())

	conv.Append(schema.NewAssistantMessage("done"))
	assert.Len(conv, 3)
	assert.Equal("done", conv.Last().Text())
	assert.NoError(conv.Validate())
}

func Test_conversation_002(t *testing.T) {
	assert := assert.New(t)

	conv := schema.NewConversation("system", "user")
	conv.Append(schema.NewAssistantMessage("",
		schema.NewToolCall("a", "forest_search", `{"query":"x"}`),
		schema.NewToolCall("b", "forest_stats", `{}`),
	))

	// Trailing unanswered calls are allowed
	assert.NoError(conv.Validate())

	conv.Append(
		schema.NewToolMessage("a", json.RawMessage(`{}`)),
		schema.NewToolMessage("b", json.RawMessage(`{}`)),
		schema.NewAssistantMessage("answer"),
	)
	assert.NoError(conv.Validate())
}

func Test_conversation_003(t *testing.T) {
	assert := assert.New(t)

	// Results out of order
	conv := schema.NewConversation("system", "user")
	conv.Append(
		schema.NewAssistantMessage("",
			schema.NewToolCall("a", "forest_search", `{}`),
			schema.NewToolCall("b", "forest_stats", `{}`),
		),
		schema.NewToolMessage("b", json.RawMessage(`{}`)),
	)
	assert.Error(conv.Validate())
}

func Test_conversation_004(t *testing.T) {
	assert := assert.New(t)

	// Assistant turn before all results are in
	conv := schema.NewConversation("system", "user")
	conv.Append(
		schema.NewAssistantMessage("", schema.NewToolCall("a", "forest_search", `{}`)),
		schema.NewAssistantMessage("answer"),
	)
	assert.Error(conv.Validate())

	// Missing user turn
	assert.Error(schema.Conversation{schema.NewSystemMessage("system")}.Validate())
	assert.Error(schema.Conversation{schema.NewUserMessage("a"), schema.NewUserMessage("b")}.Validate())
}
