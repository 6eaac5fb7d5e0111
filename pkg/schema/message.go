package schema

import (
	"encoding/json"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Message is a single turn in a conversation, in the chat completions
// wire format. Content is nil when an assistant turn carries only tool calls.
type Message struct {
	Role       string     `json:"role"`
	Content    *string    `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a tool invocation requested by the model. Arguments is the
// raw JSON text produced by the model, which may be malformed.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolTypeFunction is the only tool type used on the wire
const ToolTypeFunction = "function"

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: types.Ptr(text)}
}

func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: types.Ptr(text)}
}

// NewAssistantMessage returns an assistant turn with optional tool calls
func NewAssistantMessage(text string, calls ...ToolCall) Message {
	msg := Message{Role: RoleAssistant, ToolCalls: calls}
	if text != "" {
		msg.Content = types.Ptr(text)
	}
	return msg
}

// NewToolMessage returns the result of a tool call, correlated by id
func NewToolMessage(id string, result json.RawMessage) Message {
	return Message{Role: RoleTool, ToolCallID: id, Content: types.Ptr(string(result))}
}

// NewToolCall returns a function tool call with the given raw arguments
func NewToolCall(id, name, arguments string) ToolCall {
	return ToolCall{
		ID:       id,
		Type:     ToolTypeFunction,
		Function: FunctionCall{Name: name, Arguments: arguments},
	}
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (m Message) String() string {
	return types.Stringify(m)
}

func (c ToolCall) String() string {
	return types.Stringify(c)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Text returns the text content of the message, or an empty string
func (m Message) Text() string {
	return types.Value(m.Content)
}

// HasToolCalls returns true if the model requested one or more tools
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}
