package schema

import (
	"fmt"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Conversation is the ordered message history for a single agent run.
// It is only ever appended to.
type Conversation []Message

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewConversation seeds a conversation with a system prompt and a user message
func NewConversation(system, user string) Conversation {
	return Conversation{NewSystemMessage(system), NewUserMessage(user)}
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c Conversation) String() string {
	return types.Stringify(c)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Append adds messages to the end of the conversation
func (c *Conversation) Append(messages ...Message) {
	*c = append(*c, messages...)
}

// Last returns the most recent message, or nil if the conversation is empty
func (c Conversation) Last() *Message {
	if len(c) == 0 {
		return nil
	}
	return &c[len(c)-1]
}

// Validate checks the turn ordering: one system turn, one user turn, then
// assistant turns where every requested tool call is answered by exactly
// one tool turn, in request order, before the next assistant turn. A
// trailing assistant turn with unanswered calls is allowed, since a run
// may stop part way through a round.
func (c Conversation) Validate() error {
	if len(c) < 2 {
		return fmt.Errorf("conversation has %d turns, expected at least 2", len(c))
	}
	if c[0].Role != RoleSystem {
		return fmt.Errorf("turn 0: expected %q, got %q", RoleSystem, c[0].Role)
	}
	if c[1].Role != RoleUser {
		return fmt.Errorf("turn 1: expected %q, got %q", RoleUser, c[1].Role)
	}

	var pending []string
	for i, msg := range c[2:] {
		i += 2
		if len(pending) > 0 {
			if msg.Role != RoleTool {
				if msg.Role == RoleAssistant {
					return fmt.Errorf("turn %d: %d tool calls unanswered", i, len(pending))
				}
				return fmt.Errorf("turn %d: expected %q, got %q", i, RoleTool, msg.Role)
			}
			if msg.ToolCallID != pending[0] {
				return fmt.Errorf("turn %d: expected result for %q, got %q", i, pending[0], msg.ToolCallID)
			}
			pending = pending[1:]
			continue
		}
		if msg.Role != RoleAssistant {
			return fmt.Errorf("turn %d: expected %q, got %q", i, RoleAssistant, msg.Role)
		}
		for _, call := range msg.ToolCalls {
			pending = append(pending, call.ID)
		}
	}
	return nil
}
