package openrouter

import (
	"context"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	jack "github.com/mutablelogic/go-jack"
	schema "github.com/mutablelogic/go-jack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Complete sends the conversation and tools, and returns the next assistant
// turn. The round trip is limited to the lesser of timeout and
// MaxCallTimeout. Every failure is returned wrapped in ErrTransport and is
// not retried.
func (c *Client) Complete(ctx context.Context, conversation schema.Conversation, tools []schema.ToolDefinition, timeout time.Duration) (*schema.Message, error) {
	timeout = CallTimeout(timeout)
	if timeout <= 0 {
		return nil, jack.ErrTransport.With("no time remaining")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Create JSON payload
	payload, err := client.NewJSONRequest(completionRequest{
		Model:    c.model,
		Messages: conversation,
		Tools:    tools,
	})
	if err != nil {
		return nil, jack.ErrTransport.Wrap(err)
	}

	var response completionResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("chat", "completions")); err != nil {
		return nil, jack.ErrTransport.Wrap(err)
	}
	return processResponse(&response)
}

// CallTimeout returns the timeout for a single round trip given the
// remaining budget
func CallTimeout(remaining time.Duration) time.Duration {
	return min(remaining, MaxCallTimeout)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func processResponse(response *completionResponse) (*schema.Message, error) {
	if response.Error != nil {
		return nil, jack.ErrTransport.With(response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return nil, jack.ErrTransport.With("no choices in response")
	}

	message := response.Choices[0].Message
	if message.Role == "" {
		message.Role = schema.RoleAssistant
	}

	// Some providers omit the call type, but it must be echoed back
	for i := range message.ToolCalls {
		if message.ToolCalls[i].Type == "" {
			message.ToolCalls[i].Type = schema.ToolTypeFunction
		}
	}
	return &message, nil
}
