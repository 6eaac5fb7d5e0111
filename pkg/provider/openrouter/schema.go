package openrouter

import (
	// Packages
	schema "github.com/mutablelogic/go-jack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// REQUEST TYPES

// completionRequest is the request body for POST /chat/completions
type completionRequest struct {
	Model    string                  `json:"model"`
	Messages schema.Conversation     `json:"messages"`
	Tools    []schema.ToolDefinition `json:"tools,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// RESPONSE TYPES

// completionResponse is the response from POST /chat/completions
type completionResponse struct {
	ID      string           `json:"id"`
	Model   string           `json:"model"`
	Choices []completionItem `json:"choices"`
	Usage   *completionUsage `json:"usage,omitempty"`
	Error   *completionError `json:"error,omitempty"`
}

type completionItem struct {
	Index        int            `json:"index"`
	Message      schema.Message `json:"message"`
	FinishReason string         `json:"finish_reason,omitempty"`
}

type completionUsage struct {
	PromptTokens     uint `json:"prompt_tokens"`
	CompletionTokens uint `json:"completion_tokens"`
	TotalTokens      uint `json:"total_tokens"`
}

// completionError is returned in the body by some upstream providers,
// even with a success status
type completionError struct {
	Code    any    `json:"code,omitempty"`
	Message string `json:"message"`
}
