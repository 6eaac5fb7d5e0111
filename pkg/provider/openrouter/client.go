/*
openrouter implements a chat completions client for OpenRouter and other
providers which speak the same wire format.
https://openrouter.ai/docs/api-reference/chat-completion
*/
package openrouter

import (
	"strings"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	jack "github.com/mutablelogic/go-jack"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client
	model string
}

var _ jack.Completer = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// DefaultEndpoint is the OpenRouter API base URL
	DefaultEndpoint = "https://openrouter.ai/api/v1"

	// DefaultModel is used when no model is configured
	DefaultModel = "anthropic/claude-sonnet-4"

	// MaxCallTimeout caps a single completion round trip
	MaxCallTimeout = 45 * time.Second

	// Sent to OpenRouter for attribution
	appTitle = "Jack"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client for the given base URL, API key and model. An
// empty base URL or model selects the defaults.
func New(endpoint, apiKey, model string, opts ...client.ClientOpt) (*Client, error) {
	if apiKey == "" {
		return nil, jack.ErrBadParameter.With("api key is required")
	}
	if endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/"); endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}

	// Allow for the longest call; Complete sets a tighter deadline
	opts = append([]client.ClientOpt{client.OptTimeout(MaxCallTimeout)}, opts...)
	opts = append(opts,
		client.OptEndpoint(endpoint),
		client.OptReqToken(client.Token{Scheme: client.Bearer, Value: apiKey}),
		client.OptHeader("X-Title", appTitle),
	)
	if c, err := client.New(opts...); err != nil {
		return nil, err
	} else {
		return &Client{c, model}, nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Model returns the model used for completions
func (c *Client) Model() string {
	return c.model
}
