/*
forestapi implements the knowledge-base backend over the Forest REST API.
Every response is an envelope with a success flag, the data and an
optional error message.
*/
package forestapi

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
}

var _ jack.Backend = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// DefaultURL is the Forest server used when none is configured
	DefaultURL = "http://localhost:3000"

	// DefaultTimeout applies to every request except synthesis
	DefaultTimeout = 30 * time.Second

	// SynthesizeTimeout applies to synthesis, which runs a model server-side
	SynthesizeTimeout = 120 * time.Second

	apiPath = "/api/v1"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client for the Forest server at url, authenticating with
// the API key
func New(url, apiKey string, opts ...client.ClientOpt) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, jack.ErrBadParameter.With("forest api key is required")
	}
	if url = strings.TrimRight(strings.TrimSpace(url), "/"); url == "" {
		url = DefaultURL
	}

	opts = append([]client.ClientOpt{client.OptTimeout(DefaultTimeout)}, opts...)
	opts = append(opts,
		client.OptEndpoint(url+apiPath),
		client.OptReqToken(client.Token{Scheme: client.Bearer, Value: apiKey}),
	)
	if c, err := client.New(opts...); err != nil {
		return nil, err
	} else {
		return &Client{c}, nil
	}
}
