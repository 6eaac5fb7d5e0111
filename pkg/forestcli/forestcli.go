// Package forestcli implements the knowledge-base backend by running the
// forest command-line tool with JSON output.
package forestcli

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	// Packages
	jack "github.com/mutablelogic/go-jack"
	cli "github.com/mutablelogic/go-jack/pkg/cli"
	schema "github.com/mutablelogic/go-jack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	runner *cli.Runner
}

var _ jack.Backend = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultBin = "forest"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a backend which runs the forest binary
func New(bin string, opts ...cli.Opt) (*Client, error) {
	if bin == "" {
		bin = DefaultBin
	}
	runner, err := cli.New(bin, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{runner: runner}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (c *Client) Search(ctx context.Context, query string, limit int) (*schema.SearchResult, error) {
	var result schema.SearchResult
	if err := c.run(ctx, "", &result, "search", query, "--limit", strconv.Itoa(limit)); err != nil {
		return nil, err
	}
	if result.Query == "" {
		result.Query = query
	}
	if result.Results == nil {
		result.Results = []schema.Node{}
	}
	return &result, nil
}

func (c *Client) Read(ctx context.Context, ref string) (*schema.ReadResult, error) {
	var result schema.ReadResult
	if err := c.run(ctx, "", &result, "read", ref); err != nil {
		return nil, err
	}
	if result.Body == "" {
		result.Body = result.Node.Body
	}
	return &result, nil
}

// Capture creates a node, passing the body on standard input
func (c *Client) Capture(ctx context.Context, title, body, tags string) (*schema.CaptureResult, error) {
	args := []string{"capture", "--title", title, "--stdin"}
	if tags = strings.TrimSpace(tags); tags != "" {
		args = append(args, "--tags", tags)
	}
	var result schema.CaptureResult
	if err := c.run(ctx, body, &result, args...); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Stats(ctx context.Context) (*schema.StatsResult, error) {
	var result schema.StatsResult
	if err := c.run(ctx, "", &result, "stats"); err != nil {
		return nil, err
	}
	return &result, nil
}

// Synthesize is not offered by the command-line tool
func (c *Client) Synthesize(context.Context, []string) (*schema.SynthesizeResult, error) {
	return nil, jack.ErrNotImplemented.With("synthesize is not supported in cli mode")
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c *Client) run(ctx context.Context, stdin string, v any, args ...string) error {
	out, err := c.runner.Run(ctx, stdin, append(args, "--json")...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		return jack.ErrInternalServerError.Withf("%s: invalid output: %v", c.runner.Bin(), err)
	}
	return nil
}
