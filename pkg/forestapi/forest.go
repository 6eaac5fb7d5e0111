package forestapi

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	jack "github.com/mutablelogic/go-jack"
	schema "github.com/mutablelogic/go-jack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Search runs a semantic search
func (c *Client) Search(ctx context.Context, query string, limit int) (*schema.SearchResult, error) {
	var response envelope[searchData]
	if err := c.DoWithContext(ctx, nil, &response,
		client.OptPath("search", "semantic"),
		client.OptQuery(url.Values{"q": {query}, "limit": {strconv.Itoa(limit)}}),
	); err != nil {
		return nil, jack.ErrUnavailable.Wrap(err)
	}
	data, err := response.unwrap()
	if err != nil {
		return nil, err
	}

	result := &schema.SearchResult{Query: query, Results: data.Nodes, Total: len(data.Nodes)}
	if result.Results == nil {
		result.Results = []schema.Node{}
	}
	if data.Pagination.Total != nil {
		result.Total = *data.Pagination.Total
	}
	return result, nil
}

// Read returns a node with its body. The reference is an id or id prefix.
func (c *Client) Read(ctx context.Context, ref string) (*schema.ReadResult, error) {
	var response envelope[nodeData]
	if err := c.DoWithContext(ctx, nil, &response,
		client.OptPath("nodes", ref),
		client.OptQuery(url.Values{"includeBody": {"true"}, "includeEdges": {"false"}}),
	); err != nil {
		return nil, jack.ErrUnavailable.Wrap(err)
	}
	data, err := response.unwrap()
	if err != nil {
		return nil, err
	}
	return &schema.ReadResult{Node: data.Node, Body: data.Node.Body}, nil
}

// Capture creates a node. Tags are comma-separated, with any leading '#'
// removed.
func (c *Client) Capture(ctx context.Context, title, body, tags string) (*schema.CaptureResult, error) {
	payload, err := client.NewJSONRequest(captureRequest{
		Title: title,
		Body:  body,
		Tags:  SplitTags(tags),
	})
	if err != nil {
		return nil, jack.ErrBadParameter.Wrap(err)
	}

	var response envelope[captureData]
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("nodes")); err != nil {
		return nil, jack.ErrUnavailable.Wrap(err)
	}
	data, err := response.unwrap()
	if err != nil {
		return nil, err
	}

	result := &schema.CaptureResult{Node: data.Node}
	if data.Linking.AutoLinked != nil {
		result.Links.Accepted = *data.Linking.AutoLinked
	} else if data.Linking.EdgesCreated != nil {
		result.Links.Accepted = *data.Linking.EdgesCreated
	}
	return result, nil
}

// Stats returns node and edge counts with the most recent nodes. The API
// reports no degree statistics, so those are zero.
func (c *Client) Stats(ctx context.Context) (*schema.StatsResult, error) {
	var response envelope[statsData]
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("stats")); err != nil {
		return nil, jack.ErrUnavailable.Wrap(err)
	}
	data, err := response.unwrap()
	if err != nil {
		return nil, err
	}
	return &schema.StatsResult{
		Counts: schema.Counts{Nodes: data.Nodes.Total, Edges: data.Edges.Total},
		Recent: data.Nodes.Recent,
	}, nil
}

// Synthesize asks the server to write a new node from the given nodes.
// This is slow, so the client timeout is replaced by SynthesizeTimeout.
func (c *Client) Synthesize(ctx context.Context, ids []string) (*schema.SynthesizeResult, error) {
	payload, err := client.NewJSONRequest(synthesizeRequest{NodeIDs: ids})
	if err != nil {
		return nil, jack.ErrBadParameter.Wrap(err)
	}

	ctx, cancel := context.WithTimeout(ctx, SynthesizeTimeout)
	defer cancel()

	var response envelope[synthesizeData]
	if err := c.DoWithContext(ctx, payload, &response,
		client.OptPath("documents", "synthesize"),
		client.OptNoTimeout(),
	); err != nil {
		return nil, jack.ErrUnavailable.Wrap(err)
	}
	data, err := response.unwrap()
	if err != nil {
		return nil, err
	}
	return &schema.SynthesizeResult{Node: data.Node, Sources: data.Sources}, nil
}

// SplitTags splits a comma-separated tag list, trimming whitespace and a
// leading '#' from each tag and dropping empty tags
func SplitTags(tags string) []string {
	var result []string
	for _, tag := range strings.Split(tags, ",") {
		if tag = strings.TrimLeft(strings.TrimSpace(tag), "#"); tag != "" {
			result = append(result, tag)
		}
	}
	return result
}
