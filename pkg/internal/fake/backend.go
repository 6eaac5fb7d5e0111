// Package fake provides in-memory stand-ins for the backend and the
// completion client, for use in tests.
package fake

import (
	"context"
	"strings"
	"sync"

	// Packages
	jack "github.com/mutablelogic/go-jack"
	schema "github.com/mutablelogic/go-jack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Backend records every call made to it and answers from fixed results.
// A non-nil Err is returned from every operation instead.
type Backend struct {
	sync.Mutex

	SearchResult     *schema.SearchResult
	ReadResult       *schema.ReadResult
	CaptureResult    *schema.CaptureResult
	StatsResult      *schema.StatsResult
	SynthesizeResult *schema.SynthesizeResult
	Err              error

	Calls []Call
}

// Call is a single recorded backend operation
type Call struct {
	Op   string
	Args []any
}

var _ jack.Backend = (*Backend)(nil)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (b *Backend) Search(_ context.Context, query string, limit int) (*schema.SearchResult, error) {
	b.record("search", query, limit)
	if b.Err != nil {
		return nil, b.Err
	}
	if b.SearchResult != nil {
		return b.SearchResult, nil
	}
	return &schema.SearchResult{Query: query, Results: []schema.Node{}}, nil
}

func (b *Backend) Read(_ context.Context, ref string) (*schema.ReadResult, error) {
	b.record("read", ref)
	if b.Err != nil {
		return nil, b.Err
	}
	if b.ReadResult != nil {
		return b.ReadResult, nil
	}
	return nil, jack.ErrNotFound.With(ref)
}

func (b *Backend) Capture(_ context.Context, title, body, tags string) (*schema.CaptureResult, error) {
	b.record("capture", title, body, tags)
	if b.Err != nil {
		return nil, b.Err
	}
	if b.CaptureResult != nil {
		return b.CaptureResult, nil
	}
	return &schema.CaptureResult{Node: schema.Node{ID: "00000000-new", Title: title}}, nil
}

func (b *Backend) Stats(_ context.Context) (*schema.StatsResult, error) {
	b.record("stats")
	if b.Err != nil {
		return nil, b.Err
	}
	if b.StatsResult != nil {
		return b.StatsResult, nil
	}
	return &schema.StatsResult{}, nil
}

func (b *Backend) Synthesize(_ context.Context, ids []string) (*schema.SynthesizeResult, error) {
	b.record("synthesize", strings.Join(ids, ","))
	if b.Err != nil {
		return nil, b.Err
	}
	if b.SynthesizeResult != nil {
		return b.SynthesizeResult, nil
	}
	return nil, jack.ErrNotImplemented.With("synthesize is not supported")
}

// Ops returns the names of the recorded operations, in call order
func (b *Backend) Ops() []string {
	b.Lock()
	defer b.Unlock()
	result := make([]string, 0, len(b.Calls))
	for _, call := range b.Calls {
		result = append(result, call.Op)
	}
	return result
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (b *Backend) record(op string, args ...any) {
	b.Lock()
	defer b.Unlock()
	b.Calls = append(b.Calls, Call{Op: op, Args: args})
}
