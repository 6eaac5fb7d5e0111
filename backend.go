package jack

import (
	"context"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-jack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Backend is the set of knowledge-base operations exposed to the agent
// and to the chat commands. Implementations talk to the Forest server over
// HTTP or run the forest binary as a subprocess.
type Backend interface {
	// Search performs a semantic search, returning at most limit nodes
	Search(ctx context.Context, query string, limit int) (*schema.SearchResult, error)

	// Read returns a node and its body by id or unique id prefix
	Read(ctx context.Context, ref string) (*schema.ReadResult, error)

	// Capture creates a new node. Tags is a comma-separated list and may
	// be empty.
	Capture(ctx context.Context, title, body, tags string) (*schema.CaptureResult, error)

	// Stats returns node and edge counts, degree statistics and recent nodes
	Stats(ctx context.Context) (*schema.StatsResult, error)

	// Synthesize creates a new node from two or more existing nodes.
	// Backends which cannot do this return ErrNotImplemented.
	Synthesize(ctx context.Context, ids []string) (*schema.SynthesizeResult, error)
}

// Completer returns the next assistant turn for a conversation, offering
// the model the given tools. The call must not run for longer than timeout.
type Completer interface {
	Complete(ctx context.Context, conversation schema.Conversation, tools []schema.ToolDefinition, timeout time.Duration) (*schema.Message, error)
}
