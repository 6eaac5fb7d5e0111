// Package tool defines the fixed set of Forest tools offered to the model,
// their JSON schemas, and the dispatcher which routes a requested call to
// a knowledge-base backend.
package tool

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Name identifies one of the Forest tools
type Name string

// Arguments are the decoded arguments of a tool call
type Arguments map[string]any

// SearchRequest are the arguments for forest_search
type SearchRequest struct {
	Query string `json:"query" jsonschema:"The search query."`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results to return (default 5)."`
}

// ReadRequest are the arguments for forest_read
type ReadRequest struct {
	Ref string `json:"ref" jsonschema:"UUID prefix (4+ characters) of the node to read."`
}

// CaptureRequest are the arguments for forest_capture
type CaptureRequest struct {
	Title string `json:"title" jsonschema:"Short title (3-8 words)."`
	Body  string `json:"body" jsonschema:"Full note body."`
	Tags  string `json:"tags,omitempty" jsonschema:"Comma-separated tags, e.g. 'project:forest,tech:rust'."`
}

// StatsRequest has no arguments
type StatsRequest struct{}

// SynthesizeRequest are the arguments for forest_synthesize
type SynthesizeRequest struct {
	NodeIDs []string `json:"node_ids" jsonschema:"List of 2+ node UUID prefixes to synthesize."`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	Search     Name = "forest_search"
	Read       Name = "forest_read"
	Capture    Name = "forest_capture"
	Stats      Name = "forest_stats"
	Synthesize Name = "forest_synthesize"
)

const (
	// DefaultSearchLimit is used when forest_search is called without a limit
	DefaultSearchLimit = 5

	// MinSynthesizeNodes is the fewest nodes forest_synthesize accepts
	MinSynthesizeNodes = 2
)

// Names lists every tool in catalog order
var Names = []Name{Search, Read, Capture, Stats, Synthesize}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Valid returns true if the name is one of the Forest tools
func (n Name) Valid() bool {
	switch n {
	case Search, Read, Capture, Stats, Synthesize:
		return true
	default:
		return false
	}
}

// ReadOnly returns true for tools which do not change the knowledge base,
// and so can safely run concurrently
func (n Name) ReadOnly() bool {
	switch n {
	case Search, Read, Stats:
		return true
	default:
		return false
	}
}

// Description returns the human-readable description sent to the model
func (n Name) Description() string {
	switch n {
	case Search:
		return "Search the Forest knowledge base for nodes matching a query."
	case Read:
		return "Read a Forest node's full body by UUID prefix."
	case Capture:
		return "Capture a new note in the Forest knowledge base."
	case Stats:
		return "Get Forest knowledge base statistics (node/edge counts, recent nodes)."
	case Synthesize:
		return "Synthesize a new article from 2+ existing nodes. Takes node UUID prefixes, " +
			"asks the Forest server to write a synthesis, and saves it as a new node. " +
			"This is slow (30-90s)."
	default:
		return ""
	}
}
