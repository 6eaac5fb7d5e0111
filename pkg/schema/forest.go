package schema

import (
	"encoding/json"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Node is a Forest knowledge-base node. Search results carry a similarity
// score and a body preview; reads carry the full body. Fields the server
// sends which are not modelled here are kept in Extra, and written back
// out alongside the others.
type Node struct {
	ID          string         `json:"id"`
	Title       string         `json:"title,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Similarity  float64        `json:"similarity,omitempty"`
	BodyPreview string         `json:"bodyPreview,omitempty"`
	Body        string         `json:"body,omitempty"`
	CreatedAt   string         `json:"createdAt,omitempty"`
	Extra       map[string]any `json:"-"`
}

// node has the fields of Node without its JSON methods
type node Node

type SearchResult struct {
	Query   string `json:"query"`
	Results []Node `json:"results"`
	Total   int    `json:"total"`
}

type ReadResult struct {
	Node Node   `json:"node"`
	Body string `json:"body"`
}

type CaptureResult struct {
	Node  Node  `json:"node"`
	Links Links `json:"links"`
}

// Links reports how many edges were created automatically on capture
type Links struct {
	Accepted int `json:"accepted"`
}

type StatsResult struct {
	Counts Counts `json:"counts"`
	Degree Degree `json:"degree"`
	Recent []Node `json:"recent,omitempty"`
}

type Counts struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

type Degree struct {
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

type SynthesizeResult struct {
	Node    Node     `json:"node"`
	Sources []string `json:"sources,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// ShortIDLength is the number of id characters shown to users
const ShortIDLength = 8

// JSON keys of the modelled node fields
var nodeFields = []string{"id", "title", "tags", "similarity", "bodyPreview", "body", "createdAt"}

////////////////////////////////////////////////////////////////////////////////
// JSON

func (n *Node) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, (*node)(n)); err != nil {
		return err
	} else if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, key := range nodeFields {
		delete(fields, key)
	}
	n.Extra = nil
	if len(fields) > 0 {
		n.Extra = fields
	}
	return nil
}

func (n Node) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(node(n))
	if err != nil || len(n.Extra) == 0 {
		return data, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for key, value := range n.Extra {
		if _, exists := fields[key]; !exists {
			fields[key] = value
		}
	}
	return json.Marshal(fields)
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r SearchResult) String() string {
	return types.Stringify(r)
}

func (r ReadResult) String() string {
	return types.Stringify(r)
}

func (r StatsResult) String() string {
	return types.Stringify(r)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ShortID returns the id prefix used for display and for read buttons
func (n Node) ShortID() string {
	if len(n.ID) > ShortIDLength {
		return n.ID[:ShortIDLength]
	}
	return n.ID
}
