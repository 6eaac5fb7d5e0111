package tool

import (
	"fmt"
	"sync"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	schema "github.com/mutablelogic/go-jack/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type catalog struct {
	definitions []schema.ToolDefinition
	resolved    map[Name]*jsonschema.Resolved
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// The catalog is built once and never modified
var buildOnce = sync.OnceValues(newCatalog)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Catalog returns the tool definitions offered to the model, in a fixed
// order. The same definitions are returned on every call.
func Catalog() ([]schema.ToolDefinition, error) {
	c, err := buildOnce()
	if err != nil {
		return nil, err
	}
	return c.definitions, nil
}

// Schema returns the JSON schema for the arguments of a tool
func (n Name) Schema() (*jsonschema.Schema, error) {
	var s *jsonschema.Schema
	var err error
	switch n {
	case Search:
		s, err = jsonschema.For[SearchRequest](nil)
	case Read:
		s, err = jsonschema.For[ReadRequest](nil)
	case Capture:
		s, err = jsonschema.For[CaptureRequest](nil)
	case Stats:
		s, err = jsonschema.For[StatsRequest](nil)
	case Synthesize:
		if s, err = jsonschema.For[SynthesizeRequest](nil); err == nil {
			// Slices are inferred as nullable, but node_ids must be a real list
			ids := s.Properties["node_ids"]
			ids.Types, ids.Type = nil, "array"
			ids.MinItems = types.Ptr(MinSynthesizeNodes)
		}
	default:
		return nil, fmt.Errorf("unknown tool: %q", n)
	}
	if err != nil {
		return nil, err
	}

	// Models add the odd extra argument; ignore rather than reject it
	s.AdditionalProperties = nil
	return s, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func newCatalog() (*catalog, error) {
	c := &catalog{
		definitions: make([]schema.ToolDefinition, 0, len(Names)),
		resolved:    make(map[Name]*jsonschema.Resolved, len(Names)),
	}
	for _, name := range Names {
		if !types.IsIdentifier(string(name)) {
			return nil, fmt.Errorf("invalid tool name: %q", name)
		}
		s, err := name.Schema()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		resolved, err := s.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		c.resolved[name] = resolved
		c.definitions = append(c.definitions, schema.ToolDefinition{
			Type: schema.ToolTypeFunction,
			Function: schema.FunctionDefinition{
				Name:        string(name),
				Description: name.Description(),
				Parameters:  s,
			},
		})
	}
	return c, nil
}
