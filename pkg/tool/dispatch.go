package tool

import (
	"context"
	"encoding/json"
	"strings"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	jack "github.com/mutablelogic/go-jack"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
	noop "go.opentelemetry.io/otel/trace/noop"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Dispatcher routes tool calls to a backend. A dispatch never fails: any
// error is encoded into the result so the model can see it.
type Dispatcher struct {
	backend jack.Backend
	tracer  trace.Tracer
}

// Result is the outcome of a single dispatch. Content is always valid JSON;
// when Err is set, Content is an object with an "error" key.
type Result struct {
	Content json.RawMessage
	Err     error
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewDispatcher returns a dispatcher for the backend. The tracer may be nil.
func NewDispatcher(backend jack.Backend, tracer trace.Tracer) *Dispatcher {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Dispatcher{backend: backend, tracer: tracer}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// DecodeArguments decodes the raw arguments of a tool call. Empty or
// malformed input, or input which is not a JSON object, yields empty
// arguments so the tool itself reports what is missing.
func DecodeArguments(raw string) Arguments {
	var args Arguments
	if strings.TrimSpace(raw) == "" {
		return Arguments{}
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return Arguments{}
	}
	return args
}

// Dispatch runs the named tool with decoded arguments
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args Arguments) (result Result) {
	ctx, endSpan := otel.StartSpan(d.tracer, ctx, "tool."+name,
		attribute.String("tool", name),
	)
	defer func() { endSpan(result.Err) }()

	value, err := d.run(ctx, Name(name), args)
	if err != nil {
		return errorResult(err.Error(), err)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errorResult(err.Error(), jack.ErrInternalServerError.Wrap(err))
	}
	return Result{Content: data}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (d *Dispatcher) run(ctx context.Context, name Name, args Arguments) (any, error) {
	if !name.Valid() {
		return nil, errUnknownTool{name}
	}

	// A null argument is treated as omitted, so optional ones take defaults
	args = withoutNulls(args)
	if err := validate(name, args); err != nil {
		return nil, err
	}

	switch name {
	case Search:
		var req SearchRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		} else if strings.TrimSpace(req.Query) == "" {
			return nil, jack.ErrBadParameter.With("query is required")
		}
		if req.Limit <= 0 {
			req.Limit = DefaultSearchLimit
		}
		return d.backend.Search(ctx, req.Query, req.Limit)
	case Read:
		var req ReadRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		} else if strings.TrimSpace(req.Ref) == "" {
			return nil, jack.ErrBadParameter.With("ref is required")
		}
		return d.backend.Read(ctx, req.Ref)
	case Capture:
		var req CaptureRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		} else if strings.TrimSpace(req.Title) == "" {
			return nil, jack.ErrBadParameter.With("title is required")
		}
		return d.backend.Capture(ctx, req.Title, req.Body, req.Tags)
	case Stats:
		return d.backend.Stats(ctx)
	case Synthesize:
		var req SynthesizeRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		} else if len(req.NodeIDs) < MinSynthesizeNodes {
			return nil, jack.ErrBadParameter.Withf("node_ids requires at least %d nodes", MinSynthesizeNodes)
		}
		return d.backend.Synthesize(ctx, req.NodeIDs)
	}

	// Unreachable while Valid and the switch agree
	return nil, errUnknownTool{name}
}

// validate checks the arguments against the tool schema
func validate(name Name, args Arguments) error {
	c, err := buildOnce()
	if err != nil {
		return jack.ErrInternalServerError.Wrap(err)
	}
	if resolved, exists := c.resolved[name]; exists {
		if err := resolved.Validate(map[string]any(args)); err != nil {
			return jack.ErrBadParameter.Wrap(err)
		}
	}
	return nil
}

func withoutNulls(args Arguments) Arguments {
	result := make(Arguments, len(args))
	for key, value := range args {
		if value != nil {
			result[key] = value
		}
	}
	return result
}

// decode converts decoded arguments into a typed request
func decode(args Arguments, v any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return jack.ErrBadParameter.Wrap(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return jack.ErrBadParameter.Wrap(err)
	}
	return nil
}

func errorResult(message string, err error) Result {
	data, _ := json.Marshal(map[string]string{"error": message})
	return Result{Content: data, Err: err}
}

///////////////////////////////////////////////////////////////////////////////
// ERRORS

type errUnknownTool struct {
	name Name
}

func (e errUnknownTool) Error() string {
	return "Unknown tool: " + string(e.name)
}

func (e errUnknownTool) Unwrap() error {
	return jack.ErrNotFound
}
