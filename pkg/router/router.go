// Package router maps chat commands and free text to knowledge-base
// operations, portfolio tools and the agent, returning formatted replies.
package router

import (
	"context"
	"strings"

	// Packages
	jack "github.com/mutablelogic/go-jack"
	format "github.com/mutablelogic/go-jack/pkg/format"
	logger "github.com/mutablelogic/go-jack/pkg/logger"
	portfolio "github.com/mutablelogic/go-jack/pkg/portfolio"
	tool "github.com/mutablelogic/go-jack/pkg/tool"
	ui "github.com/mutablelogic/go-jack/pkg/ui"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Agent answers free text
type Agent interface {
	Run(ctx context.Context, userMessage, systemPrompt string, backend jack.Backend) (string, error)
}

type Router struct {
	forest jack.Backend
	ideas  *portfolio.Ideas
	novels *portfolio.Novels
	agent  Agent
	prompt string
}

// Opt configures a router
type Opt func(*Router) error

// Reply is the response to a single message
type Reply struct {
	Text    string
	Format  Format
	Buttons []ui.Button
}

// Format is the markup of a reply
type Format int

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	HTML Format = iota
	Markdown
)

// EmptyAnswer is the reply when the agent answers with no text
const EmptyAnswer = "I don't have anything to say to that. Try asking another way?"

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a router for the knowledge-base backend
func New(forest jack.Backend, opts ...Opt) (*Router, error) {
	if forest == nil {
		return nil, jack.ErrBadParameter.With("backend is required")
	}
	r := &Router{forest: forest}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// WithPortfolio enables the idea and novel commands
func WithPortfolio(ideas *portfolio.Ideas, novels *portfolio.Novels) Opt {
	return func(r *Router) error {
		r.ideas, r.novels = ideas, novels
		return nil
	}
}

// WithAgent answers free text with the agent and system prompt
func WithAgent(agent Agent, systemPrompt string) Opt {
	return func(r *Router) error {
		if agent == nil {
			return jack.ErrBadParameter.With("agent is required")
		}
		r.agent, r.prompt = agent, systemPrompt
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// HasAgent returns true if free text is answered by the agent
func (r *Router) HasAgent() bool {
	return r.agent != nil
}

// Command handles a command without its leading slash
func (r *Router) Command(ctx context.Context, command, args string) Reply {
	reply, err := r.command(ctx, command, args)
	if err != nil {
		logger.FromContext(ctx, "router").WithField("command", command).WithError(err).Warn("command failed")
		return html(format.Error(err))
	}
	return reply
}

// Text handles free text: a question for the agent when there is one,
// otherwise a search
func (r *Router) Text(ctx context.Context, text string) Reply {
	if r.agent == nil {
		reply, err := r.search(ctx, text)
		if err != nil {
			return html(format.Error(err))
		}
		return reply
	}

	answer, err := r.agent.Run(ctx, text, r.prompt, r.forest)
	if err != nil {
		logger.FromContext(ctx, "router").WithError(err).Error("agent failed")
		return html(format.Error(err))
	}
	if strings.TrimSpace(answer) == "" {
		answer = EmptyAnswer
	}
	return Reply{Text: answer, Format: Markdown}
}

// Callback handles the data of a pressed button
func (r *Router) Callback(ctx context.Context, data string) (Reply, bool) {
	ref, ok := strings.CutPrefix(data, format.ReadPrefix)
	if !ok || ref == "" {
		return Reply{}, false
	}
	return r.Command(ctx, "read", ref), true
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (r *Router) command(ctx context.Context, command, args string) (Reply, error) {
	switch command {
	case "search", "s":
		if args == "" {
			return usage("/search <query>"), nil
		}
		return r.search(ctx, args)
	case "read", "r":
		if args == "" {
			return usage("/read <ref>"), nil
		}
		result, err := r.forest.Read(ctx, args)
		if err != nil {
			return Reply{}, err
		}
		return html(format.Read(result)), nil
	case "capture", "c":
		if args == "" {
			return usage("/capture Title | Body | #tags"), nil
		}
		title, body, tags := ParseCapture(args)
		result, err := r.forest.Capture(ctx, title, body, tags)
		if err != nil {
			return Reply{}, err
		}
		return html(format.Capture(result)), nil
	case "stats":
		result, err := r.forest.Stats(ctx)
		if err != nil {
			return Reply{}, err
		}
		return html(format.Stats(result)), nil
	case "ideas", "idea", "projects", "project", "portfolio":
		if r.ideas == nil {
			return Reply{}, jack.ErrUnavailable.Withf("/%s is not available", command)
		}
		return r.portfolio(ctx, command, args)
	case "novels", "novel":
		if r.novels == nil {
			return Reply{}, jack.ErrUnavailable.Withf("/%s is not available", command)
		}
		return r.novel(ctx, command, args)
	default:
		return html(format.Help(r.ideas != nil && r.novels != nil)), nil
	}
}

func (r *Router) search(ctx context.Context, query string) (Reply, error) {
	result, err := r.forest.Search(ctx, query, tool.DefaultSearchLimit)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: format.Search(result), Buttons: format.SearchButtons(result)}, nil
}

func (r *Router) portfolio(ctx context.Context, command, args string) (Reply, error) {
	var label, text string
	var err error
	switch command {
	case "ideas":
		label = "Ideas"
		text, err = r.ideas.Ideas(ctx, args)
	case "idea":
		if args == "" {
			return usage("/idea <name>"), nil
		}
		label = "Idea: " + args
		text, err = r.ideas.Idea(ctx, args)
	case "projects":
		label = "Projects"
		text, err = r.ideas.Projects(ctx, args)
	case "project":
		if args == "" {
			return usage("/project <name>"), nil
		}
		label = "Project: " + args
		text, err = r.ideas.Project(ctx, args)
	case "portfolio":
		if args == "" {
			return usage("/portfolio <query>"), nil
		}
		label = "Portfolio: " + args
		text, err = r.ideas.Search(ctx, args)
	}
	if err != nil {
		return Reply{}, err
	}
	return html(format.Text(label, text)), nil
}

func (r *Router) novel(ctx context.Context, command, args string) (Reply, error) {
	if command == "novels" {
		text, err := r.novels.List(ctx, args)
		if err != nil {
			return Reply{}, err
		}
		return html(format.Text("Novels", text)), nil
	}
	if args == "" {
		return usage("/novel <name>"), nil
	}
	text, err := r.novels.Show(ctx, args)
	if err != nil {
		return Reply{}, err
	}
	return html(format.Text("Novel: "+args, text)), nil
}

// ParseCapture splits "Title | Body | tags". The body defaults to the title.
func ParseCapture(args string) (title, body, tags string) {
	parts := strings.Split(args, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	title, body = parts[0], parts[0]
	if len(parts) > 1 {
		body = parts[1]
	}
	if len(parts) > 2 {
		tags = parts[2]
	}
	return title, body, tags
}

func usage(text string) Reply {
	return Reply{Text: "Usage: " + format.Escape(text)}
}

func html(text string) Reply {
	return Reply{Text: text}
}
