package main

import (
	"fmt"
	"os"
	"strings"

	// Packages
	glamour "github.com/charmbracelet/glamour"
	termenv "github.com/muesli/termenv"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	jack "github.com/mutablelogic/go-jack"
	agent "github.com/mutablelogic/go-jack/pkg/agent"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type AskCmd struct {
	Question []string `arg:"" help:"Question to ask"`
	System   string   `name:"system-prompt" help:"Replace the default system prompt"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	maxWordWrap = 100
)

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *AskCmd) Run(ctx *Globals) (err error) {
	question := strings.TrimSpace(strings.Join(cmd.Question, " "))
	if question == "" {
		return jack.ErrBadParameter.With("question is required")
	}
	backend, err := ctx.Backend()
	if err != nil {
		return err
	}
	a, err := ctx.Agent()
	if err != nil {
		return err
	} else if a == nil {
		return jack.ErrBadParameter.With("JACK_OPENROUTER_API_KEY is required to ask questions")
	}
	prompt := cmd.System
	if prompt == "" {
		prompt = agent.DefaultSystemPrompt
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "AskCmd")
	defer func() { endSpan(err) }()

	answer, err := a.Run(parent, question, prompt, backend)
	if err != nil {
		return err
	}
	return printMarkdown(answer)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// printMarkdown renders Markdown when stdout is a terminal, and writes it
// unchanged otherwise
func printMarkdown(text string) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		_, err := fmt.Println(text)
		return err
	}

	style := "dark"
	if !termenv.HasDarkBackground() {
		style = "light"
	}
	width := maxWordWrap
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		width = min(w, maxWordWrap)
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithStylePath(style), glamour.WithWordWrap(width))
	if err != nil {
		return err
	}
	out, err := renderer.Render(text)
	if err != nil {
		return err
	}
	_, err = fmt.Print(out)
	return err
}
