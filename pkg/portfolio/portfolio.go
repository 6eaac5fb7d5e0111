// Package portfolio wraps the idea and novel command-line tools, which
// produce plain text for display.
package portfolio

import (
	"context"
	"strings"

	// Packages
	cli "github.com/mutablelogic/go-jack/pkg/cli"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Ideas runs the portfolio tool (icli)
type Ideas struct {
	runner *cli.Runner
}

// Novels runs the novel tool (ncli)
type Novels struct {
	runner *cli.Runner
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultIdeasBin  = "icli"
	DefaultNovelsBin = "ncli"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewIdeas(bin string, opts ...cli.Opt) (*Ideas, error) {
	if bin == "" {
		bin = DefaultIdeasBin
	}
	runner, err := cli.New(bin, opts...)
	if err != nil {
		return nil, err
	}
	return &Ideas{runner: runner}, nil
}

func NewNovels(bin string, opts ...cli.Opt) (*Novels, error) {
	if bin == "" {
		bin = DefaultNovelsBin
	}
	runner, err := cli.New(bin, opts...)
	if err != nil {
		return nil, err
	}
	return &Novels{runner: runner}, nil
}

///////////////////////////////////////////////////////////////////////////////
// IDEAS

// Search searches across ideas and projects
func (i *Ideas) Search(ctx context.Context, query string) (string, error) {
	return i.runner.Run(ctx, "", "search", query)
}

// Ideas lists ideas, optionally filtered by a query
func (i *Ideas) Ideas(ctx context.Context, query string) (string, error) {
	return i.runner.Run(ctx, "", withQuery([]string{"ideas"}, query)...)
}

// Idea shows a single idea
func (i *Ideas) Idea(ctx context.Context, name string) (string, error) {
	return i.runner.Run(ctx, "", "ideas", "show", name)
}

// Projects lists projects, optionally filtered by a query
func (i *Ideas) Projects(ctx context.Context, query string) (string, error) {
	return i.runner.Run(ctx, "", withQuery([]string{"projects"}, query)...)
}

// Project summarises a single project
func (i *Ideas) Project(ctx context.Context, name string) (string, error) {
	return i.runner.Run(ctx, "", "projects", "summary", name)
}

///////////////////////////////////////////////////////////////////////////////
// NOVELS

// List lists novels, optionally filtered by a query
func (n *Novels) List(ctx context.Context, query string) (string, error) {
	return n.runner.Run(ctx, "", withQuery([]string{"ls"}, query)...)
}

// Show shows a single novel
func (n *Novels) Show(ctx context.Context, name string) (string, error) {
	return n.runner.Run(ctx, "", "show", name)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func withQuery(args []string, query string) []string {
	if query = strings.TrimSpace(query); query != "" {
		args = append(args, "-q", query)
	}
	return args
}
