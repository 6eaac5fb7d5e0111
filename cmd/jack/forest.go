package main

import (
	"fmt"
	"strings"

	// Packages
	jack "github.com/mutablelogic/go-jack"
	table "github.com/mutablelogic/go-jack/pkg/ui/table"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type SearchCmd struct {
	Query []string `arg:"" help:"Search query"`
	Limit int      `name:"limit" short:"n" default:"10" help:"Maximum number of results"`
	JSON  bool     `name:"json" help:"Print JSON instead of a table"`
}

type ReadCmd struct {
	Ref string `arg:"" help:"Node id or id prefix"`
}

type StatsCmd struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *SearchCmd) Run(ctx *Globals) error {
	query := strings.TrimSpace(strings.Join(cmd.Query, " "))
	if query == "" {
		return jack.ErrBadParameter.With("query is required")
	}
	backend, err := ctx.Backend()
	if err != nil {
		return err
	}
	result, err := backend.Search(ctx.ctx, query, cmd.Limit)
	if err != nil {
		return err
	}
	if cmd.JSON {
		fmt.Println(result)
	} else {
		fmt.Println(table.Render(table.Search(*result)))
	}
	return nil
}

func (cmd *ReadCmd) Run(ctx *Globals) error {
	backend, err := ctx.Backend()
	if err != nil {
		return err
	}
	result, err := backend.Read(ctx.ctx, cmd.Ref)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}

func (cmd *StatsCmd) Run(ctx *Globals) error {
	backend, err := ctx.Backend()
	if err != nil {
		return err
	}
	result, err := backend.Stats(ctx.ctx)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}
