package main

import (
	"io"

	// Packages
	logger "github.com/mutablelogic/go-jack/pkg/logger"
	bubbletea "github.com/mutablelogic/go-jack/pkg/ui/bubbletea"
	command "github.com/mutablelogic/go-jack/pkg/ui/command"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ChatCmd struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ChatCmd) Run(ctx *Globals) error {
	router, err := ctx.Router()
	if err != nil {
		return err
	}

	// The terminal belongs to the chat
	if err := logger.Configure(ctx.Log.Level, ctx.Log.Format, io.Discard); err != nil {
		return err
	}

	term, err := bubbletea.New()
	if err != nil {
		return err
	}
	defer term.Close()

	return command.New(router, 0).Serve(ctx.ctx, term, 0)
}
