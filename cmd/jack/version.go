package main

import (
	"fmt"

	// Packages
	version "github.com/mutablelogic/go-jack/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type VersionCmd struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *VersionCmd) Run(ctx *Globals) error {
	fmt.Println(version.Get(ctx.execName))
	return nil
}
