package main

import (
	"fmt"

	// Packages
	tool "github.com/mutablelogic/go-jack/pkg/tool"
	table "github.com/mutablelogic/go-jack/pkg/ui/table"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ToolsCmd struct {
	JSON bool `name:"json" help:"Print the tool definitions sent to the model"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ToolsCmd) Run(_ *Globals) error {
	catalog, err := tool.Catalog()
	if err != nil {
		return err
	}
	if cmd.JSON {
		fmt.Println(types.Stringify(catalog))
	} else {
		fmt.Println(table.Render(table.Tools(catalog)))
	}
	return nil
}
