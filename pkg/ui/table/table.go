// Package table renders rows of knowledge-base data as terminal tables
// with lipgloss, sized to the terminal width.
package table

import (
	"fmt"
	"os"
	"slices"
	"strings"

	// Packages
	lipgloss "github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	truncate "github.com/muesli/reflow/truncate"
	schema "github.com/mutablelogic/go-jack/pkg/schema"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Data is a source of rows
type Data interface {
	Header() []string
	Len() int
	Row(i int) []string
}

// Search adapts search results to rows
type Search schema.SearchResult

// Tools adapts the tool catalog to rows
type Tools []schema.ToolDefinition

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// CellWidth limits long cells, such as previews and descriptions
	CellWidth = 60

	empty = "-"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	borderStyle = lipgloss.NewStyle().Faint(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Render returns the data as a table. When the table is wider than the
// terminal, it is constrained to the terminal width.
func Render(data Data) string {
	t := lgtable.New().
		Headers(data.Header()...).
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Wrap(true).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})
	for i := range data.Len() {
		row := data.Row(i)
		for j := range row {
			row[j] = Cell(row[j])
		}
		t.Row(row...)
	}

	result := t.Render()
	if width := terminalWidth(); width > 0 && lipgloss.Width(result) > width {
		result = t.Width(width).Render()
	}
	return result
}

// Cell returns a single-line cell, cut to CellWidth with an ellipsis
func Cell(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return empty
	}
	return truncate.StringWithTail(value, CellWidth, "…")
}

///////////////////////////////////////////////////////////////////////////////
// SEARCH

func (s Search) Header() []string {
	return []string{"ID", "Title", "Score", "Tags", "Preview"}
}

func (s Search) Len() int {
	return len(s.Results)
}

func (s Search) Row(i int) []string {
	node := s.Results[i]
	return []string{
		node.ShortID(),
		node.Title,
		fmt.Sprintf("%.2f", node.Similarity),
		strings.Join(node.Tags, " "),
		node.BodyPreview,
	}
}

///////////////////////////////////////////////////////////////////////////////
// TOOLS

func (t Tools) Header() []string {
	return []string{"Name", "Parameters", "Description"}
}

func (t Tools) Len() int {
	return len(t)
}

func (t Tools) Row(i int) []string {
	fn := t[i].Function
	var params []string
	if fn.Parameters != nil {
		required := make(map[string]bool, len(fn.Parameters.Required))
		for _, name := range fn.Parameters.Required {
			required[name] = true
		}
		for name := range fn.Parameters.Properties {
			if required[name] {
				name += "*"
			}
			params = append(params, name)
		}
	}
	slices.Sort(params)
	return []string{fn.Name, strings.Join(params, " "), fn.Description}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return width
	}
	return 0
}

