package telegram

import (
	"strconv"
	"strings"
	"unicode/utf16"

	// Packages
	gte "github.com/igor-pavlenko/goldmark-telegram/extension"
	gteast "github.com/igor-pavlenko/goldmark-telegram/extension/ast"
	goldmark "github.com/yuin/goldmark"
	ast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	text "github.com/yuin/goldmark/text"
	tele "gopkg.in/telebot.v4"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// renderer accumulates plain text and the entities which style it.
// Telegram measures entity offsets in UTF-16 code units.
type renderer struct {
	source   []byte
	buf      strings.Builder
	units    int
	entities tele.Entities
	open     map[ast.Node]int
	lists    []int
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// MaxUnits is the longest message Telegram accepts, in UTF-16 units
	MaxUnits = 4096

	bullet    = "• "
	rule      = "———"
	ellipsis  = "…"
	unordered = -1
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(gte.GTE))
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Markdown converts Markdown into plain text with Telegram entities.
// Text longer than MaxUnits is cut and ends with an ellipsis.
func Markdown(source string) (string, tele.Entities) {
	r := &renderer{
		source: []byte(source),
		open:   make(map[ast.Node]int),
	}
	doc := markdown.Parser().Parse(text.NewReader(r.source))
	if err := ast.Walk(doc, r.visit); err != nil {
		return source, nil
	}
	return r.result(MaxUnits)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (r *renderer) visit(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.ThematicBreak, *ast.HTMLBlock:
		if entering {
			r.separate()
		}
	case *ast.Heading:
		if entering {
			r.separate()
		}
		r.styled(n, entering, tele.EntityBold, "")
	case *ast.Blockquote:
		if entering {
			r.separate()
		}
		r.styled(n, entering, tele.EntityBlockquote, "")
	case *ast.Emphasis:
		if n.Level >= 2 {
			r.styled(n, entering, tele.EntityBold, "")
		} else {
			r.styled(n, entering, tele.EntityItalic, "")
		}
	case *ast.Link:
		r.styled(n, entering, tele.EntityTextLink, string(n.Destination))
	case *ast.Image:
		r.styled(n, entering, tele.EntityTextLink, string(n.Destination))
	case *ast.List:
		if entering {
			r.newline()
			next := unordered
			if n.IsOrdered() {
				next = max(n.Start, 1)
			}
			r.lists = append(r.lists, next)
		} else {
			r.lists = r.lists[:len(r.lists)-1]
		}
	case *ast.ListItem:
		if entering {
			r.newline()
			r.item()
		}
	default:
		if !entering {
			r.exitExtension(node)
		}
	}

	if !entering {
		return ast.WalkContinue, nil
	}

	// Leaves, which write text and do not descend
	switch n := node.(type) {
	case *ast.Text:
		r.write(string(n.Segment.Value(r.source)))
		if n.SoftLineBreak() || n.HardLineBreak() {
			r.write("\n")
		}
	case *ast.String:
		r.write(string(n.Value))
	case *ast.AutoLink:
		r.write(string(n.URL(r.source)))
		return ast.WalkSkipChildren, nil
	case *ast.CodeSpan:
		start := r.units
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				r.write(string(t.Segment.Value(r.source)))
			}
		}
		r.entity(tele.EntityCode, start, "", "")
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock:
		r.separate()
		r.code(n.Lines(), string(n.Language(r.source)))
		return ast.WalkSkipChildren, nil
	case *ast.CodeBlock:
		r.separate()
		r.code(n.Lines(), "")
		return ast.WalkSkipChildren, nil
	case *ast.HTMLBlock:
		r.lines(n.Lines())
		r.trimNewline()
		return ast.WalkSkipChildren, nil
	case *ast.RawHTML:
		r.lines(n.Segments)
		return ast.WalkSkipChildren, nil
	case *ast.ThematicBreak:
		r.write(rule)
	default:
		switch node.Kind() {
		case east.KindStrikethrough:
			r.open[node] = r.units
		case gteast.KindUnderline:
			r.open[node] = r.units
		}
	}
	return ast.WalkContinue, nil
}

// exitExtension closes strikethrough and underline spans
func (r *renderer) exitExtension(node ast.Node) {
	switch node.Kind() {
	case east.KindStrikethrough:
		r.close(node, tele.EntityStrikethrough, "")
	case gteast.KindUnderline:
		r.close(node, tele.EntityUnderline, "")
	}
}

// styled opens an entity on entry and closes it on exit
func (r *renderer) styled(node ast.Node, entering bool, kind tele.EntityType, url string) {
	if entering {
		r.open[node] = r.units
	} else {
		r.close(node, kind, url)
	}
}

func (r *renderer) close(node ast.Node, kind tele.EntityType, url string) {
	if start, exists := r.open[node]; exists {
		delete(r.open, node)
		r.entity(kind, start, url, "")
	}
}

// entity records a styled span from start to the current position
func (r *renderer) entity(kind tele.EntityType, start int, url, language string) {
	if length := r.units - start; length > 0 {
		r.entities = append(r.entities, tele.MessageEntity{
			Type:     kind,
			Offset:   start,
			Length:   length,
			URL:      url,
			Language: language,
		})
	}
}

func (r *renderer) code(lines *text.Segments, language string) {
	start := r.units
	r.lines(lines)
	r.trimNewline()
	r.entity(tele.EntityCodeBlock, start, "", language)
}

func (r *renderer) lines(lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		r.write(string(segment.Value(r.source)))
	}
}

// item writes the marker for the next item of the innermost list
func (r *renderer) item() {
	if len(r.lists) == 0 {
		return
	}
	i := len(r.lists) - 1
	if r.lists[i] == unordered {
		r.write(strings.Repeat("  ", i) + bullet)
		return
	}
	r.write(strings.Repeat("  ", i) + strconv.Itoa(r.lists[i]) + ". ")
	r.lists[i]++
}

func (r *renderer) write(s string) {
	r.buf.WriteString(s)
	r.units += units(s)
}

// newline ends the current line, if any
func (r *renderer) newline() {
	if s := r.buf.String(); s != "" && !strings.HasSuffix(s, "\n") {
		r.write("\n")
	}
}

// separate leaves a blank line before a block, unless inside a list item
func (r *renderer) separate() {
	s := r.buf.String()
	switch {
	case s == "", strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "• "), strings.HasSuffix(s, ". "):
	case strings.HasSuffix(s, "\n"):
		r.write("\n")
	default:
		r.write("\n\n")
	}
}

func (r *renderer) trimNewline() {
	if s := r.buf.String(); strings.HasSuffix(s, "\n") {
		r.buf.Reset()
		r.buf.WriteString(s[:len(s)-1])
		r.units--
	}
}

// result returns the text and entities, cut to at most limit units
func (r *renderer) result(limit int) (string, tele.Entities) {
	out := strings.TrimRight(r.buf.String(), "\n")
	total := units(out)
	if total > limit {
		out = cutUnits(out, limit-units(ellipsis)) + ellipsis
		total = units(out) - units(ellipsis)
	}

	entities := make(tele.Entities, 0, len(r.entities))
	for _, e := range r.entities {
		if e.Offset >= total {
			continue
		}
		e.Length = min(e.Length, total-e.Offset)
		entities = append(entities, e)
	}
	if len(entities) == 0 {
		return out, nil
	}
	return out, entities
}

// units returns the length of s in UTF-16 code units
func units(s string) int {
	n := 0
	for _, c := range s {
		n += utf16.RuneLen(c)
	}
	return n
}

// cutUnits returns the longest prefix of s with at most n UTF-16 units
func cutUnits(s string, n int) string {
	count := 0
	for i, c := range s {
		if count+utf16.RuneLen(c) > n {
			return s[:i]
		}
		count += utf16.RuneLen(c)
	}
	return s
}
