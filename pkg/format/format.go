// Package format renders knowledge-base results as Telegram HTML.
package format

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-jack/pkg/schema"
	ui "github.com/mutablelogic/go-jack/pkg/ui"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// MaxLength is the longest message Telegram accepts
	MaxLength = 4096

	// ReadPrefix starts the callback data of read buttons
	ReadPrefix = "read:"

	truncated     = "\n\n<i>[truncated]</i>"
	untitled      = "untitled"
	maxTags       = 4
	maxPreview    = 100
	maxRecent     = 5
	maxButtonText = 30
)

var (
	reTag = regexp.MustCompile(`<[^>]*>`)
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Search renders search results with a header, or a short message when
// there are none
func Search(r *schema.SearchResult) string {
	if r == nil || len(r.Results) == 0 {
		return "No results found."
	}
	lines := []string{fmt.Sprintf("<b>Search:</b> %s  (%d total)\n", Escape(r.Query), r.Total)}
	for _, node := range r.Results {
		tags := node.Tags
		if len(tags) > maxTags {
			tags = tags[:maxTags]
		}
		lines = append(lines, fmt.Sprintf("<b>%s</b>  <code>%s</code>  (%.2f)\n%s\n<i>%s</i>\n",
			Escape(title(node)), Escape(node.ShortID()), node.Similarity,
			escapeJoin(tags), Escape(cut(node.BodyPreview, maxPreview)),
		))
	}
	return Truncate(strings.Join(lines, "\n"))
}

// SearchButtons returns one read button per search result
func SearchButtons(r *schema.SearchResult) []ui.Button {
	if r == nil {
		return nil
	}
	buttons := make([]ui.Button, 0, len(r.Results))
	for _, node := range r.Results {
		buttons = append(buttons, ui.Button{
			Label: cut(title(node), maxButtonText),
			Data:  ReadPrefix + node.ShortID(),
		})
	}
	return buttons
}

// Read renders a node with its body preformatted
func Read(r *schema.ReadResult) string {
	if r == nil {
		return Error(fmt.Errorf("no node"))
	}
	return Truncate(fmt.Sprintf("<b>%s</b>  <code>%s</code>\n%s\n\n<pre>%s</pre>",
		Escape(title(r.Node)), Escape(r.Node.ShortID()), escapeJoin(r.Node.Tags), Escape(r.Body),
	))
}

// Capture confirms a captured node
func Capture(r *schema.CaptureResult) string {
	if r == nil {
		return Error(fmt.Errorf("no node"))
	}
	return fmt.Sprintf("Captured: <b>%s</b>  <code>%s</code>\nAuto-linked to %d nodes.",
		Escape(title(r.Node)), Escape(r.Node.ShortID()), r.Links.Accepted,
	)
}

// Stats renders counts, degree statistics and the most recent nodes
func Stats(r *schema.StatsResult) string {
	if r == nil {
		return Error(fmt.Errorf("no stats"))
	}
	lines := []string{
		"<b>Forest Stats</b>\n",
		fmt.Sprintf("Nodes: <b>%d</b>  Edges: <b>%d</b>\n", r.Counts.Nodes, r.Counts.Edges),
		fmt.Sprintf("Degree: avg %.1f  median %g  p90 %g  max %g\n",
			r.Degree.Avg, r.Degree.Median, r.Degree.P90, r.Degree.Max),
	}
	if len(r.Recent) > 0 {
		recent := r.Recent
		if len(recent) > maxRecent {
			recent = recent[:maxRecent]
		}
		lines = append(lines, "\n<b>Recent:</b>")
		for _, node := range recent {
			lines = append(lines, fmt.Sprintf("  <code>%s</code>  %s", Escape(node.ShortID()), Escape(title(node))))
		}
	}
	return Truncate(strings.Join(lines, "\n"))
}

// Text wraps plain command output under a bold label
func Text(label, text string) string {
	return Truncate(fmt.Sprintf("<b>%s</b>\n\n<pre>%s</pre>", Escape(label), Escape(text)))
}

// Help lists the commands. Portfolio and novel commands are included when
// those tools are available.
func Help(hasTools bool) string {
	lines := []string{
		"<b>Jack, the Forest bot</b>\n",
		"<b>Forest:</b>",
		"/search <i>query</i>  search the Forest",
		"/s <i>query</i>  alias for /search",
		"/read <i>ref</i>  read a node (id prefix)",
		"/r <i>ref</i>  alias for /read",
		"/capture <i>Title | Body | #tags</i>  capture a note",
		"/c <i>Title | Body | #tags</i>  alias for /capture",
		"/stats  node and edge counts",
	}
	if hasTools {
		lines = append(lines,
			"",
			"<b>Portfolio:</b>",
			"/ideas <i>query</i>  search ideas",
			"/idea <i>name</i>  show an idea",
			"/projects <i>query</i>  search projects",
			"/project <i>name</i>  summarise a project",
			"/portfolio <i>query</i>  search across all sources",
			"",
			"<b>Novels:</b>",
			"/novels <i>query</i>  list or search novels",
			"/novel <i>name</i>  show a novel",
		)
	}
	return strings.Join(append(lines,
		"",
		"/help  this message",
		"",
		"<i>Any other text is a question for the Forest</i>",
	), "\n")
}

// Error renders an error message
func Error(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: <code>%s</code>", Escape(err.Error()))
}

// Truncate limits text to MaxLength, closing any open <pre> block and
// marking the cut
func Truncate(text string) string {
	if len(text) <= MaxLength {
		return text
	}
	text = cutBytes(text, MaxLength-len(truncated)-10)

	// Do not leave a partial tag or entity behind
	if i := strings.LastIndexAny(text, "<&"); i >= 0 && !strings.ContainsAny(text[i:], ">;") {
		text = text[:i]
	}
	if open := strings.Count(text, "<pre>") - strings.Count(text, "</pre>"); open > 0 {
		text += strings.Repeat("</pre>", open)
	}
	return text + truncated
}

// PlainText removes tags and entities, for sending when HTML is rejected
func PlainText(text string) string {
	return html.UnescapeString(reTag.ReplaceAllString(text, ""))
}

// Escape escapes text for Telegram HTML
func Escape(text string) string {
	return html.EscapeString(text)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func escapeJoin(values []string) string {
	escaped := make([]string, 0, len(values))
	for _, value := range values {
		escaped = append(escaped, Escape(value))
	}
	return strings.Join(escaped, " ")
}

func title(node schema.Node) string {
	if node.Title == "" {
		return untitled
	}
	return node.Title
}

// cut returns at most n runes of text
func cut(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// cutBytes returns at most n bytes of text without splitting a rune
func cutBytes(text string, n int) string {
	for n > 0 && n < len(text) && !isRuneStart(text[n]) {
		n--
	}
	return text[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
