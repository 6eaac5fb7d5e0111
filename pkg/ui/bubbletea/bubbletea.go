// Package bubbletea implements ui.ChatUI for interactive terminals, so the
// bot can be used locally without a chat platform. Replies in Markdown
// are rendered with glamour, HTML replies are shown as plain text, and
// inline buttons are listed with a number which can be typed as #N.
package bubbletea

import (
	"context"
	"fmt"
	"io"
	"os/user"
	"strconv"
	"strings"
	"sync"
	"time"

	// Packages
	spinner "github.com/charmbracelet/bubbles/spinner"
	textinput "github.com/charmbracelet/bubbles/textinput"
	viewport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	glamour "github.com/charmbracelet/glamour"
	lipgloss "github.com/charmbracelet/lipgloss"
	wordwrap "github.com/muesli/reflow/wordwrap"
	termenv "github.com/muesli/termenv"
	format "github.com/mutablelogic/go-jack/pkg/format"
	ui "github.com/mutablelogic/go-jack/pkg/ui"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Terminal implements ui.ChatUI for an interactive terminal session
type Terminal struct {
	program *tea.Program
	events  chan ui.Event
	done    chan struct{}
	mu      sync.Mutex
	err     error
}

type model struct {
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	style    string
	history  []entry
	buttons  []ui.Button // buttons of the latest reply which has any
	typing   time.Time   // typing indicator shown until this time
	width    int
	ready    bool
	quitting bool
	events   chan<- ui.Event
	ctx      ui.Context
}

type entry struct {
	role     string
	raw      string
	text     string
	markdown bool
	buttons  []ui.Button
}

// termContext implements ui.Context for the terminal
type termContext struct {
	send     func(tea.Msg)
	userID   string
	userName string
}

type appendMsg struct {
	role     string
	text     string
	markdown bool
	buttons  []ui.Button
}

type typingMsg struct{}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	roleUser   = "you"
	roleBot    = "jack"
	roleNotice = "notice"

	// The typing indicator clears itself, as chat platforms do
	typingTimeout = 5 * time.Second

	footerHeight = 2
	wrapMargin   = 4
	minWrap      = 20
)

var (
	userStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	botStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	noticeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	buttonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New starts the terminal UI, which takes over the terminal until Close
// is called or the user quits
func New() (*Terminal, error) {
	name, uid := "user", "terminal"
	if u, err := user.Current(); err == nil {
		name, uid = u.Username, u.Uid
	}

	// Query the background before bubbletea owns the input, so the
	// terminal response is not read as keystrokes
	style := "dark"
	if !termenv.HasDarkBackground() {
		style = "light"
	}

	t := &Terminal{
		events: make(chan ui.Event, 1),
		done:   make(chan struct{}),
	}
	tctx := &termContext{userID: uid, userName: name}
	t.program = tea.NewProgram(newModel(t.events, tctx, style), tea.WithAltScreen())
	tctx.send = t.program.Send

	go func() {
		defer close(t.done)
		if _, err := t.program.Run(); err != nil {
			t.mu.Lock()
			t.err = err
			t.mu.Unlock()
		}
		close(t.events)
	}()

	return t, nil
}

func newModel(events chan<- ui.Event, ctx ui.Context, style string) *model {
	input := textinput.New()
	input.Placeholder = "Ask something, or type /help"
	input.CharLimit = 0
	input.Focus()

	return &model{
		input:   input,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		style:   style,
		events:  events,
		ctx:     ctx,
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Receive blocks until the user enters a message, the context is cancelled
// or the terminal is closed, when io.EOF is returned
func (t *Terminal) Receive(ctx context.Context) (ui.Event, error) {
	select {
	case <-ctx.Done():
		return ui.Event{}, ctx.Err()
	case evt, ok := <-t.events:
		if !ok {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.err != nil {
				return ui.Event{}, t.err
			}
			return ui.Event{}, io.EOF
		}
		return evt, nil
	}
}

// Close restores the terminal
func (t *Terminal) Close() error {
	t.program.Quit()
	<-t.done
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// ui.Context

func (c *termContext) UserID() string         { return c.userID }
func (c *termContext) UserName() string       { return c.userName }
func (c *termContext) ConversationID() string { return "terminal" }

func (c *termContext) SendText(_ context.Context, text string) error {
	c.send(appendMsg{role: roleBot, text: text})
	return nil
}

func (c *termContext) SendHTML(_ context.Context, text string, buttons []ui.Button) error {
	c.send(appendMsg{role: roleBot, text: format.PlainText(text), buttons: buttons})
	return nil
}

func (c *termContext) SendMarkdown(_ context.Context, markdown string) error {
	c.send(appendMsg{role: roleBot, text: markdown, markdown: true})
	return nil
}

func (c *termContext) SetTyping(context.Context) error {
	c.send(typingMsg{})
	return nil
}

func (c *termContext) Answer(_ context.Context, text string) error {
	if text != "" {
		c.send(appendMsg{role: roleNotice, text: text})
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// MODEL

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if text != "" {
				m.submit(text)
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case appendMsg:
		m.append(entry{role: msg.role, raw: msg.text, markdown: msg.markdown, buttons: msg.buttons})
		return m, nil
	case typingMsg:
		m.typing = time.Now().Add(typingTimeout)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	// Only navigation keys scroll the history
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown, tea.KeyHome, tea.KeyEnd:
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	} else if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  Starting..."
	}
	status := dimStyle.Render("ctrl+c to quit")
	if m.isTyping() {
		status = dimStyle.Render(m.spinner.View() + " working...")
	}
	return fmt.Sprintf("%s\n%s\n%s", m.viewport.View(), m.input.View(), status)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// submit records what the user typed and emits the event for it
func (m *model) submit(text string) {
	var evt ui.Event
	if button, ok := m.button(text); ok {
		m.append(entry{role: roleUser, raw: button.Label})
		evt = ui.NewCallbackEvent(m.ctx, button.Data)
	} else {
		m.append(entry{role: roleUser, raw: text})
		evt = ui.NewTextEvent(m.ctx, text)
	}
	m.events <- evt
}

// button returns the button selected by text of the form #N
func (m *model) button(text string) (ui.Button, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(text, "#"))
	if !strings.HasPrefix(text, "#") || err != nil || n < 1 || n > len(m.buttons) {
		return ui.Button{}, false
	}
	return m.buttons[n-1], true
}

func (m *model) isTyping() bool {
	return time.Now().Before(m.typing)
}

func (m *model) append(e entry) {
	e.text = m.render(e)
	m.history = append(m.history, e)
	if e.role == roleBot {
		m.typing = time.Time{}
		if len(e.buttons) > 0 {
			m.buttons = e.buttons
		}
	}
	m.refresh()
}

func (m *model) resize(width, height int) {
	m.width = width
	if !m.ready {
		m.viewport = viewport.New(width, height-footerHeight)
		m.ready = true
	} else {
		m.viewport.Width, m.viewport.Height = width, height-footerHeight
	}
	m.input.Width = width - wrapMargin

	// The renderer wraps at a fixed width, so replace it and render again
	if r, err := glamour.NewTermRenderer(glamour.WithStylePath(m.style), glamour.WithWordWrap(m.wrapWidth())); err == nil {
		m.renderer = r
	}
	for i := range m.history {
		m.history[i].text = m.render(m.history[i])
	}
	m.refresh()
}

func (m *model) render(e entry) string {
	if e.markdown && m.renderer != nil {
		if out, err := m.renderer.Render(e.raw); err == nil {
			return strings.TrimSpace(out)
		}
	}
	return indent(wordwrap.String(e.raw, m.wrapWidth()))
}

func (m *model) wrapWidth() int {
	return max(m.width-wrapMargin, minWrap)
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, e := range m.history {
		b.WriteString(label(e.role) + "\n" + e.text + "\n")
		for i, button := range e.buttons {
			b.WriteString(buttonStyle.Render(fmt.Sprintf("  #%d %s", i+1, button.Label)) + "\n")
		}
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func label(role string) string {
	switch role {
	case roleUser:
		return userStyle.Render(role + ":")
	case roleBot:
		return botStyle.Render(role + ":")
	default:
		return noticeStyle.Render(role + ":")
	}
}

// indent matches the left margin glamour gives rendered Markdown
func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "  " + line
		}
	}
	return strings.Join(lines, "\n")
}
