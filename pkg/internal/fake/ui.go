package fake

import (
	"context"
	"io"
	"sync"

	// Packages
	ui "github.com/mutablelogic/go-jack/pkg/ui"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Chat is a ui.Context which records what is sent to it
type Chat struct {
	sync.Mutex

	User string
	Err  error

	Sent    []Sent
	Typing  int
	Answers []string
}

// Sent is a single recorded message
type Sent struct {
	Format  string // text, html or markdown
	Text    string
	Buttons []ui.Button
}

// UI is a ui.ChatUI which replays a fixed list of events, then returns
// io.EOF
type UI struct {
	sync.Mutex

	Events []ui.Event
	Closed bool
}

var _ ui.Context = (*Chat)(nil)
var _ ui.ChatUI = (*UI)(nil)

///////////////////////////////////////////////////////////////////////////////
// CHAT

func (c *Chat) UserID() string {
	return c.User
}

func (c *Chat) UserName() string {
	return c.User
}

func (c *Chat) ConversationID() string {
	return "chat-" + c.User
}

func (c *Chat) SendText(_ context.Context, text string) error {
	return c.record(Sent{Format: "text", Text: text})
}

func (c *Chat) SendHTML(_ context.Context, text string, buttons []ui.Button) error {
	return c.record(Sent{Format: "html", Text: text, Buttons: buttons})
}

func (c *Chat) SendMarkdown(_ context.Context, markdown string) error {
	return c.record(Sent{Format: "markdown", Text: markdown})
}

func (c *Chat) SetTyping(context.Context) error {
	c.Lock()
	defer c.Unlock()
	c.Typing++
	return nil
}

func (c *Chat) Answer(_ context.Context, text string) error {
	c.Lock()
	defer c.Unlock()
	c.Answers = append(c.Answers, text)
	return c.Err
}

// Messages returns a copy of the sent messages
func (c *Chat) Messages() []Sent {
	c.Lock()
	defer c.Unlock()
	return append([]Sent(nil), c.Sent...)
}

// TypingCount returns the number of typing indicators shown
func (c *Chat) TypingCount() int {
	c.Lock()
	defer c.Unlock()
	return c.Typing
}

func (c *Chat) record(sent Sent) error {
	c.Lock()
	defer c.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.Sent = append(c.Sent, sent)
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// UI

func (u *UI) Receive(ctx context.Context) (ui.Event, error) {
	u.Lock()
	defer u.Unlock()
	if err := ctx.Err(); err != nil {
		return ui.Event{}, err
	}
	if len(u.Events) == 0 || u.Closed {
		return ui.Event{}, io.EOF
	}
	evt := u.Events[0]
	u.Events = u.Events[1:]
	return evt, nil
}

func (u *UI) Close() error {
	u.Lock()
	defer u.Unlock()
	u.Closed = true
	return nil
}
