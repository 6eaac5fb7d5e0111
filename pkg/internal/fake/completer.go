package fake

import (
	"context"
	"sync"
	"time"

	// Packages
	jack "github.com/mutablelogic/go-jack"
	schema "github.com/mutablelogic/go-jack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Completer replays a script of assistant turns. Once the script is
// exhausted the last turn is repeated. Each call may advance a Clock.
type Completer struct {
	sync.Mutex

	Script []schema.Message
	Err    error

	// Advance moves Clock forward on every call, to simulate slow rounds
	Advance time.Duration
	Clock   *Clock

	// Calls holds a snapshot of the conversation and the timeout for each call
	Calls    []schema.Conversation
	Timeouts []time.Duration
}

// Clock is a manually advanced clock
type Clock struct {
	sync.Mutex
	t time.Time
}

var _ jack.Completer = (*Completer)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewClock() *Clock {
	return &Clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (c *Completer) Complete(_ context.Context, conversation schema.Conversation, _ []schema.ToolDefinition, timeout time.Duration) (*schema.Message, error) {
	c.Lock()
	defer c.Unlock()

	snapshot := make(schema.Conversation, len(conversation))
	copy(snapshot, conversation)
	c.Calls = append(c.Calls, snapshot)
	c.Timeouts = append(c.Timeouts, timeout)

	if c.Clock != nil && c.Advance > 0 {
		c.Clock.Add(c.Advance)
	}
	if c.Err != nil {
		return nil, c.Err
	}
	if len(c.Script) == 0 {
		return nil, jack.ErrTransport.With("empty script")
	}
	n := len(c.Calls) - 1
	if n >= len(c.Script) {
		n = len(c.Script) - 1
	}
	msg := c.Script[n]
	return &msg, nil
}

// NumCalls returns the number of completions requested so far
func (c *Completer) NumCalls() int {
	c.Lock()
	defer c.Unlock()
	return len(c.Calls)
}

// Now returns the current time on the clock
func (c *Clock) Now() time.Time {
	c.Lock()
	defer c.Unlock()
	return c.t
}

// Add moves the clock forward
func (c *Clock) Add(d time.Duration) {
	c.Lock()
	defer c.Unlock()
	c.t = c.t.Add(d)
}
