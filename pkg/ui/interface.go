// Package ui defines the interface for chat user interfaces.
//
// Implementations of [ChatUI] adapt a chat platform to a common
// event-driven model. The bot receives incoming events via
// [ChatUI.Receive] and replies through the [Context] carried by each
// event.
package ui

import (
	"context"
)

///////////////////////////////////////////////////////////////////////////////
// INTERFACES

// ChatUI is an event source. Callers loop over [Receive] to process
// incoming user activity.
type ChatUI interface {
	// Receive blocks until the next incoming event is available, the
	// context is cancelled, or the interface is closed. It returns
	// io.EOF when the interface is permanently closed.
	Receive(ctx context.Context) (Event, error)

	// Close stops receiving and releases resources
	Close() error
}

// Context is the conversation for a single event, used to reply to it
type Context interface {
	// UserID returns the platform identifier of the sender
	UserID() string

	// UserName returns a display name for the sender
	UserName() string

	// ConversationID returns the platform identifier of the conversation
	ConversationID() string

	// SendText sends plain text
	SendText(ctx context.Context, text string) error

	// SendHTML sends text with HTML markup and optional inline buttons.
	// If the platform rejects the markup, the text is sent without it.
	SendHTML(ctx context.Context, text string, buttons []Button) error

	// SendMarkdown sends Markdown, rendered natively where possible
	SendMarkdown(ctx context.Context, markdown string) error

	// SetTyping shows a typing indicator. Platforms clear it after a few
	// seconds or when a message is sent.
	SetTyping(ctx context.Context) error

	// Answer acknowledges a button press, with optional notification
	// text. It does nothing for other events.
	Answer(ctx context.Context, text string) error
}

///////////////////////////////////////////////////////////////////////////////
// TYPES

// EventType identifies the kind of incoming event
type EventType int

// Event is an incoming event from a user
type Event struct {
	Type    EventType
	Context Context

	// Text is the full message text for text and command events
	Text string

	// Command is the command name without the leading slash or a bot
	// name suffix, and Args is the rest of the message
	Command string
	Args    string

	// Data is the payload of a pressed button
	Data string
}

// Button is an inline button which returns Data when pressed
type Button struct {
	Label string
	Data  string
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	EventText     EventType = iota // User sent a message
	EventCommand                   // User sent a slash command
	EventCallback                  // User pressed an inline button
)

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (t EventType) String() string {
	switch t {
	case EventText:
		return "text"
	case EventCommand:
		return "command"
	case EventCallback:
		return "callback"
	default:
		return "unknown"
	}
}
