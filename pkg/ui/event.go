package ui

import (
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// NewTextEvent returns a command event for text starting with a slash,
// or a text event otherwise
func NewTextEvent(ctx Context, text string) Event {
	if command, args, ok := ParseCommand(text); ok {
		return Event{Type: EventCommand, Context: ctx, Text: text, Command: command, Args: args}
	}
	return Event{Type: EventText, Context: ctx, Text: text}
}

// NewCallbackEvent returns an event for a button press
func NewCallbackEvent(ctx Context, data string) Event {
	return Event{Type: EventCallback, Context: ctx, Data: data}
}

// ParseCommand splits "/name@bot args" into the name and arguments. It
// returns false if the text is not a command.
func ParseCommand(text string) (string, string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	command, args, _ := strings.Cut(text[1:], " ")
	command, _, _ = strings.Cut(command, "@")
	if command == "" {
		return "", "", false
	}
	return command, strings.TrimSpace(args), true
}
