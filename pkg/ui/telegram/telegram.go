// Package telegram implements [ui.ChatUI] for Telegram bots using telebot v4.
// Only users on an allow list are heard; updates from anyone else are
// dropped without a reply.
package telegram

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	// Packages
	jack "github.com/mutablelogic/go-jack"
	format "github.com/mutablelogic/go-jack/pkg/format"
	logger "github.com/mutablelogic/go-jack/pkg/logger"
	ui "github.com/mutablelogic/go-jack/pkg/ui"
	logrus "github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v4"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Telegram implements [ui.ChatUI] for the Telegram Bot API
type Telegram struct {
	bot     *tele.Bot
	allowed map[int64]struct{}
	events  chan ui.Event
	done    chan struct{}
	log     *logrus.Entry
}

// telegramContext implements [ui.Context] for a single update
type telegramContext struct {
	api      tele.API
	chat     *tele.Chat
	user     *tele.User
	callback *tele.Callback
	log      *logrus.Entry
}

var _ ui.ChatUI = (*Telegram)(nil)
var _ ui.Context = (*telegramContext)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	pollTimeout = 10 * time.Second
	queueSize   = 32
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a Telegram bot UI with the given token, which hears only the
// allowed user ids. It starts long-polling in a background goroutine and
// returns immediately.
func New(token string, allowed []int64) (*Telegram, error) {
	if strings.TrimSpace(token) == "" {
		return nil, jack.ErrBadParameter.With("telegram token is required")
	}
	if len(allowed) == 0 {
		return nil, jack.ErrBadParameter.With("at least one allowed user is required")
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
	})
	if err != nil {
		return nil, jack.ErrUnavailable.Withf("telegram: %v", err)
	}

	t := newTelegram(allowed)
	t.bot = bot
	bot.Handle(tele.OnText, t.onText)
	bot.Handle(tele.OnCallback, t.onCallback)

	go func() {
		bot.Start()
		close(t.done)
	}()

	t.log.WithField("bot", bot.Me.Username).Info("polling")
	return t, nil
}

func newTelegram(allowed []int64) *Telegram {
	t := &Telegram{
		allowed: make(map[int64]struct{}, len(allowed)),
		events:  make(chan ui.Event, queueSize),
		done:    make(chan struct{}),
		log:     logger.Named("telegram"),
	}
	for _, id := range allowed {
		t.allowed[id] = struct{}{}
	}
	return t
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ParseUsers parses a comma-separated list of user ids
func ParseUsers(value string) ([]int64, error) {
	var result []int64
	for _, field := range strings.Split(value, ",") {
		if field = strings.TrimSpace(field); field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, jack.ErrBadParameter.Withf("allowed users must be comma-separated integers, got %q", field)
		}
		result = append(result, id)
	}
	if len(result) == 0 {
		return nil, jack.ErrBadParameter.With("at least one allowed user is required")
	}
	return result, nil
}

// Receive blocks until the next incoming event, context cancellation, or
// shutdown. It returns io.EOF when the bot is stopped.
func (t *Telegram) Receive(ctx context.Context) (ui.Event, error) {
	select {
	case evt := <-t.events:
		return evt, nil
	case <-ctx.Done():
		return ui.Event{}, ctx.Err()
	case <-t.done:
		return ui.Event{}, io.EOF
	}
}

// Close stops the poller and waits for it to finish
func (t *Telegram) Close() error {
	if t.bot != nil {
		t.bot.Stop()
		<-t.done
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS - HANDLERS

func (t *Telegram) onText(c tele.Context) error {
	if !t.isAllowed(c.Sender()) {
		return nil
	}
	t.emit(ui.NewTextEvent(t.newContext(c), c.Text()))
	return nil
}

func (t *Telegram) onCallback(c tele.Context) error {
	if !t.isAllowed(c.Sender()) || c.Callback() == nil {
		return nil
	}
	ctx := t.newContext(c)
	ctx.callback = c.Callback()

	// Unique buttons carry a form feed prefix
	data := strings.TrimPrefix(c.Callback().Data, "\f")
	t.emit(ui.NewCallbackEvent(ctx, data))
	return nil
}

// isAllowed returns true if the sender is on the allow list
func (t *Telegram) isAllowed(user *tele.User) bool {
	if user == nil {
		return false
	}
	if _, exists := t.allowed[user.ID]; exists {
		return true
	}
	t.log.WithField("user", user.ID).Debug("dropped update from unknown user")
	return false
}

// emit queues an event, dropping it if the consumer is not keeping up
func (t *Telegram) emit(evt ui.Event) {
	select {
	case t.events <- evt:
	default:
		t.log.WithField("type", evt.Type).Warn("event queue full, dropped event")
	}
}

func (t *Telegram) newContext(c tele.Context) *telegramContext {
	return &telegramContext{
		api:  c.Bot(),
		chat: c.Chat(),
		user: c.Sender(),
		log:  t.log,
	}
}

///////////////////////////////////////////////////////////////////////////////
// CONTEXT

// UserID returns the Telegram user id as a string
func (c *telegramContext) UserID() string {
	if c.user != nil {
		return strconv.FormatInt(c.user.ID, 10)
	}
	return ""
}

// UserName returns the username, or the first and last name
func (c *telegramContext) UserName() string {
	if c.user == nil {
		return ""
	}
	if c.user.Username != "" {
		return c.user.Username
	}
	return strings.TrimSpace(c.user.FirstName + " " + c.user.LastName)
}

// ConversationID returns the Telegram chat id as a string
func (c *telegramContext) ConversationID() string {
	if c.chat != nil {
		return strconv.FormatInt(c.chat.ID, 10)
	}
	return ""
}

func (c *telegramContext) SendText(_ context.Context, text string) error {
	_, err := c.api.Send(c.chat, text)
	return err
}

// SendHTML sends HTML with one button per row. If Telegram rejects the
// markup, the text is sent again with the tags removed.
func (c *telegramContext) SendHTML(_ context.Context, text string, buttons []ui.Button) error {
	markup := keyboard(buttons)
	_, err := c.api.Send(c.chat, text, &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: markup})
	if err == nil {
		return nil
	}

	c.log.WithError(err).Warn("html rejected, sending as plain text")
	_, err = c.api.Send(c.chat, format.PlainText(text), &tele.SendOptions{ReplyMarkup: markup})
	return err
}

// SendMarkdown converts Markdown to Telegram entities. If Telegram rejects
// the entities, the text is sent without them.
func (c *telegramContext) SendMarkdown(_ context.Context, markdown string) error {
	text, entities := Markdown(markdown)
	if text == "" {
		return nil
	}
	if len(entities) == 0 {
		_, err := c.api.Send(c.chat, text)
		return err
	}
	if _, err := c.api.Send(c.chat, text, entities); err == nil {
		return nil
	} else {
		c.log.WithError(err).Warn("entities rejected, sending as plain text")
	}
	_, err := c.api.Send(c.chat, text)
	return err
}

func (c *telegramContext) SetTyping(_ context.Context) error {
	return c.api.Notify(c.chat, tele.Typing)
}

// Answer stops the progress indicator on a pressed button
func (c *telegramContext) Answer(_ context.Context, text string) error {
	if c.callback == nil {
		return nil
	}
	return c.api.Respond(c.callback, &tele.CallbackResponse{Text: text})
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func keyboard(buttons []ui.Button) *tele.ReplyMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]tele.InlineButton, 0, len(buttons))
	for _, button := range buttons {
		rows = append(rows, []tele.InlineButton{{Text: button.Label, Data: button.Data}})
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}
