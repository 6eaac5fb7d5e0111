// Package command handles chat events for any [ui.Context]: it routes
// commands, button presses and free text, shows a typing indicator while
// work is in progress, and sends the reply in the right markup.
package command

import (
	"context"
	"errors"
	"io"
	"time"

	// Packages
	logger "github.com/mutablelogic/go-jack/pkg/logger"
	router "github.com/mutablelogic/go-jack/pkg/router"
	ui "github.com/mutablelogic/go-jack/pkg/ui"
	logrus "github.com/sirupsen/logrus"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Router produces replies for events
type Router interface {
	Command(ctx context.Context, command, args string) router.Reply
	Text(ctx context.Context, text string) router.Reply
	Callback(ctx context.Context, data string) (router.Reply, bool)
}

// Handler processes events against a router
type Handler struct {
	router    Router
	keepalive time.Duration
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// DefaultKeepalive is how often the typing indicator is refreshed.
	// Telegram clears it after about five seconds.
	DefaultKeepalive = 4 * time.Second

	// DefaultConcurrency is the number of events handled at once
	DefaultConcurrency = 8
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a handler for the router. A zero keepalive selects the
// default.
func New(r Router, keepalive time.Duration) *Handler {
	if keepalive <= 0 {
		keepalive = DefaultKeepalive
	}
	return &Handler{router: r, keepalive: keepalive}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Handle processes a single event and sends the reply. It returns an error
// only if the reply could not be sent.
func (h *Handler) Handle(ctx context.Context, evt ui.Event) error {
	if evt.Context == nil {
		return nil
	}
	log := logger.Named("command").WithFields(logrus.Fields{
		"type": evt.Type.String(),
		"user": evt.Context.UserID(),
		"chat": evt.Context.ConversationID(),
	})
	ctx = logger.WithContext(ctx, log)

	var reply router.Reply
	switch evt.Type {
	case ui.EventCommand:
		log.WithField("command", evt.Command).Info("command")
		reply = h.typing(ctx, evt.Context, func(ctx context.Context) router.Reply {
			return h.router.Command(ctx, evt.Command, evt.Args)
		})
	case ui.EventText:
		log.Info("text")
		reply = h.typing(ctx, evt.Context, func(ctx context.Context) router.Reply {
			return h.router.Text(ctx, evt.Text)
		})
	case ui.EventCallback:
		log.WithField("data", evt.Data).Info("callback")
		if err := evt.Context.Answer(ctx, ""); err != nil {
			log.WithError(err).Debug("answer")
		}
		var ok bool
		if reply, ok = h.router.Callback(ctx, evt.Data); !ok {
			return nil
		}
	default:
		return nil
	}
	return send(ctx, evt.Context, reply)
}

// Serve receives events from the source and handles them, at most limit
// at a time, until the source is closed or the context is cancelled.
// Handlers still running are waited for. A limit of zero selects the
// default.
func (h *Handler) Serve(ctx context.Context, source ui.ChatUI, limit int) error {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	log := logger.Named("command")

	var g errgroup.Group
	g.SetLimit(limit)
	for {
		evt, err := source.Receive(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			break
		} else if err != nil {
			g.Wait()
			return err
		}

		// Blocks while limit handlers are running
		g.Go(func() error {
			if err := h.Handle(ctx, evt); err != nil {
				log.WithError(err).Warn("reply not sent")
			}
			return nil
		})
	}
	return g.Wait()
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// typing runs fn, refreshing the typing indicator until it returns
func (h *Handler) typing(ctx context.Context, uctx ui.Context, fn func(context.Context) router.Reply) router.Reply {
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(h.keepalive)
		defer ticker.Stop()
		for {
			if err := uctx.SetTyping(ctx); err != nil {
				logger.FromContext(ctx, "command").WithError(err).Debug("typing")
			}
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	reply := fn(ctx)
	close(done)
	<-stopped
	return reply
}

func send(ctx context.Context, uctx ui.Context, reply router.Reply) error {
	if reply.Text == "" {
		return nil
	}
	switch reply.Format {
	case router.Markdown:
		return uctx.SendMarkdown(ctx, reply.Text)
	default:
		return uctx.SendHTML(ctx, reply.Text, reply.Buttons)
	}
}
