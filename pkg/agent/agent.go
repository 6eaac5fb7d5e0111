// Package agent runs a bounded tool-calling conversation with a
// completion provider. Each run asks the model, executes the tools it
// requests against a knowledge-base backend, feeds the results back and
// repeats until the model answers or a limit is reached.
package agent

import (
	"context"
	"errors"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	jack "github.com/mutablelogic/go-jack"
	logger "github.com/mutablelogic/go-jack/pkg/logger"
	schema "github.com/mutablelogic/go-jack/pkg/schema"
	tool "github.com/mutablelogic/go-jack/pkg/tool"
	logrus "github.com/sirupsen/logrus"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
	noop "go.opentelemetry.io/otel/trace/noop"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Agent holds the limits and collaborators for running conversations. It
// holds no per-run state, so one Agent can serve many concurrent runs.
type Agent struct {
	completer jack.Completer
	rounds    int
	repeat    int
	budget    time.Duration
	now       func() time.Time
	parallel  bool
	tracer    trace.Tracer
	log       *logrus.Entry
	metrics   *metrics
}

// Result is the outcome of a single run
type Result struct {
	Text         string
	Outcome      Outcome
	Rounds       int
	Conversation schema.Conversation
}

// Outcome records how a run ended
type Outcome int

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	OutcomeDone      Outcome = iota // The model answered
	OutcomeTimeout                  // The time budget ran out
	OutcomeLoop                     // The model repeated the same tool call
	OutcomeStepLimit                // The round limit was reached
)

const (
	DefaultMaxRounds = 5
	DefaultMaxRepeat = 3
	DefaultBudget    = 120 * time.Second
)

// Replies for runs which end without an answer
const (
	MessageTimeout   = "Timed out while thinking. Try a simpler question?"
	MessageLoop      = "I got stuck in a loop. Try rephrasing your question?"
	MessageStepLimit = "Reached the maximum number of steps. Here's what I found so far."
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns an agent which asks the completer for each turn
func New(completer jack.Completer, opts ...Opt) (*Agent, error) {
	if completer == nil {
		return nil, jack.ErrBadParameter.With("completer is required")
	}
	a := &Agent{
		completer: completer,
		rounds:    DefaultMaxRounds,
		repeat:    DefaultMaxRepeat,
		budget:    DefaultBudget,
		now:       time.Now,
		tracer:    noop.NewTracerProvider().Tracer(""),
		log:       logger.Named("agent"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.metrics == nil {
		if m, err := newMetrics(nil); err != nil {
			return nil, err
		} else {
			a.metrics = m
		}
	}
	return a, nil
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeLoop:
		return "loop"
	case OutcomeStepLimit:
		return "step_limit"
	default:
		return "unknown"
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Run answers a user message and returns the reply text. The only error
// returned is a failure to reach the completion provider, wrapped in
// jack.ErrTransport; every other problem ends the run with a reply.
func (a *Agent) Run(ctx context.Context, userMessage, systemPrompt string, backend jack.Backend) (string, error) {
	result, err := a.Invoke(ctx, userMessage, systemPrompt, backend)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// Invoke is Run, returning the full result including the conversation
func (a *Agent) Invoke(ctx context.Context, userMessage, systemPrompt string, backend jack.Backend) (result *Result, err error) {
	if backend == nil {
		return nil, jack.ErrBadParameter.With("backend is required")
	}
	tools, err := tool.Catalog()
	if err != nil {
		return nil, jack.ErrInternalServerError.Wrap(err)
	}

	runID := uuid.NewString()
	log := a.log.WithField("run", runID)
	ctx = logger.WithContext(ctx, log)
	ctx, endSpan := otel.StartSpan(a.tracer, ctx, "agent.Run",
		attribute.String("run", runID),
	)
	defer func() {
		endSpan(err)
		a.metrics.run(ctx, result, err)
	}()

	run := &state{
		dispatcher: tool.NewDispatcher(backend, a.tracer),
		history:    make(map[callKey]int),
		log:        log,
	}
	result = &Result{Conversation: schema.NewConversation(systemPrompt, userMessage)}
	start := a.now()

	for result.Rounds < a.rounds {
		// Check the budget before spending any more of it
		remaining := a.budget - a.now().Sub(start)
		if remaining <= 0 {
			log.WithField("rounds", result.Rounds).Warn("time budget exhausted")
			return result.end(OutcomeTimeout, MessageTimeout), nil
		}

		result.Rounds++
		log := log.WithField("round", result.Rounds)
		message, err := a.completer.Complete(ctx, result.Conversation, tools, remaining)
		if err != nil {
			if !errors.Is(err, jack.ErrTransport) {
				err = jack.ErrTransport.Wrap(err)
			}
			log.WithError(err).Error("completion failed")
			return nil, err
		}
		result.Conversation.Append(*message)

		// No tools requested, so this is the answer
		if !message.HasToolCalls() {
			log.Debug("answered")
			return result.end(OutcomeDone, message.Text()), nil
		}

		if looped := a.execute(ctx, run, message.ToolCalls, &result.Conversation); looped {
			return result.end(OutcomeLoop, MessageLoop), nil
		}
	}

	log.WithField("rounds", result.Rounds).Warn("round limit reached")
	return result.end(OutcomeStepLimit, MessageStepLimit), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (r *Result) end(outcome Outcome, text string) *Result {
	r.Outcome = outcome
	r.Text = text
	return r
}
