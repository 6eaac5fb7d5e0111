package agent

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-jack/pkg/schema"
	tool "github.com/mutablelogic/go-jack/pkg/tool"
	logrus "github.com/sirupsen/logrus"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// state is owned by a single run
type state struct {
	dispatcher *tool.Dispatcher
	history    map[callKey]int
	log        *logrus.Entry
}

// callKey identifies a repeated call by its exact name and raw arguments
type callKey struct {
	name, arguments string
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// execute runs the tool calls of one round, appending one tool turn per
// call in request order. It returns true if a call was repeated too often,
// in which case the run ends and no further calls are made.
func (a *Agent) execute(ctx context.Context, run *state, calls []schema.ToolCall, conversation *schema.Conversation) bool {
	if a.parallel && readOnly(calls) {
		return a.executeParallel(ctx, run, calls, conversation)
	}
	for _, call := range calls {
		args := tool.DecodeArguments(call.Function.Arguments)
		if a.repeated(run, call) {
			return true
		}
		result := a.dispatch(ctx, run, call, args)
		conversation.Append(schema.NewToolMessage(call.ID, result.Content))
	}
	return false
}

// executeParallel checks every call for repeats first, then runs them all
// at once
func (a *Agent) executeParallel(ctx context.Context, run *state, calls []schema.ToolCall, conversation *schema.Conversation) bool {
	for _, call := range calls {
		if a.repeated(run, call) {
			return true
		}
	}

	var g errgroup.Group
	results := make([]tool.Result, len(calls))
	for i, call := range calls {
		g.Go(func() error {
			results[i] = a.dispatch(ctx, run, call, tool.DecodeArguments(call.Function.Arguments))
			return nil
		})
	}
	g.Wait()

	for i, call := range calls {
		conversation.Append(schema.NewToolMessage(call.ID, results[i].Content))
	}
	return false
}

// repeated records the call and returns true once the same call has been
// seen the maximum number of times
func (a *Agent) repeated(run *state, call schema.ToolCall) bool {
	key := callKey{call.Function.Name, call.Function.Arguments}
	run.history[key]++
	if count := run.history[key]; count >= a.repeat {
		run.log.WithFields(logrus.Fields{"tool": key.name, "count": count}).Warn("repeated tool call")
		return true
	}
	return false
}

func (a *Agent) dispatch(ctx context.Context, run *state, call schema.ToolCall, args tool.Arguments) tool.Result {
	log := run.log.WithField("tool", call.Function.Name)
	log.WithField("args", call.Function.Arguments).Info("tool call")

	result := run.dispatcher.Dispatch(ctx, call.Function.Name, args)
	if result.Err != nil {
		log.WithError(result.Err).Warn("tool failed")
	}
	a.metrics.tool(ctx, call.Function.Name, result.Err)
	return result
}

// readOnly returns true if none of the calls change the knowledge base
func readOnly(calls []schema.ToolCall) bool {
	for _, call := range calls {
		if !tool.Name(call.Function.Name).ReadOnly() {
			return false
		}
	}
	return true
}
