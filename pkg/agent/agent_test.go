package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	// Packages
	jack "github.com/mutablelogic/go-jack"
	agent "github.com/mutablelogic/go-jack/pkg/agent"
	fake "github.com/mutablelogic/go-jack/pkg/internal/fake"
	schema "github.com/mutablelogic/go-jack/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

func newAgent(t *testing.T, completer *fake.Completer, opts ...agent.Opt) *agent.Agent {
	t.Helper()
	clock := completer.Clock
	if clock == nil {
		clock = fake.NewClock()
		completer.Clock = clock
	}
	a, err := agent.New(completer, append([]agent.Opt{agent.WithClock(clock.Now)}, opts...)...)
	require.NoError(t, err)
	return a
}

func call(id, name, args string) schema.ToolCall {
	return schema.NewToolCall(id, name, args)
}

func toolContent(t *testing.T, msg schema.Message) map[string]any {
	t.Helper()
	require.Equal(t, schema.RoleTool, msg.Role)
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Text()), &v))
	return v
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_agent_001(t *testing.T) {
	assert := assert.New(t)

	_, err := agent.New(nil)
	assert.ErrorIs(err, jack.ErrBadParameter)

	_, err = agent.New(&fake.Completer{}, agent.WithMaxRounds(0))
	assert.ErrorIs(err, jack.ErrBadParameter)

	_, err = agent.New(&fake.Completer{}, agent.WithMaxRepeat(0))
	assert.ErrorIs(err, jack.ErrBadParameter)

	a, err := agent.New(&fake.Completer{})
	assert.NoError(err)
	_, err = a.Run(context.Background(), "hi", "system", nil)
	assert.ErrorIs(err, jack.ErrBadParameter)
}

func Test_agent_002(t *testing.T) {
	assert := assert.New(t)

	// Immediate answer
	completer := &fake.Completer{Script: []schema.Message{schema.NewAssistantMessage("Hello there")}}
	a := newAgent(t, completer)

	result, err := a.Invoke(context.Background(), "hi", "system", &fake.Backend{})
	require.NoError(t, err)
	assert.Equal("Hello there", result.Text)
	assert.Equal(agent.OutcomeDone, result.Outcome)
	assert.Equal(1, result.Rounds)
	assert.Len(result.Conversation, 3)
	assert.NoError(result.Conversation.Validate())
	assert.Equal(1, completer.NumCalls())
}

func Test_agent_003(t *testing.T) {
	assert := assert.New(t)

	// Null content answers with an empty string
	completer := &fake.Completer{Script: []schema.Message{{Role: schema.RoleAssistant}}}
	a := newAgent(t, completer)

	text, err := a.Run(context.Background(), "hi", "system", &fake.Backend{})
	assert.NoError(err)
	assert.Equal("", text)
}

func Test_agent_004(t *testing.T) {
	assert := assert.New(t)

	// Budget already spent: the provider is never called
	completer := &fake.Completer{Script: []schema.Message{schema.NewAssistantMessage("unused")}}
	a := newAgent(t, completer, agent.WithBudget(0))

	result, err := a.Invoke(context.Background(), "hi", "system", &fake.Backend{})
	require.NoError(t, err)
	assert.Equal(agent.MessageTimeout, result.Text)
	assert.Equal(agent.OutcomeTimeout, result.Outcome)
	assert.Equal(0, completer.NumCalls())
	assert.Len(result.Conversation, 2)
}

func Test_agent_005(t *testing.T) {
	assert := assert.New(t)

	// Each round takes 60s of a 120s budget, so the third round never starts
	completer := &fake.Completer{
		Script: []schema.Message{
			schema.NewAssistantMessage("", call("1", "forest_search", `{"query":"a"}`)),
			schema.NewAssistantMessage("", call("2", "forest_search", `{"query":"b"}`)),
			schema.NewAssistantMessage("never"),
		},
		Advance: 60 * time.Second,
	}
	a := newAgent(t, completer)

	result, err := a.Invoke(context.Background(), "hi", "system", &fake.Backend{})
	require.NoError(t, err)
	assert.Equal(agent.MessageTimeout, result.Text)
	assert.Equal(2, completer.NumCalls())

	// Each call is offered the remaining budget
	assert.Equal([]time.Duration{120 * time.Second, 60 * time.Second}, completer.Timeouts)
}

func Test_agent_006(t *testing.T) {
	assert := assert.New(t)

	// The same call three times, across rounds
	repeat := call("x", "forest_search", `{"query":"same"}`)
	completer := &fake.Completer{Script: []schema.Message{
		schema.NewAssistantMessage("", repeat),
		schema.NewAssistantMessage("", repeat),
		schema.NewAssistantMessage("", repeat),
		schema.NewAssistantMessage("never"),
	}}
	backend := &fake.Backend{}
	a := newAgent(t, completer)

	result, err := a.Invoke(context.Background(), "hi", "system", backend)
	require.NoError(t, err)
	assert.Equal(agent.MessageLoop, result.Text)
	assert.Equal(agent.OutcomeLoop, result.Outcome)
	assert.Equal(3, completer.NumCalls())

	// The third call was not executed
	assert.Equal([]string{"search", "search"}, backend.Ops())
	assert.NoError(result.Conversation.Validate())
}

func Test_agent_007(t *testing.T) {
	assert := assert.New(t)

	// The same call three times within one round stops before the third runs
	completer := &fake.Completer{Script: []schema.Message{
		schema.NewAssistantMessage("",
			call("a", "forest_stats", `{}`),
			call("b", "forest_stats", `{}`),
			call("c", "forest_stats", `{}`),
			call("d", "forest_search", `{"query":"x"}`),
		),
	}}
	backend := &fake.Backend{}
	a := newAgent(t, completer)

	text, err := a.Run(context.Background(), "hi", "system", backend)
	require.NoError(t, err)
	assert.Equal(agent.MessageLoop, text)
	assert.Equal([]string{"stats", "stats"}, backend.Ops())
	assert.Equal(1, completer.NumCalls())
}

func Test_agent_008(t *testing.T) {
	assert := assert.New(t)

	// Same tool with different arguments is not a loop
	var script []schema.Message
	for i := range 5 {
		script = append(script, schema.NewAssistantMessage("",
			call(fmt.Sprint(i), "forest_search", fmt.Sprintf(`{"query":"q%d"}`, i)),
		))
	}
	script = append(script, schema.NewAssistantMessage("never"))
	completer := &fake.Completer{Script: script}
	backend := &fake.Backend{}
	a := newAgent(t, completer)

	result, err := a.Invoke(context.Background(), "hi", "system", backend)
	require.NoError(t, err)
	assert.Equal(agent.MessageStepLimit, result.Text)
	assert.Equal(agent.OutcomeStepLimit, result.Outcome)
	assert.Equal(5, result.Rounds)
	assert.Equal(5, completer.NumCalls())
	assert.Len(backend.Ops(), 5)

	// system, user, then five rounds of assistant and tool turns
	assert.Len(result.Conversation, 2+5*2)
	assert.NoError(result.Conversation.Validate())
}

func Test_agent_009(t *testing.T) {
	assert := assert.New(t)

	// Unknown tools are reported to the model and the run continues
	completer := &fake.Completer{Script: []schema.Message{
		schema.NewAssistantMessage("", call("1", "forest_tags", `{}`)),
		schema.NewAssistantMessage("Sorry, I can't list tags."),
	}}
	a := newAgent(t, completer)

	result, err := a.Invoke(context.Background(), "hi", "system", &fake.Backend{})
	require.NoError(t, err)
	assert.Equal("Sorry, I can't list tags.", result.Text)
	require.Len(t, result.Conversation, 5)

	content := toolContent(t, result.Conversation[3])
	assert.Contains(content["error"], "forest_tags")
	assert.Equal("1", result.Conversation[3].ToolCallID)

	// The model saw the error on the next round
	assert.Len(completer.Calls[1], 4)
}

func Test_agent_010(t *testing.T) {
	assert := assert.New(t)

	// Backend failures are reported to the model and the run continues
	completer := &fake.Completer{Script: []schema.Message{
		schema.NewAssistantMessage("", call("1", "forest_stats", `{}`)),
		schema.NewAssistantMessage("The Forest is not answering."),
	}}
	backend := &fake.Backend{Err: errors.New("dial tcp: connection refused")}
	a := newAgent(t, completer)

	result, err := a.Invoke(context.Background(), "hi", "system", backend)
	require.NoError(t, err)
	assert.Equal("The Forest is not answering.", result.Text)
	assert.Equal("dial tcp: connection refused", toolContent(t, result.Conversation[3])["error"])
}

func Test_agent_011(t *testing.T) {
	assert := assert.New(t)

	// Transport failures are returned as errors
	completer := &fake.Completer{Err: errors.New("503 service unavailable")}
	a := newAgent(t, completer)

	text, err := a.Run(context.Background(), "hi", "system", &fake.Backend{})
	assert.ErrorIs(err, jack.ErrTransport)
	assert.Equal("", text)
}

func Test_agent_012(t *testing.T) {
	assert := assert.New(t)

	// Search, then answer
	completer := &fake.Completer{Script: []schema.Message{
		schema.NewAssistantMessage("", call("call_1", "forest_search", `{"query":"rust macros"}`)),
		schema.NewAssistantMessage("Found 2 notes about rust macros: ..."),
	}}
	backend := &fake.Backend{SearchResult: &schema.SearchResult{
		Query:   "rust macros",
		Results: []schema.Node{{ID: "aaaa1111", Title: "macro_rules!"}, {ID: "bbbb2222", Title: "proc macros"}},
		Total:   2,
	}}
	a := newAgent(t, completer)

	result, err := a.Invoke(context.Background(), "what do I know about rust macros", agent.DefaultSystemPrompt, backend)
	require.NoError(t, err)
	assert.Equal("Found 2 notes about rust macros: ...", result.Text)

	// The backend was asked with the default limit
	require.Len(t, backend.Calls, 1)
	assert.Equal("search", backend.Calls[0].Op)
	assert.Equal([]any{"rust macros", 5}, backend.Calls[0].Args)

	// system, user, assistant with call, tool result, final answer
	conv := result.Conversation
	require.Len(t, conv, 5)
	assert.Equal(schema.RoleSystem, conv[0].Role)
	assert.Equal(schema.RoleUser, conv[1].Role)
	assert.True(conv[2].HasToolCalls())
	assert.Equal("call_1", conv[3].ToolCallID)
	assert.Equal(float64(2), toolContent(t, conv[3])["total"])
	assert.Equal("Found 2 notes about rust macros: ...", conv[4].Text())
	assert.NoError(conv.Validate())
}

func Test_agent_013(t *testing.T) {
	assert := assert.New(t)

	// Parallel read-only calls keep request order
	completer := &fake.Completer{Script: []schema.Message{
		schema.NewAssistantMessage("",
			call("a", "forest_stats", `{}`),
			call("b", "forest_search", `{"query":"x"}`),
			call("c", "forest_read", `{"ref":"abcd"}`),
		),
		schema.NewAssistantMessage("done"),
	}}
	backend := &fake.Backend{ReadResult: &schema.ReadResult{Node: schema.Node{ID: "abcd"}, Body: "body"}}
	a := newAgent(t, completer, agent.WithParallelTools())

	result, err := a.Invoke(context.Background(), "hi", "system", backend)
	require.NoError(t, err)
	assert.Equal("done", result.Text)
	assert.ElementsMatch([]string{"stats", "search", "read"}, backend.Ops())

	conv := result.Conversation
	require.Len(t, conv, 7)
	assert.Equal("a", conv[3].ToolCallID)
	assert.Equal("b", conv[4].ToolCallID)
	assert.Equal("c", conv[5].ToolCallID)
	assert.Equal("body", toolContent(t, conv[5])["body"])
	assert.NoError(conv.Validate())
}

func Test_agent_014(t *testing.T) {
	assert := assert.New(t)

	// Malformed arguments run the tool with no arguments
	completer := &fake.Completer{Script: []schema.Message{
		schema.NewAssistantMessage("", call("1", "forest_read", `{"ref": `)),
		schema.NewAssistantMessage("Which note?"),
	}}
	backend := &fake.Backend{}
	a := newAgent(t, completer)

	result, err := a.Invoke(context.Background(), "hi", "system", backend)
	require.NoError(t, err)
	assert.Equal("Which note?", result.Text)
	assert.Contains(toolContent(t, result.Conversation[3])["error"], "ref")
	assert.Empty(backend.Ops())
}

func Test_agent_015(t *testing.T) {
	assert := assert.New(t)

	// Concurrent runs share nothing
	completer := &fake.Completer{Script: []schema.Message{schema.NewAssistantMessage("ok")}}
	a := newAgent(t, completer)

	errs := make(chan error, 8)
	for i := range 8 {
		go func() {
			text, err := a.Run(context.Background(), fmt.Sprint("question ", i), "system", &fake.Backend{})
			if err == nil && text != "ok" {
				err = fmt.Errorf("unexpected reply %q", text)
			}
			errs <- err
		}()
	}
	for range 8 {
		assert.NoError(<-errs)
	}
}
