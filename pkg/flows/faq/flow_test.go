package faq_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedworks/arbor/pkg/adapters/memory"
	"github.com/seedworks/arbor/pkg/domain"
	"github.com/seedworks/arbor/pkg/flows/faq"
	"github.com/seedworks/arbor/pkg/graph"
)

func newTestFlow(t *testing.T, completer *memory.ScriptedCompleter) (*faq.Flow, *memory.FeedbackLog) {
	t.Helper()

	lookup := memory.NewLookup(
		memory.Entry{Question: "What are your opening hours?", Answer: "We are open 9 to 5, Monday through Friday."},
		memory.Entry{Question: "How do I reset my password?", Answer: "Use the forgot-password link on the sign-in page."},
	)
	sink := memory.NewFeedbackLog()
	return faq.New(lookup, completer, sink), sink
}

func TestFAQ_MatchSkipsGeneration(t *testing.T) {
	completer := memory.NewScriptedCompleter("should not be called")
	flow, _ := newTestFlow(t, completer)

	compiled, err := flow.Compile()
	require.NoError(t, err)

	engine := graph.NewEngine()
	state := faq.NewQuestionState("opening hours")

	final, err := engine.Invoke(context.Background(), compiled, state)
	require.NoError(t, err)

	assert.True(t, final.GetBool(domain.KeyFound))
	assert.Contains(t, final.GetString(domain.KeyAnswer), "9 to 5")
	assert.Equal(t, []string{faq.NodeSearch, faq.NodeFeedback}, final.TraceNodes())
	assert.Zero(t, completer.Calls(), "lookup hit must not invoke the completer")
}

func TestFAQ_MissFallsBackToGeneration(t *testing.T) {
	completer := memory.NewScriptedCompleter("Generated answer about shipping.")
	flow, _ := newTestFlow(t, completer)

	compiled, err := flow.Compile()
	require.NoError(t, err)

	engine := graph.NewEngine()
	state := faq.NewQuestionState("do you ship internationally")

	final, err := engine.Invoke(context.Background(), compiled, state)
	require.NoError(t, err)

	assert.False(t, final.GetBool(domain.KeyFound))
	assert.Equal(t, "Generated answer about shipping.", final.GetString(domain.KeyAnswer))
	assert.Equal(t, []string{faq.NodeSearch, faq.NodeGenerate, faq.NodeFeedback}, final.TraceNodes())
	assert.Equal(t, 1, completer.Calls())
}

func TestFAQ_CompleterFailureBecomesStateError(t *testing.T) {
	lookup := memory.NewLookup()
	sink := memory.NewFeedbackLog()
	completer := &memory.FailingCompleter{Err: errors.New("upstream timeout")}
	flow := faq.New(lookup, completer, sink)

	compiled, err := flow.Compile()
	require.NoError(t, err)

	final, err := graph.NewEngine().Invoke(context.Background(), compiled, faq.NewQuestionState("anything"))
	require.NoError(t, err, "collaborator failures surface in state, not as engine errors")

	assert.Contains(t, final.Err(), "completion error")
	assert.Contains(t, final.Err(), "upstream timeout")
	// The graph still runs to completion through the feedback node.
	assert.Equal(t, []string{faq.NodeSearch, faq.NodeGenerate, faq.NodeFeedback}, final.TraceNodes())
}

func TestFAQ_RecordFeedback(t *testing.T) {
	completer := memory.NewScriptedCompleter()
	flow, sink := newTestFlow(t, completer)

	compiled, err := flow.Compile()
	require.NoError(t, err)

	ctx := context.Background()
	final, err := graph.NewEngine().Invoke(ctx, compiled, faq.NewQuestionState("reset my password"))
	require.NoError(t, err)
	require.True(t, final.GetBool(faq.KeyPersistFeedback))

	flow.RecordFeedback(ctx, final, "Yes")

	entries := sink.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "reset my password", entries[0].Question)
	assert.Equal(t, "Yes", entries[0].Verdict)
	assert.Contains(t, entries[0].Answer, "forgot-password")
}

func TestFAQ_RecordFeedbackSkippedWithoutFlag(t *testing.T) {
	completer := memory.NewScriptedCompleter()
	flow, sink := newTestFlow(t, completer)

	// A state that never went through the feedback node.
	flow.RecordFeedback(context.Background(), faq.NewQuestionState("q"), "No")
	assert.Empty(t, sink.Entries())
}

func TestFAQ_GenerateFallbackOnRejection(t *testing.T) {
	completer := memory.NewScriptedCompleter("A second, fresher answer.")
	flow, _ := newTestFlow(t, completer)

	compiled, err := flow.Compile()
	require.NoError(t, err)

	ctx := context.Background()
	final, err := graph.NewEngine().Invoke(ctx, compiled, faq.NewQuestionState("opening hours"))
	require.NoError(t, err)
	require.True(t, final.GetBool(domain.KeyFound))

	answer, err := flow.GenerateFallback(ctx, final)
	require.NoError(t, err)
	assert.Equal(t, "A second, fresher answer.", answer)
	assert.Equal(t, answer, final.GetString(domain.KeyAnswer))
}

func TestFAQ_GenerateFallbackIgnoresStaleError(t *testing.T) {
	completer := memory.NewScriptedCompleter("A fresh answer despite earlier trouble.")
	flow, _ := newTestFlow(t, completer)

	// A lookup failure earlier in the invocation left an error behind,
	// but this generation succeeds and must report success.
	state := faq.NewQuestionState("anything")
	state.SetError("search error: index unavailable")

	answer, err := flow.GenerateFallback(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "A fresh answer despite earlier trouble.", answer)
}

func TestFAQ_GenerateFallbackReportsFreshFailure(t *testing.T) {
	lookup := memory.NewLookup()
	sink := memory.NewFeedbackLog()
	flow := faq.New(lookup, &memory.FailingCompleter{Err: errors.New("upstream timeout")}, sink)

	_, err := flow.GenerateFallback(context.Background(), faq.NewQuestionState("anything"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion error")
}
