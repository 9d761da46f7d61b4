package arbor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedworks/arbor"
	"github.com/seedworks/arbor/pkg/adapters/memory"
	"github.com/seedworks/arbor/pkg/domain"
	"github.com/seedworks/arbor/pkg/flows/faq"
	"github.com/seedworks/arbor/pkg/flows/tutor"
	"github.com/seedworks/arbor/pkg/graph"
)

func newFAQEngine(t *testing.T, completer *memory.ScriptedCompleter) (*arbor.Engine, *faq.Flow) {
	t.Helper()

	lookup := memory.NewLookup(
		memory.Entry{Question: "What are your opening hours?", Answer: "Open 9 to 5 on weekdays."},
	)
	flow := faq.New(lookup, completer, memory.NewFeedbackLog())

	compiled, err := flow.Compile()
	require.NoError(t, err)

	eng, err := arbor.New()
	require.NoError(t, err)
	require.NoError(t, eng.Register(compiled))
	return eng, flow
}

func TestEngine_RegisterAndInvoke(t *testing.T) {
	eng, _ := newFAQEngine(t, memory.NewScriptedCompleter())

	final, err := eng.Invoke(context.Background(), faq.GraphName, faq.NewQuestionState("opening hours"))
	require.NoError(t, err)
	assert.Contains(t, final.GetString(domain.KeyAnswer), "9 to 5")

	assert.Equal(t, []string{faq.GraphName}, eng.Flows())

	_, err = eng.Invoke(context.Background(), "unknown", domain.NewState())
	assert.ErrorIs(t, err, arbor.ErrUnknownFlow)
	assert.ErrorContains(t, err, `unknown flow "unknown"`)
}

func TestEngine_RegisterRejectsDuplicates(t *testing.T) {
	eng, flow := newFAQEngine(t, memory.NewScriptedCompleter())

	compiled, err := flow.Compile()
	require.NoError(t, err)
	assert.ErrorContains(t, eng.Register(compiled), "already registered")
}

func TestEngine_InvokeSessionCarriesRetryContext(t *testing.T) {
	// Two hints, then a correct answer, across three separate session
	// invocations. The store is the only carrier of attempts and hints.
	completer := memory.NewScriptedCompleter(
		`{"is_correct": false, "brief_reason": "wrong"}`,
		"Hint one.",
		`{"is_correct": false, "brief_reason": "wrong again"}`,
		"Hint two.",
		`{"is_correct": true, "brief_reason": "correct"}`,
		"Well done!",
	)
	flow := tutor.New(completer)
	compiled, err := flow.Compile()
	require.NoError(t, err)

	store := memory.NewStore()
	eng, err := arbor.New(arbor.WithStateStore(store))
	require.NoError(t, err)
	require.NoError(t, eng.Register(compiled))

	ctx := context.Background()
	const sessionID = "student-42"

	seed := map[string]any{
		domain.KeyQuestion:  "What is 6 * 7?",
		tutor.KeyUserAnswer: "40",
	}
	first, err := eng.InvokeSession(ctx, tutor.GraphName, sessionID, seed)
	require.NoError(t, err)
	assert.Equal(t, 1, first.GetInt(domain.KeyAttempts))

	second, err := eng.InvokeSession(ctx, tutor.GraphName, sessionID, map[string]any{
		tutor.KeyUserAnswer: "41",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.GetInt(domain.KeyAttempts))
	assert.Len(t, second.GetStringSlice(domain.KeyHintHistory), 2)

	third, err := eng.InvokeSession(ctx, tutor.GraphName, sessionID, map[string]any{
		tutor.KeyUserAnswer: "42",
	})
	require.NoError(t, err)

	result, err := tutor.DecodeResult(third)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 2, result.Attempts, "success never spends an attempt")

	// The persisted session reflects the final state.
	saved, err := eng.Sessions().Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Well done!", saved.GetString(tutor.KeyPraise))
}

func TestEngine_StepCapAppliesThroughFacade(t *testing.T) {
	def := graph.New("loop").
		AddNode("a", func(ctx context.Context, s *domain.State) error { return nil }).
		AddNode("b", func(ctx context.Context, s *domain.State) error { return nil }).
		SetEntry("a").
		AddEdge("a", "b").
		AddConditionalEdge("b", func(s *domain.State) string { return "back" }, map[string]string{
			"back": "a",
		})
	compiled, err := def.Compile()
	require.NoError(t, err)

	eng, err := arbor.New(arbor.WithMaxSteps(5))
	require.NoError(t, err)
	require.NoError(t, eng.Register(compiled))

	_, err = eng.Invoke(context.Background(), "loop", domain.NewState())
	assert.ErrorIs(t, err, graph.ErrStepLimit)
}
