// Package tutor implements the practice-question flow: pick a question,
// grade the student's answer, and either praise, hint, or explain. Hints
// are bounded; each invocation issues at most one, and the caller re-invokes
// the graph with the carried-over state for the next attempt.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/seedworks/arbor/pkg/domain"
	"github.com/seedworks/arbor/pkg/graph"
	"github.com/seedworks/arbor/pkg/ports"
)

// GraphName labels the compiled flow in logs, metrics, and visualizations.
const GraphName = "tutor"

// MaxAttempts bounds how many hints a student receives for one question.
// Once attempts reaches this value, an incorrect answer routes to the
// full explanation instead of another hint.
const MaxAttempts = 2

// Node names.
const (
	NodeSelect  = "select_item"
	NodeCheck   = "check_answer"
	NodeHint    = "give_hint"
	NodeExplain = "explain"
	NodeSuccess = "summarize_success"
)

// Router labels out of the check node.
const (
	labelSuccess = "success"
	labelHint    = "hint"
	labelExplain = "explain"
)

// State keys owned by this flow. Shared keys (question, attempts,
// hintHistory, error) live in the domain package.
const (
	KeyUserAnswer  = "userAnswer"
	KeyIsCorrect   = "isCorrect"
	KeyBriefReason = "briefReason"
	KeyExplanation = "finalExplanation"
	KeyPraise      = "praise"

	// KeyExpectedAnswer, when present, lets check_answer grade by exact
	// comparison without consulting the completion service. Question
	// generators that know the answer set it alongside the question.
	KeyExpectedAnswer = "expectedAnswer"
)

// Flow wires the tutor graph to the completion service.
type Flow struct {
	completer ports.Completer
	topic     string
	logger    *slog.Logger
}

// Option configures a Flow.
type Option func(*Flow)

// WithTopic sets the subject area used when generating questions.
func WithTopic(topic string) Option {
	return func(f *Flow) {
		if topic != "" {
			f.topic = topic
		}
	}
}

// WithLogger sets a structured logger for collaborator failures.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates the tutor flow.
func New(completer ports.Completer, opts ...Option) *Flow {
	f := &Flow{
		completer: completer,
		topic:     "basic arithmetic",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Definition assembles the graph:
//
//	START -> select_item -> check_answer
//	check_answer -> {success: summarize_success, hint: give_hint, explain: explain}
//	give_hint -> END
//	explain -> END
//	summarize_success -> END
//
// give_hint ends the invocation on purpose: the caller shows the hint,
// collects a new answer, and re-invokes with NextAttempt.
func (f *Flow) Definition() *graph.Definition {
	return graph.New(GraphName).
		AddNode(NodeSelect, f.selectItem).
		AddNode(NodeCheck, f.checkAnswer).
		AddNode(NodeHint, f.giveHint).
		AddNode(NodeExplain, f.explain).
		AddNode(NodeSuccess, f.summarizeSuccess).
		SetEntry(NodeSelect).
		AddEdge(NodeSelect, NodeCheck).
		AddConditionalEdge(NodeCheck, routeAfterCheck, map[string]string{
			labelSuccess: NodeSuccess,
			labelHint:    NodeHint,
			labelExplain: NodeExplain,
		}).
		AddEdge(NodeHint, graph.End).
		AddEdge(NodeExplain, graph.End).
		AddEdge(NodeSuccess, graph.End)
}

// Compile validates and freezes the flow graph.
func (f *Flow) Compile() (*graph.Compiled, error) {
	return f.Definition().Compile()
}

// NewAnswerState builds the state for a first attempt at a fresh question.
// The question itself is generated by select_item during the invocation.
func NewAnswerState(answer string) *domain.State {
	return domain.NewStateWith(map[string]any{
		KeyUserAnswer: answer,
	})
}

// NewQuestionState generates a fresh question outside the graph so that
// an interactive caller can display it before collecting the first
// answer. The returned state feeds NextAttempt once the student replies.
func (f *Flow) NewQuestionState(ctx context.Context) (*domain.State, error) {
	s := domain.NewState()
	if err := f.selectItem(ctx, s); err != nil {
		return nil, err
	}
	if msg := s.Err(); msg != "" {
		return nil, errors.New(msg)
	}
	return s, nil
}

// NextAttempt carries the retry context from a finished invocation into
// the next one: same question, accumulated attempts and hint history, and
// the student's new answer. A nil previous state degrades to a fresh
// first attempt.
func NextAttempt(prev *domain.State, answer string) *domain.State {
	if prev == nil {
		return NewAnswerState(answer)
	}
	values := map[string]any{
		domain.KeyQuestion: prev.GetString(domain.KeyQuestion),
		domain.KeyAttempts: prev.GetInt(domain.KeyAttempts),
		KeyUserAnswer:      answer,
	}
	if hints := prev.GetStringSlice(domain.KeyHintHistory); len(hints) > 0 {
		values[domain.KeyHintHistory] = hints
	}
	if expected := prev.GetString(KeyExpectedAnswer); expected != "" {
		values[KeyExpectedAnswer] = expected
	}
	return domain.NewStateWith(values)
}

// routeAfterCheck decides the outcome of a graded attempt. Order matters:
// a recorded error always surfaces through the explanation node, success
// beats everything else, and the hint budget gates the retry path.
func routeAfterCheck(s *domain.State) string {
	if s.Err() != "" {
		return labelExplain
	}
	if s.GetBool(KeyIsCorrect) {
		return labelSuccess
	}
	if s.GetInt(domain.KeyAttempts) < MaxAttempts {
		return labelHint
	}
	return labelExplain
}

// selectItem keeps the carried-over question on retries and generates a
// new one only on a first attempt.
func (f *Flow) selectItem(ctx context.Context, s *domain.State) error {
	if question := s.GetString(domain.KeyQuestion); question != "" {
		s.AppendTrace(NodeSelect, fmt.Sprintf("continuing with question %q (attempt %d)", question, s.GetInt(domain.KeyAttempts)+1))
		return nil
	}

	prompt := fmt.Sprintf(
		"Generate a single practice question about %s. Reply with the question text only, no preamble.",
		f.topic,
	)
	question, err := f.completer.Complete(ctx, prompt)
	if err != nil {
		s.SetError(fmt.Sprintf("question generation error: %v", err))
		s.AppendTrace(NodeSelect, "question generation failed")
		return nil
	}

	s.Set(domain.KeyQuestion, strings.TrimSpace(question))
	s.AppendTrace(NodeSelect, "selected a new question")
	return nil
}

// grading is the wire shape the grading prompt asks the completion
// service to reply with.
type grading struct {
	IsCorrect   bool   `json:"is_correct"`
	BriefReason string `json:"brief_reason"`
}

// checkAnswer grades the student's answer. When the question carries an
// expected answer it grades by normalized comparison; otherwise it asks
// the completion service for a JSON verdict.
func (f *Flow) checkAnswer(ctx context.Context, s *domain.State) error {
	// An earlier node already recorded an error; grading would only
	// overwrite it. Leave it for the router to send to the explanation.
	if s.Err() != "" {
		s.AppendTrace(NodeCheck, "skipped grading, an error was recorded earlier")
		return nil
	}

	question := s.GetString(domain.KeyQuestion)
	answer := s.GetString(KeyUserAnswer)

	if expected := s.GetString(KeyExpectedAnswer); expected != "" {
		correct := normalize(answer) == normalize(expected)
		s.Set(KeyIsCorrect, correct)
		if correct {
			s.Set(KeyBriefReason, "matches the expected answer")
		} else {
			s.Set(KeyBriefReason, "does not match the expected answer")
		}
		s.AppendTrace(NodeCheck, gradeSummary(correct))
		return nil
	}

	prompt := fmt.Sprintf(
		"Grade the student's answer.\nQuestion: %s\nStudent answer: %s\n"+
			`Reply with JSON only: {"is_correct": <bool>, "brief_reason": "<one sentence>"}`,
		question, answer,
	)
	raw, err := f.completer.Complete(ctx, prompt)
	if err != nil {
		s.SetError(fmt.Sprintf("grading error: %v", err))
		s.AppendTrace(NodeCheck, "grading failed")
		return nil
	}

	var verdict grading
	if err := json.Unmarshal([]byte(extractJSON(raw)), &verdict); err != nil {
		// An unparseable verdict counts as incorrect rather than aborting
		// the session.
		f.logger.Warn("unparseable grading verdict", "graph", GraphName, "raw", raw)
		verdict = grading{IsCorrect: false, BriefReason: "could not parse the grading verdict"}
	}

	s.Set(KeyIsCorrect, verdict.IsCorrect)
	s.Set(KeyBriefReason, verdict.BriefReason)
	s.AppendTrace(NodeCheck, gradeSummary(verdict.IsCorrect))
	return nil
}

// giveHint issues exactly one hint, appends it to the history, and spends
// one attempt. The invocation then ends so the caller can collect the
// next answer.
func (f *Flow) giveHint(ctx context.Context, s *domain.State) error {
	question := s.GetString(domain.KeyQuestion)
	history := s.GetStringSlice(domain.KeyHintHistory)

	prompt := fmt.Sprintf(
		"The student answered this question incorrectly:\n%s\n"+
			"Previous hints: %s\n"+
			"Give one short new hint that nudges them toward the answer without revealing it.",
		question, joinOrNone(history),
	)
	hint, err := f.completer.Complete(ctx, prompt)
	if err != nil {
		s.SetError(fmt.Sprintf("hint generation error: %v", err))
		s.AppendTrace(NodeHint, "hint generation failed")
		return nil
	}

	s.Set(domain.KeyHintHistory, append(history, strings.TrimSpace(hint)))
	attempts := s.GetInt(domain.KeyAttempts) + 1
	s.Set(domain.KeyAttempts, attempts)
	s.AppendTrace(NodeHint, fmt.Sprintf("issued hint %d of %d", attempts, MaxAttempts))
	return nil
}

// explain produces the full worked solution. It also serves as the error
// surface: when a collaborator failed earlier, the recorded error message
// becomes the explanation.
func (f *Flow) explain(ctx context.Context, s *domain.State) error {
	if msg := s.Err(); msg != "" {
		s.Set(KeyExplanation, fmt.Sprintf("Something went wrong during this exercise: %s", msg))
		s.AppendTrace(NodeExplain, "surfaced a recorded error")
		return nil
	}

	question := s.GetString(domain.KeyQuestion)
	prompt := fmt.Sprintf(
		"The student could not solve this question after %d hints:\n%s\n"+
			"Explain the full solution step by step.",
		len(s.GetStringSlice(domain.KeyHintHistory)), question,
	)
	explanation, err := f.completer.Complete(ctx, prompt)
	if err != nil {
		s.SetError(fmt.Sprintf("explanation error: %v", err))
		s.Set(KeyExplanation, "The explanation service is unavailable right now.")
		s.AppendTrace(NodeExplain, "explanation generation failed")
		return nil
	}

	s.Set(KeyExplanation, explanation)
	s.AppendTrace(NodeExplain, "explained the full solution")
	return nil
}

// summarizeSuccess praises a correct answer.
func (f *Flow) summarizeSuccess(ctx context.Context, s *domain.State) error {
	question := s.GetString(domain.KeyQuestion)
	prompt := fmt.Sprintf(
		"The student correctly answered:\n%s\nWrite one short encouraging sentence.",
		question,
	)
	praise, err := f.completer.Complete(ctx, prompt)
	if err != nil {
		// Success is already decided; fall back to a canned line instead
		// of recording an error.
		f.logger.Warn("praise generation failed", "graph", GraphName, "err", err)
		praise = "Well done, that is correct!"
	}

	s.Set(KeyPraise, praise)
	s.AppendTrace(NodeSuccess, "celebrated a correct answer")
	return nil
}

func gradeSummary(correct bool) string {
	if correct {
		return "graded the answer as correct"
	}
	return "graded the answer as incorrect"
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func joinOrNone(hints []string) string {
	if len(hints) == 0 {
		return "none"
	}
	return strings.Join(hints, "; ")
}

// extractJSON pulls the outermost JSON object out of a completion that
// may wrap it in prose or code fences.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return raw
	}
	return raw[start : end+1]
}
