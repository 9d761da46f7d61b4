// Package faq implements the lookup-then-fallback answering flow: consult
// a lookup store first, fall back to a completion service on a miss, and
// finish on a shared feedback node.
package faq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/seedworks/arbor/pkg/domain"
	"github.com/seedworks/arbor/pkg/graph"
	"github.com/seedworks/arbor/pkg/ports"
)

// GraphName labels the compiled flow in logs, metrics, and visualizations.
const GraphName = "faq"

// Node names.
const (
	NodeSearch   = "search_faq"
	NodeGenerate = "generate_answer"
	NodeFeedback = "feedback"
)

// Router labels out of the search node.
const (
	labelFeedback = "feedback"
	labelGenerate = "generate"
)

// KeyPersistFeedback marks the state as ready for feedback persistence.
// The flow only sets the flag; the caller records feedback after the
// invocation, keeping the sink write outside the graph.
const KeyPersistFeedback = "persistFeedback"

// Flow wires the FAQ graph to its collaborators.
type Flow struct {
	lookup    ports.LookupStore
	completer ports.Completer
	sink      ports.FeedbackSink
	logger    *slog.Logger
}

// Option configures a Flow.
type Option func(*Flow)

// WithLogger sets a structured logger for collaborator failures.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates the FAQ flow.
func New(lookup ports.LookupStore, completer ports.Completer, sink ports.FeedbackSink, opts ...Option) *Flow {
	f := &Flow{
		lookup:    lookup,
		completer: completer,
		sink:      sink,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Definition assembles the graph:
//
//	START -> search_faq -> {found: feedback, miss: generate_answer}
//	generate_answer -> feedback -> END
func (f *Flow) Definition() *graph.Definition {
	return graph.New(GraphName).
		AddNode(NodeSearch, f.searchFAQ).
		AddNode(NodeGenerate, f.generateAnswer).
		AddNode(NodeFeedback, f.feedback).
		SetEntry(NodeSearch).
		AddConditionalEdge(NodeSearch, routeAfterSearch, map[string]string{
			labelFeedback: NodeFeedback,
			labelGenerate: NodeGenerate,
		}).
		AddEdge(NodeGenerate, NodeFeedback).
		AddEdge(NodeFeedback, graph.End)
}

// Compile validates and freezes the flow graph. Call once at startup and
// share the result across invocations.
func (f *Flow) Compile() (*graph.Compiled, error) {
	return f.Definition().Compile()
}

// NewQuestionState builds the initial state for one question.
func NewQuestionState(question string) *domain.State {
	return domain.NewStateWith(map[string]any{
		domain.KeyQuestion: question,
	})
}

// routeAfterSearch reads only the found flag: it decides, it does not
// mutate.
func routeAfterSearch(s *domain.State) string {
	if s.GetBool(domain.KeyFound) {
		return labelFeedback
	}
	return labelGenerate
}

// searchFAQ consults the lookup store and sets the found flag.
func (f *Flow) searchFAQ(ctx context.Context, s *domain.State) error {
	question := s.GetString(domain.KeyQuestion)

	payload, found, err := f.lookup.Lookup(ctx, question)
	if err != nil {
		s.SetError(fmt.Sprintf("search error: %v", err))
		s.Set(domain.KeyFound, false)
		s.AppendTrace(NodeSearch, "lookup failed, falling back to generation")
		return nil
	}

	s.Set(domain.KeyFound, found)
	if found {
		s.Set(domain.KeyAnswer, payload)
		s.AppendTrace(NodeSearch, fmt.Sprintf("FAQ match found for %q", question))
	} else {
		s.AppendTrace(NodeSearch, fmt.Sprintf("no FAQ match found for %q", question))
	}
	return nil
}

// generateAnswer asks the completion service for a fallback answer.
func (f *Flow) generateAnswer(ctx context.Context, s *domain.State) error {
	question := s.GetString(domain.KeyQuestion)
	prompt := fmt.Sprintf("You are a helpful assistant. Please answer the following question:\n%q", question)

	answer, err := f.completer.Complete(ctx, prompt)
	if err != nil {
		s.SetError(fmt.Sprintf("completion error: %v", err))
		s.AppendTrace(NodeGenerate, "completion service failed")
		return nil
	}

	s.Set(domain.KeyAnswer, answer)
	s.AppendTrace(NodeGenerate, "generated fallback answer via completion service")
	return nil
}

// feedback marks the result as ready for feedback persistence.
func (f *Flow) feedback(ctx context.Context, s *domain.State) error {
	s.Set(KeyPersistFeedback, true)
	s.AppendTrace(NodeFeedback, "feedback ready to be stored")
	return nil
}

// RecordFeedback persists the caller's verdict through the sink.
// Fire-and-forget: a sink failure is logged, never propagated.
func (f *Flow) RecordFeedback(ctx context.Context, s *domain.State, verdict string) {
	if !s.GetBool(KeyPersistFeedback) {
		return
	}

	fb := ports.Feedback{
		Question: s.GetString(domain.KeyQuestion),
		Answer:   s.GetString(domain.KeyAnswer),
		Verdict:  verdict,
	}
	if err := f.sink.Record(ctx, fb); err != nil {
		f.logger.Warn("feedback sink write failed", "question", fb.Question, "err", err)
		return
	}
	f.logger.Info("feedback stored", "question", fb.Question, "verdict", verdict)
}

// GenerateFallback produces a fresh generated answer for a state whose
// stored answer the user rejected. It reuses the generation node directly.
// Only an error recorded by this generation is reported; a stale error
// from an earlier node does not fail a successful retry.
func (f *Flow) GenerateFallback(ctx context.Context, s *domain.State) (string, error) {
	before := s.Err()
	if err := f.generateAnswer(ctx, s); err != nil {
		return "", err
	}
	if msg := s.Err(); msg != "" && msg != before {
		return "", fmt.Errorf("fallback generation: %s", msg)
	}
	return s.GetString(domain.KeyAnswer), nil
}
