package arbor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/seedworks/arbor/pkg/domain"
	"github.com/seedworks/arbor/pkg/flows/faq"
	"github.com/seedworks/arbor/pkg/flows/tutor"
)

// Runner drives the interactive loops of the bundled flows over the
// provided IO. Frontends (CLI, tests) supply the reader, writer, and an
// optional renderer; the Runner owns the re-invocation pattern.
type Runner struct {
	Input  io.Reader
	Output io.Writer

	// Renderer transforms content before display, e.g. markdown to ANSI.
	// Nil means plain text.
	Renderer ContentRenderer
}

// ContentRenderer transforms content before it is written. It allows TUI
// rendering without coupling this package to a terminal library.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. Input and Output must be set by the caller
// (use os.Stdin and os.Stdout for a CLI).
func NewRunner(input io.Reader, output io.Writer) *Runner {
	return &Runner{
		Input:  input,
		Output: output,
	}
}

func (r *Runner) render(content string) string {
	if r.Renderer == nil {
		return content
	}
	rendered, err := r.Renderer(content)
	if err != nil {
		return content
	}
	return rendered
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.Output, format, args...)
}

func (r *Runner) readLine(reader *bufio.Reader) (string, bool) {
	text, err := reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), true
		}
		return "", false
	}
	return strings.TrimSpace(text), true
}

// RunFAQ loops reading questions, invoking the faq flow, and collecting
// a helpfulness verdict. An empty line or EOF ends the loop.
func (r *Runner) RunFAQ(ctx context.Context, eng *Engine, flow *faq.Flow) error {
	reader := bufio.NewReader(r.Input)

	for {
		r.printf("Ask a question (empty to quit): ")
		question, ok := r.readLine(reader)
		if !ok || question == "" {
			return nil
		}

		final, err := eng.Invoke(ctx, faq.GraphName, faq.NewQuestionState(question))
		if err != nil {
			return fmt.Errorf("faq invocation: %w", err)
		}

		if msg := final.Err(); msg != "" {
			r.printf("Sorry, something went wrong: %s\n", msg)
			continue
		}
		r.printf("%s\n", r.render(final.GetString(domain.KeyAnswer)))

		r.printf("Was this helpful? (y/n): ")
		verdict, ok := r.readLine(reader)
		if !ok {
			return nil
		}

		if strings.EqualFold(verdict, "n") || strings.EqualFold(verdict, "no") {
			flow.RecordFeedback(ctx, final, "No")
			answer, err := flow.GenerateFallback(ctx, final)
			if err != nil {
				r.printf("Could not generate another answer: %v\n", err)
				continue
			}
			r.printf("Let me try again:\n%s\n", r.render(answer))
			continue
		}
		flow.RecordFeedback(ctx, final, "Yes")
	}
}

// RunTutor runs one practice question to completion: show the question,
// then re-invoke the tutor flow with each new answer until the student
// is correct or the hint budget is spent and the solution is explained.
func (r *Runner) RunTutor(ctx context.Context, eng *Engine, flow *tutor.Flow) error {
	reader := bufio.NewReader(r.Input)

	state, err := flow.NewQuestionState(ctx)
	if err != nil {
		return fmt.Errorf("selecting question: %w", err)
	}
	r.printf("%s\n", r.render(state.GetString(domain.KeyQuestion)))

	for {
		r.printf("Your answer: ")
		answer, ok := r.readLine(reader)
		if !ok {
			return nil
		}

		final, err := eng.Invoke(ctx, tutor.GraphName, tutor.NextAttempt(state, answer))
		if err != nil {
			return fmt.Errorf("tutor invocation: %w", err)
		}

		result, err := tutor.DecodeResult(final)
		if err != nil {
			return fmt.Errorf("reading tutor result: %w", err)
		}

		switch {
		case result.Correct:
			r.printf("%s\n", r.render(result.Praise))
			return nil
		case result.Explanation != "":
			r.printf("%s\n", r.render(result.Explanation))
			return nil
		case result.Err != "":
			// A collaborator failed mid-invocation, e.g. hint generation.
			// No attempt was spent and no hint exists to show.
			r.printf("Sorry, something went wrong: %s\n", result.Err)
			return nil
		default:
			r.printf("Not quite. Hint %d of %d: %s\n",
				result.Attempts, tutor.MaxAttempts, r.render(result.Hint()))
			state = final
		}
	}
}
