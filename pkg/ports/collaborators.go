package ports

import "context"

// Completer is a synchronous completion service: structured prompt in,
// text out. Timeouts and retries are the implementation's responsibility;
// handlers convert failures into the state's error field.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LookupStore answers keyword/substring queries against a corpus.
// The found flag distinguishes "no match" from an empty payload.
type LookupStore interface {
	Lookup(ctx context.Context, query string) (payload string, found bool, err error)
}

// Feedback is one recorded verdict on an answer.
type Feedback struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Verdict  string `json:"verdict"`
}

// FeedbackSink is a write-only persistence target for feedback. It is
// fire-and-forget: callers log failures, they never propagate them as
// invocation failures.
type FeedbackSink interface {
	Record(ctx context.Context, fb Feedback) error
}
