package memory

import (
	"context"
	"sync"

	"github.com/seedworks/arbor/pkg/ports"
)

// FeedbackLog implements ports.FeedbackSink by keeping recorded feedback
// in memory. Safe for concurrent use.
type FeedbackLog struct {
	mu      sync.Mutex
	entries []ports.Feedback
}

// NewFeedbackLog creates an empty feedback log.
func NewFeedbackLog() *FeedbackLog {
	return &FeedbackLog{}
}

// Record stores the feedback.
func (f *FeedbackLog) Record(ctx context.Context, fb ports.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, fb)
	return nil
}

// Entries returns a snapshot of everything recorded so far.
func (f *FeedbackLog) Entries() []ports.Feedback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.Feedback(nil), f.entries...)
}
