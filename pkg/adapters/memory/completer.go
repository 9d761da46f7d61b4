package memory

import (
	"context"
	"fmt"
	"sync"
)

// StaticCompleter implements ports.Completer by returning the same reply
// for every prompt. Useful as a placeholder collaborator.
type StaticCompleter struct {
	Reply string
}

// Complete returns the configured reply.
func (c *StaticCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Reply, nil
}

// ScriptedCompleter implements ports.Completer by replaying a fixed
// sequence of responses. Tests use it to drive multi-call flows
// deterministically. Safe for concurrent use, though scripted tests are
// usually sequential.
type ScriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	calls     int
}

// NewScriptedCompleter queues the given responses in order.
func NewScriptedCompleter(responses ...string) *ScriptedCompleter {
	return &ScriptedCompleter{responses: responses}
}

// Complete pops the next scripted response. Running past the script is a
// test bug and returns an error.
func (c *ScriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.calls >= len(c.responses) {
		return "", fmt.Errorf("scripted completer exhausted after %d calls (prompt: %.60s)", c.calls, prompt)
	}
	response := c.responses[c.calls]
	c.calls++
	return response, nil
}

// Calls returns how many completions were served.
func (c *ScriptedCompleter) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// FailingCompleter implements ports.Completer by always failing. Tests
// use it to exercise error paths.
type FailingCompleter struct {
	Err error
}

// Complete returns the configured error.
func (c *FailingCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return "", c.Err
}
