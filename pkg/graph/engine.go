package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/seedworks/arbor/pkg/domain"
)

// DefaultMaxSteps is the step cap applied when no option overrides it.
// Routers are caller-supplied and a malformed graph could loop forever;
// the cap is a backstop, not the primary loop-bounding mechanism.
const DefaultMaxSteps = 50

// Engine drives a Compiled graph from Start to End. It holds only
// configuration: concurrent Invoke calls never race on engine-owned data.
type Engine struct {
	maxSteps int
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxSteps: DefaultMaxSteps,
		logger:   nopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invoke runs one invocation: starting at the entry node it calls each
// handler, resolves the node's single outgoing edge, and repeats until
// the End sentinel is reached. It returns the final state.
//
// A nil initial state starts empty. The state is mutated in place and
// also returned for convenience.
//
// Errors: a handler returning non-nil aborts the invocation (handlers
// convert their own recoverable faults into the state error field); a
// router returning an undeclared label yields a *RoutingError; exceeding
// the step cap yields an error wrapping ErrStepLimit.
func (e *Engine) Invoke(ctx context.Context, compiled *Compiled, state *domain.State) (*domain.State, error) {
	if compiled == nil {
		return nil, fmt.Errorf("nil compiled graph")
	}
	if state == nil {
		state = domain.NewState()
	}

	current := compiled.entry
	steps := 0

	for current != End {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		handler, ok := compiled.nodes[current]
		if !ok {
			// Unreachable on a compiled graph; guards against misuse.
			return state, &UnknownNodeError{Name: current}
		}

		e.emitNodeEnter(ctx, compiled.name, current)
		started := time.Now()

		if err := handler(ctx, state); err != nil {
			e.logger.Error("node handler failed", "graph", compiled.name, "node", current, "err", err)
			return state, fmt.Errorf("node %q: %w", current, err)
		}

		e.emitNodeLeave(ctx, compiled.name, current, time.Since(started))

		next, err := e.resolveNext(ctx, compiled, current, state)
		if err != nil {
			return state, err
		}

		steps++
		if steps > e.maxSteps {
			return state, fmt.Errorf("graph %q: %w after %d steps at node %q", compiled.name, ErrStepLimit, e.maxSteps, current)
		}

		e.logger.Debug("step", "graph", compiled.name, "from", current, "to", next, "steps", steps)
		current = next
	}

	return state, nil
}

// resolveNext resolves the node's single outgoing edge against the state.
func (e *Engine) resolveNext(ctx context.Context, compiled *Compiled, current string, state *domain.State) (string, error) {
	edge := compiled.edges[current]
	if !edge.conditional() {
		return edge.target, nil
	}

	label := edge.router(state)
	target, ok := edge.targets[label]
	if !ok {
		return "", &RoutingError{Node: current, Label: label, Declared: edge.labels}
	}

	e.emitRouteSelect(ctx, compiled.name, current, label, target)
	return target, nil
}

func (e *Engine) emitNodeEnter(ctx context.Context, graph, node string) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
		Timestamp: time.Now(),
		Type:      domain.EventNodeEnter,
		Graph:     graph,
		Node:      node,
	})
}

func (e *Engine) emitNodeLeave(ctx context.Context, graph, node string, duration time.Duration) {
	if e.hooks.OnNodeLeave == nil {
		return
	}
	e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
		Timestamp: time.Now(),
		Type:      domain.EventNodeLeave,
		Graph:     graph,
		Node:      node,
		Duration:  duration,
	})
}

func (e *Engine) emitRouteSelect(ctx context.Context, graph, node, label, target string) {
	if e.hooks.OnRouteSelect == nil {
		return
	}
	e.hooks.OnRouteSelect(ctx, &domain.RouteEvent{
		Timestamp: time.Now(),
		Graph:     graph,
		Node:      node,
		Label:     label,
		Target:    target,
	})
}
