package arbor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/seedworks/arbor/internal/logging"
	"github.com/seedworks/arbor/pkg/adapters/memory"
	"github.com/seedworks/arbor/pkg/domain"
	"github.com/seedworks/arbor/pkg/graph"
	"github.com/seedworks/arbor/pkg/ports"
	"github.com/seedworks/arbor/pkg/session"
)

// ErrUnknownFlow reports a lookup or invocation of a flow that was never
// registered. Callers match it with errors.Is.
var ErrUnknownFlow = errors.New("unknown flow")

// Engine is the high-level entry point for the Arbor library. It wraps
// the step engine, a registry of compiled flows, and session-backed
// persistence behind one API.
type Engine struct {
	engine   *graph.Engine
	sessions *session.Manager

	mu    sync.RWMutex
	flows map[string]*graph.Compiled

	store  ports.StateStore
	locker ports.DistributedLocker
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	steps  int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxSteps overrides the per-invocation step cap.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.steps = n
	}
}

// WithStateStore sets the persistence backend for sessions. Defaults to
// an in-memory store.
func WithStateStore(store ports.StateStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// New initializes an Arbor Engine. Flows are registered afterwards with
// Register.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		flows:  make(map[string]*graph.Compiled),
		logger: logging.NewNop(),
		steps:  graph.DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil {
		e.store = memory.NewStore()
	}

	sessionOpts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(e.store, sessionOpts...)

	e.engine = graph.NewEngine(
		graph.WithMaxSteps(e.steps),
		graph.WithLogger(e.logger),
		graph.WithLifecycleHooks(e.hooks),
	)
	return e, nil
}

// Register adds a compiled flow under its graph name.
func (e *Engine) Register(compiled *graph.Compiled) error {
	if compiled == nil {
		return fmt.Errorf("cannot register a nil flow")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	name := compiled.Name()
	if _, exists := e.flows[name]; exists {
		return fmt.Errorf("flow %q already registered", name)
	}
	e.flows[name] = compiled
	e.logger.Info("flow registered", "flow", name)
	return nil
}

// Flows returns the registered flow names, sorted.
func (e *Engine) Flows() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.flows))
	for name := range e.flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Graph returns the compiled graph for a registered flow.
func (e *Engine) Graph(flow string) (*graph.Compiled, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	compiled, ok := e.flows[flow]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFlow, flow)
	}
	return compiled, nil
}

// Invoke runs one ephemeral invocation of a flow: no session is loaded
// or saved.
func (e *Engine) Invoke(ctx context.Context, flow string, state *domain.State) (*domain.State, error) {
	compiled, err := e.Graph(flow)
	if err != nil {
		return nil, err
	}
	return e.engine.Invoke(ctx, compiled, state)
}

// InvokeSession runs a flow against persisted session state. The session
// is loaded (or created), the given values are merged in, and the final
// state is saved back, all under the session lock. This is how callers
// drive multi-invocation conversations such as bounded retries.
func (e *Engine) InvokeSession(ctx context.Context, flow, sessionID string, values map[string]any) (*domain.State, error) {
	compiled, err := e.Graph(flow)
	if err != nil {
		return nil, err
	}

	return e.sessions.Update(ctx, sessionID, func(ctx context.Context, s *domain.State) (*domain.State, error) {
		s.Merge(values)
		return e.engine.Invoke(ctx, compiled, s)
	})
}

// Sessions exposes the session manager for callers that need direct
// load, list, or delete access.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}
