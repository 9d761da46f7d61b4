package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/seedworks/arbor/pkg/domain"
)

// Reserved sentinel names. They never carry handlers: Start has exactly
// one outgoing edge (set via SetEntry) and End has none.
const (
	Start = "__start__"
	End   = "__end__"
)

// Handler is a unit of work. It reads and mutates the state in place.
// A returned error is fatal to the whole invocation; recoverable problems
// should be recorded with state.SetError instead so the graph can still
// route around them.
type Handler func(ctx context.Context, s *domain.State) error

// Router selects the next node by label. It must be a pure, read-only
// function of the state: it decides, it does not mutate.
type Router func(s *domain.State) string

// edge is the single outgoing transition of a node: either a static
// target or a router with its declared label set, never both.
type edge struct {
	target  string
	router  Router
	targets map[string]string
	labels  []string // Declared labels in registration order, for error reporting.
}

func (e edge) conditional() bool {
	return e.router != nil
}

// Definition collects named nodes and their edges before compilation.
// Methods chain and record defects instead of failing fast; Compile
// reports everything at once.
type Definition struct {
	name    string
	nodes   map[string]Handler
	order   []string
	edges   map[string]edge
	entry   string
	defects []error
}

// New creates an empty graph definition with the given name. The name
// labels logs, metrics, and visualizations.
func New(name string) *Definition {
	return &Definition{
		name:  name,
		nodes: make(map[string]Handler),
		edges: make(map[string]edge),
	}
}

// AddNode registers a processing node under a unique name.
// Registering the same name twice is a defect reported at Compile time.
func (d *Definition) AddNode(name string, handler Handler) *Definition {
	if name == "" {
		d.defects = append(d.defects, fmt.Errorf("node name must not be empty"))
		return d
	}
	if name == Start || name == End {
		d.defects = append(d.defects, fmt.Errorf("node name %q is reserved", name))
		return d
	}
	if handler == nil {
		d.defects = append(d.defects, fmt.Errorf("handler must not be nil for node %q", name))
		return d
	}
	if _, exists := d.nodes[name]; exists {
		d.defects = append(d.defects, &DuplicateNodeError{Name: name})
		return d
	}
	d.nodes[name] = handler
	d.order = append(d.order, name)
	return d
}

// SetEntry declares the single edge out of the Start sentinel.
func (d *Definition) SetEntry(target string) *Definition {
	if d.entry != "" {
		d.defects = append(d.defects, fmt.Errorf("entry already set to %q, cannot reset to %q", d.entry, target))
		return d
	}
	d.entry = target
	return d
}

// AddEdge registers the static transition source -> target. A node has
// exactly one outgoing edge, static or conditional; a second registration
// for the same source is a defect.
func (d *Definition) AddEdge(source, target string) *Definition {
	if !d.claimEdge(source) {
		return d
	}
	d.edges[source] = edge{target: target}
	return d
}

// AddConditionalEdge registers a branch: the router inspects the state
// and returns one of the declared labels, which maps to the next node.
func (d *Definition) AddConditionalEdge(source string, router Router, labelToTarget map[string]string) *Definition {
	if !d.claimEdge(source) {
		return d
	}
	if router == nil {
		d.defects = append(d.defects, fmt.Errorf("node %q: conditional edge requires a router", source))
		return d
	}
	if len(labelToTarget) == 0 {
		d.defects = append(d.defects, fmt.Errorf("node %q: conditional edge requires a non-empty label map", source))
		return d
	}
	targets := make(map[string]string, len(labelToTarget))
	labels := make([]string, 0, len(labelToTarget))
	for label, target := range labelToTarget {
		targets[label] = target
		labels = append(labels, label)
	}
	sort.Strings(labels)
	d.edges[source] = edge{router: router, targets: targets, labels: labels}
	return d
}

// claimEdge verifies the source can still receive its single outgoing edge.
func (d *Definition) claimEdge(source string) bool {
	if source == Start {
		d.defects = append(d.defects, fmt.Errorf("use SetEntry to set the edge out of Start"))
		return false
	}
	if source == End {
		d.defects = append(d.defects, fmt.Errorf("the End sentinel has no outgoing edges"))
		return false
	}
	if _, exists := d.edges[source]; exists {
		d.defects = append(d.defects, fmt.Errorf("node %q already has an outgoing edge", source))
		return false
	}
	return true
}

// Compile validates the definition and returns an immutable Compiled
// graph. All structural defects are collected into a single
// *ValidationError: missing entry, nodes without edges, edges from or to
// unregistered nodes, and conditional labels mapping to missing targets.
func (d *Definition) Compile() (*Compiled, error) {
	defects := append([]error(nil), d.defects...)

	if len(d.nodes) == 0 {
		defects = append(defects, fmt.Errorf("graph must contain at least one node"))
	}

	if d.entry == "" {
		defects = append(defects, fmt.Errorf("entry not set: Start needs exactly one outgoing edge"))
	} else if !d.validTarget(d.entry) {
		defects = append(defects, &UnknownNodeError{Name: d.entry})
	}

	// Every registered node needs exactly one outgoing edge.
	for _, name := range d.order {
		if _, ok := d.edges[name]; !ok {
			defects = append(defects, fmt.Errorf("node %q has no outgoing edge", name))
		}
	}

	// Every edge source must be registered, every target must resolve.
	sources := make([]string, 0, len(d.edges))
	for source := range d.edges {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		e := d.edges[source]
		if _, ok := d.nodes[source]; !ok {
			defects = append(defects, &UnknownNodeError{Name: source})
		}
		if e.conditional() {
			for _, label := range e.labels {
				if !d.validTarget(e.targets[label]) {
					defects = append(defects, fmt.Errorf("node %q: label %q maps to %w", source, label, &UnknownNodeError{Name: e.targets[label]}))
				}
			}
		} else if !d.validTarget(e.target) {
			defects = append(defects, fmt.Errorf("edge from %q targets %w", source, &UnknownNodeError{Name: e.target}))
		}
	}

	if len(defects) > 0 {
		return nil, &ValidationError{Defects: defects}
	}

	// Snapshot into an immutable view. The definition may keep mutating;
	// the compiled graph must not observe it.
	nodes := make(map[string]Handler, len(d.nodes))
	for name, handler := range d.nodes {
		nodes[name] = handler
	}
	edges := make(map[string]edge, len(d.edges))
	for source, e := range d.edges {
		edges[source] = e
	}

	return &Compiled{
		name:  d.name,
		nodes: nodes,
		edges: edges,
		entry: d.entry,
		order: append([]string(nil), d.order...),
	}, nil
}

// validTarget reports whether a transition may point at the given name.
func (d *Definition) validTarget(name string) bool {
	if name == End {
		return true
	}
	_, ok := d.nodes[name]
	return ok
}
