package graph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrStepLimit is wrapped by the error the engine returns when an
// invocation exceeds its step cap. Distinct from a handler-set state
// error: this means the workflow never terminated, not that it reported
// a problem.
var ErrStepLimit = errors.New("step limit exceeded")

// DuplicateNodeError reports a node name registered more than once.
type DuplicateNodeError struct {
	Name string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("duplicate node %q", e.Name)
}

// UnknownNodeError reports an edge endpoint that is not a registered node
// (and is not the End sentinel).
type UnknownNodeError struct {
	Name string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %q", e.Name)
}

// ValidationError aggregates every structural defect found by Compile.
// All problems are collected and reported together, not just the first.
type ValidationError struct {
	Defects []error
}

func (e *ValidationError) Error() string {
	if len(e.Defects) == 1 {
		return "invalid graph: " + e.Defects[0].Error()
	}
	msg := fmt.Sprintf("invalid graph: %d defects:\n", len(e.Defects))
	for i, defect := range e.Defects {
		msg += fmt.Sprintf("  %d. %s\n", i+1, defect.Error())
	}
	return msg
}

// Unwrap exposes the individual defects to errors.Is / errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Defects
}

// RoutingError reports a router returning a label outside its declared
// set. The engine never silently maps an undeclared label to a default
// target.
type RoutingError struct {
	Node     string
	Label    string
	Declared []string
}

func (e *RoutingError) Error() string {
	declared := append([]string(nil), e.Declared...)
	sort.Strings(declared)
	return fmt.Sprintf("node %q: router returned undeclared label %q (declared: %v)", e.Node, e.Label, declared)
}
