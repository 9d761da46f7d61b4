package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter   EventType = "node_enter"
	EventNodeLeave   EventType = "node_leave"
	EventRouteSelect EventType = "route_select"
)

// NodeEvent represents entry into or exit from a node during an invocation.
type NodeEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	Graph     string        `json:"graph"`
	Node      string        `json:"node"`
	Duration  time.Duration `json:"duration,omitempty"` // Set on node_leave.
}

// RouteEvent represents a conditional router decision.
type RouteEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Graph     string    `json:"graph"`
	Node      string    `json:"node"`
	Label     string    `json:"label"`
	Target    string    `json:"target"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil hooks are skipped; hooks run synchronously inside the step loop
// and must be fast.
type LifecycleHooks struct {
	OnNodeEnter   func(context.Context, *NodeEvent)
	OnNodeLeave   func(context.Context, *NodeEvent)
	OnRouteSelect func(context.Context, *RouteEvent)
}
