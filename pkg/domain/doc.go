/*
Package domain contains the core domain models for the Arbor engine.

It defines the execution State threaded through one graph invocation, the
append-only step trace, and the lifecycle events emitted by the engine.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - State: the mutable record threaded through one graph execution.
  - TraceEntry: a single human-readable step record appended by a node.
  - LifecycleHooks: callbacks for engine observability (metrics, logging).
*/
package domain
