/*
Package ports defines the driven ports (interfaces) for the Arbor engine.

These interfaces decouple the core graph engine and the bundled flows from
external implementations, allowing handlers to work with various completion
services, lookup backends, and state persistence layers.

# Key Interfaces

  - Completer: synchronous text completion used by generating nodes.
  - LookupStore: keyword/substring lookup consulted before generating.
  - FeedbackSink: write-only, fire-and-forget persistence of feedback.
  - StateStore: persistence of session State across invocations, enabling
    the caller-driven resumable retry pattern.
  - DistributedLocker: distributed locking for concurrent session access.
*/
package ports
