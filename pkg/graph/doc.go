/*
Package graph implements a compiled decision-graph execution engine.

A Definition collects named nodes (handlers), static edges, and conditional
edges (a pure router plus a finite label-to-target map). Compile validates
the whole structure at once and produces an immutable Compiled graph that is
safe to share across concurrent invocations. An Engine drives a Compiled
graph from the Start sentinel to the End sentinel, threading a domain.State
through every handler and recording an ordered step trace.

# Usage

	def := graph.New("greeter").
	    AddNode("greet", greetHandler).
	    AddNode("ask", askHandler).
	    SetEntry("greet").
	    AddEdge("greet", "ask").
	    AddEdge("ask", graph.End)

	compiled, err := def.Compile()
	if err != nil {
	    log.Fatal(err) // *ValidationError lists every defect at once
	}

	eng := graph.NewEngine()
	final, err := eng.Invoke(ctx, compiled, domain.NewState())

The engine runs node-by-node to completion: no internal parallelism, no
suspension mid-node. Routers must be pure functions of the state; handlers
may perform blocking external calls and should convert their own faults
into the state's error field rather than returning an error, which aborts
the whole invocation.
*/
package graph
