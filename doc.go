/*
Package arbor is a compiled decision-graph engine for conversational
flows. Applications assemble a graph of named handler nodes in code,
compile it into an immutable snapshot, and invoke it repeatedly against
a mutable state record.

It separates the graph shape (nodes and edges), the step semantics (one
active node, routers that read state but never mutate it, a hard step
cap), and the collaborators behind ports (completion services, lookup
stores, feedback sinks). This hexagonal layout lets the same flow run
under a CLI, an HTTP server, or a test harness unchanged.

# Concept

A flow runs to completion on every invocation; there is no suspended
execution inside the graph. Conversations that span several exchanges,
such as a tutor granting a bounded number of hints, end each invocation
at a leaf node and carry their progress (attempt counter, hint history)
inside the state the caller passes back in. Persistence of that state
between invocations is the session layer's job, not the engine's.

# Usage

	eng, err := arbor.New()
	if err != nil {
		log.Fatal(err)
	}

	compiled, err := faq.New(lookup, completer, sink).Compile()
	if err != nil {
		log.Fatal(err)
	}
	if err := eng.Register(compiled); err != nil {
		log.Fatal(err)
	}

	final, err := eng.Invoke(ctx, "faq", faq.NewQuestionState("how do I reset my password?"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(final.GetString(domain.KeyAnswer))

Compilation reports every defect of a malformed graph at once, and
invocation aborts runaway cycles with graph.ErrStepLimit. Collaborator
failures never abort an invocation; they are recorded on the state and
surfaced by the flow's error path.
*/
package arbor
