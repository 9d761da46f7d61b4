package graph_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/seedworks/arbor/pkg/domain"
	"github.com/seedworks/arbor/pkg/graph"
)

// TestCompiled_EveryReachableNodeResolves generates random definitions and
// checks the compile-time guarantee: every node reachable from the entry
// has exactly one next step, and every declared label maps to an existing
// target. Seeded for reproducibility.
func TestCompiled_EveryReachableNodeResolves(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		nodeCount := 2 + rng.Intn(8)
		names := make([]string, nodeCount)
		for i := range names {
			names[i] = fmt.Sprintf("n%d", i)
		}

		// Every target choice draws from the node set plus End, so the
		// definition is structurally valid by construction; the property
		// under test is that Compile preserves full resolvability.
		pick := func() string {
			idx := rng.Intn(nodeCount + 1)
			if idx == nodeCount {
				return graph.End
			}
			return names[idx]
		}

		def := graph.New(fmt.Sprintf("generated-%d", round))
		for _, name := range names {
			def.AddNode(name, func(ctx context.Context, s *domain.State) error { return nil })
		}
		def.SetEntry(names[0])

		for _, name := range names {
			if rng.Intn(2) == 0 {
				def.AddEdge(name, pick())
				continue
			}
			labels := make(map[string]string)
			for i := 0; i < 1+rng.Intn(3); i++ {
				labels[fmt.Sprintf("l%d", i)] = pick()
			}
			def.AddConditionalEdge(name, func(s *domain.State) string { return "l0" }, labels)
		}

		compiled, err := def.Compile()
		if err != nil {
			t.Fatalf("round %d: valid-by-construction definition failed to compile: %v", round, err)
		}

		// Walk the full reachable set and verify every resolution target.
		byName := make(map[string]graph.NodeView)
		for _, view := range compiled.Nodes() {
			byName[view.Name] = view
		}

		visited := make(map[string]bool)
		queue := []string{compiled.Entry()}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			if current == graph.End || visited[current] {
				continue
			}
			visited[current] = true

			view, ok := byName[current]
			if !ok {
				t.Fatalf("round %d: reachable node %q missing from compiled view", round, current)
			}

			if view.Labels == nil {
				if view.Target == "" {
					t.Fatalf("round %d: node %q resolves to nothing", round, current)
				}
				queue = append(queue, view.Target)
				continue
			}

			if len(view.Labels) == 0 {
				t.Fatalf("round %d: node %q has an empty label set", round, current)
			}
			for label, target := range view.Labels {
				if target != graph.End {
					if _, exists := byName[target]; !exists {
						t.Fatalf("round %d: node %q label %q maps to missing node %q", round, current, label, target)
					}
				}
				queue = append(queue, target)
			}
		}
	}
}
