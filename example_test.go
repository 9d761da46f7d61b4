package arbor_test

import (
	"context"
	"fmt"
	"log"

	"github.com/seedworks/arbor"
	"github.com/seedworks/arbor/pkg/domain"
	"github.com/seedworks/arbor/pkg/graph"
)

// ExampleEngine_Invoke demonstrates assembling a small branching graph in
// code, compiling it, and invoking it through the facade.
func ExampleEngine_Invoke() {
	// 1. Define the graph: one worker node, one branch.
	def := graph.New("greeter").
		AddNode("classify", func(ctx context.Context, s *domain.State) error {
			s.Set("formal", s.GetString("name") == "Dr. Grace Hopper")
			return nil
		}).
		AddNode("formal_greeting", func(ctx context.Context, s *domain.State) error {
			s.Set("greeting", "Good day, "+s.GetString("name")+".")
			return nil
		}).
		AddNode("casual_greeting", func(ctx context.Context, s *domain.State) error {
			s.Set("greeting", "Hey "+s.GetString("name")+"!")
			return nil
		}).
		SetEntry("classify").
		AddConditionalEdge("classify", func(s *domain.State) string {
			if s.GetBool("formal") {
				return "formal"
			}
			return "casual"
		}, map[string]string{
			"formal": "formal_greeting",
			"casual": "casual_greeting",
		}).
		AddEdge("formal_greeting", graph.End).
		AddEdge("casual_greeting", graph.End)

	// 2. Compile once; every structural defect would be reported here.
	compiled, err := def.Compile()
	if err != nil {
		log.Fatal(err)
	}

	// 3. Register and invoke through the facade.
	eng, err := arbor.New()
	if err != nil {
		log.Fatal(err)
	}
	if err := eng.Register(compiled); err != nil {
		log.Fatal(err)
	}

	final, err := eng.Invoke(context.Background(), "greeter",
		domain.NewStateWith(map[string]any{"name": "Dr. Grace Hopper"}))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(final.GetString("greeting"))
	// Output: Good day, Dr. Grace Hopper.
}
