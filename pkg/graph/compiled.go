package graph

// Compiled is the immutable, validated view of a Definition. It holds no
// per-invocation mutable fields, so a single instance is safe to share
// across many concurrent invocations.
type Compiled struct {
	name  string
	nodes map[string]Handler
	edges map[string]edge
	entry string
	order []string
}

// Name returns the graph's label.
func (c *Compiled) Name() string {
	return c.name
}

// Entry returns the node targeted by the Start sentinel's single edge.
func (c *Compiled) Entry() string {
	return c.entry
}

// NodeView is a read-only description of a node and its outgoing edge,
// used for introspection and visualization.
type NodeView struct {
	Name string

	// Target is set for a static edge (may be the End sentinel).
	Target string

	// Labels maps declared router labels to their targets for a
	// conditional edge. Nil for static edges.
	Labels map[string]string
}

// Nodes returns the node views in registration order.
func (c *Compiled) Nodes() []NodeView {
	views := make([]NodeView, 0, len(c.order))
	for _, name := range c.order {
		e := c.edges[name]
		view := NodeView{Name: name}
		if e.conditional() {
			labels := make(map[string]string, len(e.targets))
			for label, target := range e.targets {
				labels[label] = target
			}
			view.Labels = labels
		} else {
			view.Target = e.target
		}
		views = append(views, view)
	}
	return views
}
