// Package graph renders compiled flow graphs as Mermaid flowcharts for
// documentation and debugging.
package graph

import (
	"fmt"
	"sort"
	"strings"

	enginegraph "github.com/seedworks/arbor/pkg/graph"
)

// Overlay contains dynamic invocation data to visualize on the graph.
type Overlay struct {
	VisitedNodes []string
}

// GenerateMermaid produces Mermaid flowchart syntax for a compiled graph.
// The start sentinel renders as a circle, the end sentinel as a double
// circle, static edges as solid arrows, and conditional edges as labeled
// arrows. An overlay highlights the nodes a past invocation visited.
func GenerateMermaid(compiled *enginegraph.Compiled, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	sb.WriteString("    __start__((\"START\"))\n")
	sb.WriteString("    __end__(((\"END\")))\n")
	sb.WriteString(fmt.Sprintf("    __start__ --> %s\n", sanitizeID(compiled.Entry())))

	for _, node := range compiled.Nodes() {
		safeID := sanitizeID(node.Name)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, node.Name))

		if node.Labels == nil {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeID(node.Target)))
			continue
		}

		// Deterministic output for labeled edges.
		labels := make([]string, 0, len(node.Labels))
		for label := range node.Labels {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			safeLabel := strings.ReplaceAll(label, "\"", "'")
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeID, safeLabel, sanitizeID(node.Labels[label])))
		}
	}

	if overlay != nil && len(overlay.VisitedNodes) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, name := range overlay.VisitedNodes {
			safeID := sanitizeID(name)
			if safeID != "" && !visitedSet[safeID] {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
	}

	return sb.String()
}

func sanitizeID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
