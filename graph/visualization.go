package graph

import (
	"fmt"
	"strings"
)

// Exporter provides methods to export graphs in different formats
type Exporter[S any] struct {
	graph *StateGraph[S]
}

// NewExporter creates a new graph exporter for the given graph
func NewExporter[S any](graph *StateGraph[S]) *Exporter[S] {
	return &Exporter[S]{graph: graph}
}

// MermaidOptions defines configuration for Mermaid diagram generation
type MermaidOptions struct {
	// Direction of the flowchart (e.g., "TD", "LR")
	Direction string
}

// exportEdge is an edge as drawn: conditional edges are dashed.
type exportEdge struct {
	from, to    string
	conditional bool
}

// edges lists static edges first, then declared conditional targets.
// Conditional edges without targets are drawn to a "?" placeholder.
func (ge *Exporter[S]) edges() []exportEdge {
	g := ge.graph
	var out []exportEdge
	if g.entryPoint != "" && !g.hasEdge(START, g.entryPoint) {
		out = append(out, exportEdge{from: START, to: g.entryPoint})
	}
	for _, e := range g.edges {
		out = append(out, exportEdge{from: e.From, to: e.To})
	}
	for _, from := range g.conditionalOrder {
		ce := g.conditionalEdges[from]
		if len(ce.Targets) == 0 {
			out = append(out, exportEdge{from: from, to: "", conditional: true})
			continue
		}
		seen := make(map[string]bool, len(ce.Targets))
		for _, target := range ce.Targets {
			if seen[target] {
				continue
			}
			seen[target] = true
			out = append(out, exportEdge{from: from, to: target, conditional: true})
		}
	}
	return out
}

func (ge *Exporter[S]) referencesEnd(edges []exportEdge) bool {
	for _, e := range edges {
		if e.to == END {
			return true
		}
	}
	return false
}

// DrawMermaid generates a Mermaid diagram representation of the graph
func (ge *Exporter[S]) DrawMermaid() string {
	return ge.DrawMermaidWithOptions(MermaidOptions{
		Direction: "TD",
	})
}

// DrawMermaidWithOptions generates a Mermaid diagram with custom options
func (ge *Exporter[S]) DrawMermaidWithOptions(opts MermaidOptions) string {
	var sb strings.Builder

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}
	sb.WriteString(fmt.Sprintf("flowchart %s\n", direction))

	edges := ge.edges()

	sb.WriteString("    START([\"START\"])\n")
	sb.WriteString("    style START fill:#90EE90\n")

	for _, name := range ge.graph.NodeNames() {
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", name, name))
	}

	if ge.referencesEnd(edges) {
		sb.WriteString("    END([\"END\"])\n")
		sb.WriteString("    style END fill:#FFB6C1\n")
	}

	for _, e := range edges {
		switch {
		case e.to == "":
			sb.WriteString(fmt.Sprintf("    %s -.-> %s_condition((?))\n", e.from, e.from))
			sb.WriteString(fmt.Sprintf("    style %s_condition fill:#FFFFE0,stroke:#333,stroke-dasharray: 5 5\n", e.from))
		case e.conditional:
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", e.from, e.to))
		default:
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", e.from, e.to))
		}
	}

	return sb.String()
}

// DrawDOT generates a DOT (Graphviz) representation of the graph
func (ge *Exporter[S]) DrawDOT() string {
	var sb strings.Builder

	sb.WriteString("digraph G {\n")
	sb.WriteString("    rankdir=TD;\n")
	sb.WriteString("    node [shape=box];\n")
	sb.WriteString("    START [label=\"START\", shape=ellipse, style=filled, fillcolor=lightgreen];\n")

	edges := ge.edges()
	if ge.referencesEnd(edges) {
		sb.WriteString("    END [label=\"END\", shape=ellipse, style=filled, fillcolor=lightpink];\n")
	}

	for _, e := range edges {
		switch {
		case e.to == "":
			sb.WriteString(fmt.Sprintf("    %s -> %s_condition [style=dashed, label=\"?\"];\n", e.from, e.from))
			sb.WriteString(fmt.Sprintf("    %s_condition [label=\"?\", shape=diamond, style=filled, fillcolor=lightyellow];\n", e.from))
		case e.conditional:
			sb.WriteString(fmt.Sprintf("    %s -> %s [style=dashed];\n", e.from, e.to))
		default:
			sb.WriteString(fmt.Sprintf("    %s -> %s;\n", e.from, e.to))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// DrawASCII generates an ASCII tree representation of the graph
func (ge *Exporter[S]) DrawASCII() string {
	edges := ge.edges()
	hasStart := false
	for _, e := range edges {
		if e.from == START {
			hasStart = true
			break
		}
	}
	if !hasStart {
		return "No entry point set\n"
	}

	var sb strings.Builder
	visited := map[string]bool{START: true}

	sb.WriteString("Graph Execution Flow:\n")
	sb.WriteString("└── START\n")
	ge.drawASCIIChildren(START, "    ", edges, visited, &sb)

	return sb.String()
}

func (ge *Exporter[S]) drawASCIIChildren(nodeName, prefix string, edges []exportEdge, visited map[string]bool, sb *strings.Builder) {
	var children []exportEdge
	for _, e := range edges {
		if e.from == nodeName {
			children = append(children, e)
		}
	}
	for i, child := range children {
		ge.drawASCIINode(child, prefix, i == len(children)-1, edges, visited, sb)
	}
}

// drawASCIINode recursively draws ASCII representation of nodes
func (ge *Exporter[S]) drawASCIINode(edge exportEdge, prefix string, isLast bool, edges []exportEdge, visited map[string]bool, sb *strings.Builder) {
	connector := "├──"
	nextPrefix := prefix + "│   "
	if isLast {
		connector = "└──"
		nextPrefix = prefix + "    "
	}

	label := edge.to
	if label == "" {
		label = "(?)"
	}
	if edge.conditional {
		label += " [conditional]"
	}

	if edge.to != "" && visited[edge.to] {
		sb.WriteString(fmt.Sprintf("%s%s %s (cycle)\n", prefix, connector, label))
		return
	}
	sb.WriteString(fmt.Sprintf("%s%s %s\n", prefix, connector, label))

	if edge.to == "" || edge.to == END {
		return
	}

	visited[edge.to] = true
	ge.drawASCIIChildren(edge.to, nextPrefix, edges, visited, sb)
}

// GetGraphForRunnable returns a Exporter for the compiled graph's visualization
func GetGraphForRunnable[S any](r *StateRunnable[S]) *Exporter[S] {
	return NewExporter(r.graph)
}
