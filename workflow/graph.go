package workflow

import (
	"slices"
)

const (
	// Start is the reserved sentinel every workflow begins at.
	Start = "START"

	// End is the reserved sentinel every completed workflow finishes at.
	End = "END"
)

// Edge is a directed transition between two nodes.
type Edge struct {
	// From is the node the transition leaves.
	From string `json:"from"`

	// To is the node the transition enters.
	To string `json:"to"`
}

// Graph is an immutable adjacency structure: every node maps to the ordered
// list of its successors. Parallel edges are kept, so a successor may appear
// more than once for the same node.
//
// A Graph is safe for concurrent reads; nothing mutates it after construction.
type Graph struct {
	adjacency map[string][]string
	nodes     []string
	edges     []Edge
}

// NewGraph builds a graph from edges in the order given.
func NewGraph(edges ...Edge) *Graph {
	g := &Graph{adjacency: make(map[string][]string)}
	seen := make(map[string]struct{})
	note := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			g.nodes = append(g.nodes, id)
		}
	}

	for _, e := range edges {
		note(e.From)
		note(e.To)
		g.adjacency[e.From] = append(g.adjacency[e.From], e.To)
		g.edges = append(g.edges, e)
	}
	return g
}

// FromAdjacency copies an adjacency map into a Graph. Go maps carry no order,
// so source nodes are taken in sorted order; successor order is kept as given.
func FromAdjacency(adjacency map[string][]string) *Graph {
	sources := make([]string, 0, len(adjacency))
	for from := range adjacency {
		sources = append(sources, from)
	}
	slices.Sort(sources)

	var edges []Edge
	for _, from := range sources {
		for _, to := range adjacency[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	g := NewGraph(edges...)

	// Nodes without successors still belong to the graph.
	for _, from := range sources {
		if !slices.Contains(g.nodes, from) {
			g.nodes = append(g.nodes, from)
		}
	}
	return g
}

// Successors returns a copy of the successors of id, in edge order.
func (g *Graph) Successors(id string) []string {
	return slices.Clone(g.adjacency[id])
}

// Nodes returns every node mentioned by the graph in first-seen order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.nodes)
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// HasNode reports whether id appears in the graph as a source or a target.
func (g *Graph) HasNode(id string) bool {
	return slices.Contains(g.nodes, id)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// AdjacencyMap returns a deep copy of the adjacency structure.
func (g *Graph) AdjacencyMap() map[string][]string {
	out := make(map[string][]string, len(g.adjacency))
	for from, to := range g.adjacency {
		out[from] = slices.Clone(to)
	}
	return out
}
