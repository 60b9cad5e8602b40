package graph

import (
	"context"
	"fmt"
	"slices"

	"github.com/smallnest/workflowpaths/log"
	"github.com/smallnest/workflowpaths/workflow"
)

// StateGraph is a LangGraph-style workflow definition. Besides being
// compiled and run, it exposes its structure through Topology so the set of
// possible executions can be analysed without running anything.
//
// Example usage:
//
//	g := graph.NewStateGraph[MyState]()
//	g.AddNode("supervisor", "Classify the request", supervise)
//	g.AddNode("policy", "Answer policy questions", answer)
//	g.AddEdge(graph.START, "supervisor")
//	g.AddConditionalEdge("supervisor", route, "supervisor", "policy")
//	g.AddEdge("policy", graph.END)
//
//	topology, err := g.Topology()
type StateGraph[S any] struct {
	// nodes is a map of node names to their corresponding Node objects
	nodes map[string]Node[S]

	// order keeps node declaration order
	order []string

	// edges holds the unconditional edges in declaration order
	edges []Edge

	// conditionalEdges holds at most one conditional edge per source node
	conditionalEdges map[string]ConditionalEdge[S]

	// conditionalOrder keeps the declaration order of conditional edges
	conditionalOrder []string

	// duplicateRouters lists sources given a second conditional edge
	duplicateRouters []string

	// entryPoint is the node START leads to when no START edge was declared
	entryPoint string

	logger log.Logger
}

// NewStateGraph creates an empty graph.
func NewStateGraph[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes:            make(map[string]Node[S]),
		conditionalEdges: make(map[string]ConditionalEdge[S]),
		logger:           log.GetDefaultLogger(),
	}
}

// SetLogger sets the logger used to report suspicious structure.
func (g *StateGraph[S]) SetLogger(logger log.Logger) {
	if logger == nil {
		logger = &log.NoOpLogger{}
	}
	g.logger = logger
}

// AddNode adds a new node to the state graph with the given name, description and function.
// Declaring the same name twice replaces the earlier node; Validate reports it.
func (g *StateGraph[S]) AddNode(name string, description string, fn func(ctx context.Context, state S) (S, error)) {
	// order may hold duplicates; Validate reports them
	g.order = append(g.order, name)
	g.nodes[name] = Node[S]{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge adds a new edge to the state graph between the "from" and "to" nodes.
func (g *StateGraph[S]) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{
		From: from,
		To:   to,
	})
}

// AddConditionalEdge adds an edge whose destination is chosen at run time by
// condition. targets lists every node condition may return; it is what
// Topology reports for the edge. A node takes a single conditional edge;
// a second one is ignored and makes Validate fail with ErrDuplicateRouter.
//
// Example:
//
//	g.AddConditionalEdge("verify_credentials", func(ctx context.Context, s State) string {
//	    if s.Verified {
//	        return "procurement"
//	    }
//	    return graph.END
//	}, "procurement", graph.END)
func (g *StateGraph[S]) AddConditionalEdge(from string, condition func(ctx context.Context, state S) string, targets ...string) {
	if _, exists := g.conditionalEdges[from]; exists {
		// Validate reports it; the first edge stays in place
		g.duplicateRouters = append(g.duplicateRouters, from)
		return
	}
	g.conditionalOrder = append(g.conditionalOrder, from)
	g.conditionalEdges[from] = ConditionalEdge[S]{
		From:      from,
		Condition: condition,
		Targets:   slices.Clone(targets),
	}
}

// SetEntryPoint sets the node START leads to. It is equivalent to
// AddEdge(START, name) and is ignored by Topology when an explicit START
// edge to the same node exists.
func (g *StateGraph[S]) SetEntryPoint(name string) {
	g.entryPoint = name
}

// Node returns the node declared under name.
func (g *StateGraph[S]) Node(name string) (Node[S], bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// NodeNames returns the declared node names in declaration order.
func (g *StateGraph[S]) NodeNames() []string {
	seen := make(map[string]bool, len(g.order))
	names := make([]string, 0, len(g.nodes))
	for _, name := range g.order {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Validate checks that every edge references a declared node (or START/END),
// that node names are unique and not reserved, and that no node has two
// conditional edges.
func (g *StateGraph[S]) Validate() error {
	seen := make(map[string]bool, len(g.order))
	for _, name := range g.order {
		if name == START || name == END {
			return fmt.Errorf("%w: %s", ErrReservedNode, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, name)
		}
		seen[name] = true
	}

	if len(g.duplicateRouters) > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateRouter, g.duplicateRouters[0])
	}

	check := func(name string) error {
		if name == START || name == END {
			return nil
		}
		if _, ok := g.nodes[name]; !ok {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, name)
		}
		return nil
	}

	if g.entryPoint != "" {
		if err := check(g.entryPoint); err != nil {
			return fmt.Errorf("entry point: %w", err)
		}
	}
	for _, e := range g.edges {
		if err := check(e.From); err != nil {
			return fmt.Errorf("edge %s -> %s: %w", e.From, e.To, err)
		}
		if err := check(e.To); err != nil {
			return fmt.Errorf("edge %s -> %s: %w", e.From, e.To, err)
		}
	}
	for _, from := range g.conditionalOrder {
		ce := g.conditionalEdges[from]
		if err := check(from); err != nil {
			return fmt.Errorf("conditional edge from %s: %w", from, err)
		}
		for _, target := range ce.Targets {
			if err := check(target); err != nil {
				return fmt.Errorf("conditional edge %s -> %s: %w", from, target, err)
			}
		}
	}
	return nil
}

// Topology returns the static structure of the graph as an immutable
// workflow.Graph. Unconditional edges come first in declaration order,
// followed by the declared targets of each conditional edge, so
// enumeration order matches the order the graph was written in.
//
// Conditional edges without declared targets cannot be followed
// statically; they are skipped with a warning.
func (g *StateGraph[S]) Topology() (*workflow.Graph, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	edges := make([]workflow.Edge, 0, len(g.edges)+len(g.conditionalEdges)+1)
	if g.entryPoint != "" && !g.hasEdge(START, g.entryPoint) {
		edges = append(edges, workflow.Edge{From: START, To: g.entryPoint})
	}
	for _, e := range g.edges {
		edges = append(edges, workflow.Edge{From: e.From, To: e.To})
	}
	for _, from := range g.conditionalOrder {
		ce := g.conditionalEdges[from]
		if len(ce.Targets) == 0 {
			g.logger.Warn("conditional edge from %s declares no targets and is left out of the topology", from)
			continue
		}
		for _, target := range ce.Targets {
			edges = append(edges, workflow.Edge{From: from, To: target})
		}
	}
	return workflow.NewGraph(edges...), nil
}

// Workflows is a shortcut for extracting the workflows of the graph's
// topology.
func (g *StateGraph[S]) Workflows(opts ...workflow.ExtractOption) (*workflow.Result, error) {
	topology, err := g.Topology()
	if err != nil {
		return nil, err
	}
	return workflow.Extract(topology, opts...)
}

func (g *StateGraph[S]) hasEdge(from, to string) bool {
	for _, e := range g.edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// successors returns the static successors of a node, entry point included.
func (g *StateGraph[S]) successors(name string) []string {
	var out []string
	if name == START && g.entryPoint != "" && !g.hasEdge(START, g.entryPoint) {
		out = append(out, g.entryPoint)
	}
	for _, e := range g.edges {
		if e.From == name && !slices.Contains(out, e.To) {
			out = append(out, e.To)
		}
	}
	return out
}
