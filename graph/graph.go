package graph

import (
	"context"
	"errors"

	"github.com/smallnest/workflowpaths/workflow"
)

const (
	// START is the virtual node every execution begins at.
	START = workflow.Start

	// END is a special constant used to represent the end node in the graph.
	END = workflow.End
)

// DefaultRecursionLimit bounds the number of node executions in one Invoke.
const DefaultRecursionLimit = 25

var (
	// ErrEntryPointNotSet is returned when nothing leaves START.
	ErrEntryPointNotSet = errors.New("entry point not set")

	// ErrNodeNotFound is returned when an edge references an undeclared node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateNode is returned when a node name is declared twice.
	ErrDuplicateNode = errors.New("node already declared")

	// ErrDuplicateRouter is returned when a node has more than one
	// conditional edge.
	ErrDuplicateRouter = errors.New("node already has a conditional edge")

	// ErrReservedNode is returned when START or END is declared as a node.
	ErrReservedNode = errors.New("node name is reserved")

	// ErrNoOutgoingEdge is returned when no outgoing edge is found for a node.
	ErrNoOutgoingEdge = errors.New("no outgoing edge found for node")

	// ErrInvalidRoute is returned when a condition picks a node it did not declare.
	ErrInvalidRoute = errors.New("conditional edge routed to an undeclared target")

	// ErrFanOut is returned at run time when a node has several static
	// successors; a traced run follows exactly one path.
	ErrFanOut = errors.New("node has more than one static successor")

	// ErrRecursionLimit is returned when a run executes more nodes than allowed.
	ErrRecursionLimit = errors.New("recursion limit reached")
)

// Node represents a node in the graph.
type Node[S any] struct {
	// Name is the unique identifier for the node.
	Name string

	// Description describes the functionality of the node.
	Description string

	// Function transforms the state.
	Function func(ctx context.Context, state S) (S, error)
}

// Edge represents an unconditional edge in the graph.
type Edge struct {
	// From is the name of the node from which the edge originates.
	From string

	// To is the name of the node to which the edge points.
	To string
}

// ConditionalEdge routes to one of Targets, chosen at run time by Condition.
// A node has at most one; list every destination in Targets instead.
type ConditionalEdge[S any] struct {
	// From is the node the edge leaves.
	From string

	// Condition returns the name of the next node.
	Condition func(ctx context.Context, state S) string

	// Targets are the nodes Condition may return, in declaration order.
	// A target listed twice is two parallel edges. An empty list makes the
	// edge opaque to static analysis.
	Targets []string
}
