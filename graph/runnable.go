package graph

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/smallnest/workflowpaths/log"
	"github.com/smallnest/workflowpaths/workflow"
)

// Config tunes a single run.
type Config struct {
	// RunID identifies the run. A random one is generated when empty.
	RunID string

	// RecursionLimit caps the number of node executions. Zero means
	// DefaultRecursionLimit.
	RecursionLimit int
}

// Trace records the path a run took, START and END included, so it can be
// matched against the workflows extracted from the topology.
type Trace struct {
	RunID string
	Path  workflow.Path
}

// StateRunnable represents a compiled state graph that can be invoked with type safety.
type StateRunnable[S any] struct {
	graph  *StateGraph[S]
	logger log.Logger
}

// Compile validates the state graph and returns a StateRunnable instance.
func (g *StateGraph[S]) Compile() (*StateRunnable[S], error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if g.entryPoint == "" && len(g.successors(START)) == 0 {
		if _, ok := g.conditionalEdges[START]; !ok {
			return nil, ErrEntryPointNotSet
		}
	}
	return &StateRunnable[S]{
		graph:  g,
		logger: g.logger,
	}, nil
}

// Graph returns the graph the runnable was compiled from.
func (r *StateRunnable[S]) Graph() *StateGraph[S] {
	return r.graph
}

// Invoke executes the compiled state graph with the given initial state.
func (r *StateRunnable[S]) Invoke(ctx context.Context, initialState S) (S, error) {
	state, _, err := r.InvokeWithTrace(ctx, initialState, nil)
	return state, err
}

// InvokeWithTrace runs the graph one node at a time and returns the final
// state together with the path that was taken. On failure the trace holds
// the path up to and including the failing node.
//
// At each step a conditional edge takes precedence over static edges. A
// node with more than one distinct static successor cannot be followed by a
// single-path run and fails with ErrFanOut.
func (r *StateRunnable[S]) InvokeWithTrace(ctx context.Context, initialState S, config *Config) (S, *Trace, error) {
	runID := ""
	limit := DefaultRecursionLimit
	if config != nil {
		runID = config.RunID
		if config.RecursionLimit > 0 {
			limit = config.RecursionLimit
		}
	}
	if runID == "" {
		runID = uuid.NewString()
	}

	state := initialState
	trace := &Trace{RunID: runID, Path: workflow.Path{START}}

	current, err := r.next(ctx, START, state)
	if err != nil {
		return state, trace, err
	}

	for steps := 0; current != END; steps++ {
		if steps >= limit {
			return state, trace, fmt.Errorf("%w: %d steps without reaching %s", ErrRecursionLimit, limit, END)
		}
		if err := ctx.Err(); err != nil {
			return state, trace, err
		}

		node, ok := r.graph.nodes[current]
		if !ok {
			return state, trace, fmt.Errorf("%w: %s", ErrNodeNotFound, current)
		}
		trace.Path = append(trace.Path, current)

		if node.Function != nil {
			state, err = node.Function(ctx, state)
			if err != nil {
				return state, trace, &NodeError{Node: current, Err: err}
			}
		}

		current, err = r.next(ctx, current, state)
		if err != nil {
			return state, trace, err
		}
	}

	trace.Path = append(trace.Path, END)
	r.logger.Debug("run %s finished: %s", runID, trace.Path)
	return state, trace, nil
}

// next picks the node that follows from.
func (r *StateRunnable[S]) next(ctx context.Context, from string, state S) (string, error) {
	if ce, ok := r.graph.conditionalEdges[from]; ok && ce.Condition != nil {
		target := ce.Condition(ctx, state)
		if len(ce.Targets) > 0 && !slices.Contains(ce.Targets, target) {
			return "", fmt.Errorf("%w: %s -> %s", ErrInvalidRoute, from, target)
		}
		if target != END {
			if _, ok := r.graph.nodes[target]; !ok {
				return "", fmt.Errorf("%w: %s -> %s", ErrInvalidRoute, from, target)
			}
		}
		return target, nil
	}

	successors := r.graph.successors(from)
	switch len(successors) {
	case 0:
		if from == START {
			return "", ErrEntryPointNotSet
		}
		return "", fmt.Errorf("%w: %s", ErrNoOutgoingEdge, from)
	case 1:
		return successors[0], nil
	default:
		return "", fmt.Errorf("%w: %s -> %v", ErrFanOut, from, successors)
	}
}

// IsNodeError reports whether err was raised by a node function.
func IsNodeError(err error) bool {
	var nodeErr *NodeError
	return errors.As(err, &nodeErr)
}
