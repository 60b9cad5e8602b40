package graph

import "fmt"

// NodeError reports a failure raised by a node function during a run.
type NodeError struct {
	// Node is the node whose function failed.
	Node string

	// Err is the error returned by the node function.
	Err error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("error in node %s: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
