// Package workflow enumerates the execution paths of a workflow graph and
// reduces them to a compact list of distinct workflows.
//
// A Graph maps every node to its ordered successors. EnumeratePaths walks it
// depth first from a start node to an end node, allowing each node to repeat
// once through its own self-loop and forbidding every other revisit. Paths
// longer than DefaultMaxPathLength nodes are dropped, which keeps the search
// finite on arbitrary cyclic graphs.
//
// Raw paths are then grouped by skeleton, the path with consecutive
// repetitions collapsed, and each group is rendered with a repetition marker
// on every node that looped:
//
//	g := workflow.NewGraph(
//		workflow.Edge{From: workflow.Start, To: "A"},
//		workflow.Edge{From: "A", To: "A"},
//		workflow.Edge{From: "A", To: "B"},
//		workflow.Edge{From: "B", To: workflow.End},
//	)
//
//	result, _ := workflow.Extract(g)
//	for _, w := range result.Groups {
//		fmt.Println(w.NormalizedPath, w.VariantCount)
//	}
//	// Output: START -> A* -> B -> END 2
//
// Everything in this package is a pure function of its inputs. Graphs come
// from package graph (builder introspection) or package definition
// (declarative files); rendering and persistence live in packages report
// and store.
package workflow
