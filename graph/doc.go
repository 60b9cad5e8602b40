// Package graph builds LangGraph-style state graphs whose structure can be
// inspected as well as executed.
//
// A StateGraph is declared with nodes, unconditional edges and conditional
// edges. Unlike a purely dynamic router, a conditional edge lists every node
// its condition may return, which lets Topology hand the complete control
// flow to the workflow package for path enumeration.
//
// # Building a graph
//
//	g := graph.NewStateGraph[State]()
//	g.AddNode("supervisor", "Classify the request", supervise)
//	g.AddNode("route_by_category", "Route to a department", route)
//	g.AddNode("policy", "Answer policy questions", answer)
//
//	g.AddEdge(graph.START, "supervisor")
//	g.AddConditionalEdge("supervisor", decideNext, "supervisor", "route_by_category")
//	g.AddConditionalEdge("route_by_category", byCategory, "policy")
//	g.AddEdge("policy", graph.END)
//
// # Inspecting
//
//	result, err := g.Workflows()
//	for _, wf := range result.Groups {
//		fmt.Println(wf.NormalizedPath, wf.VariantCount)
//	}
//
// NewExporter renders the same structure as Mermaid, DOT or an ASCII tree.
//
// # Running
//
// Compile validates the graph and returns a StateRunnable. InvokeWithTrace
// follows exactly one path, one node at a time, and returns it so executed
// runs can be checked against the extracted workflows with
// workflow.MeasureCoverage.
package graph
