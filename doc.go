// Workflowpaths - Listing the Distinct Workflows of a State Graph
//
// Workflowpaths enumerates every execution path from START to END of a
// LangGraph-style state graph and folds paths that only differ by how often
// a self-looping node repeats into a single workflow. It answers "which
// distinct things can this agent do?" for graphs built in Go or declared in
// YAML, JSON or HCL.
//
// # Quick Start
//
// Install the command line tool:
//
//	go install github.com/smallnest/workflowpaths/cmd/workflows@latest
//
// and point it at a definition:
//
//	workflows extract examples/company_agent/graph.yaml
//	workflows extract examples/company_agent/graph.hcl -f json
//	workflows graph examples/company_agent/graph.yaml -f ascii
//
// Or build the graph in Go:
//
//	g := graph.NewStateGraph[Ticket]()
//	g.AddNode("supervisor", "Classify the request", classify)
//	g.AddNode("policy", "Answer policy questions", answer)
//	g.SetEntryPoint("supervisor")
//	g.AddConditionalEdge("supervisor", route, "supervisor", "policy")
//	g.AddEdge("policy", graph.END)
//
//	result, _ := g.Workflows()
//	report.Render(os.Stdout, report.FormatText, "", result)
//
// # Key Features
//
//   - Bounded Search: depth first, at most 20 nodes per path by default
//   - Self-Loops: a node may repeat itself once per path; other cycles are cut
//   - Grouping: variants sharing a skeleton become one workflow, marked with *
//   - Execution: graphs compile to runnables that record their trace
//   - Coverage: recorded traces are matched against the extracted workflows
//   - Reports: text, JSON, markdown and HTML, stored in memory, files,
//     SQLite, PostgreSQL or Redis
//
// # Package Structure
//
// workflow/
// Graph topology, path enumeration, normalization, grouping and coverage.
// Everything else builds on it.
//
// graph/
// Typed state graphs: construction, validation, execution with traces and
// Mermaid, DOT and ASCII export.
//
// definition/
// Declarative graph definitions in YAML, JSON or HCL.
//
// report/
// Renders extraction and coverage results.
//
// store/
// Report persistence, with memory, file, sqlite, postgres and redis
// backends.
//
// config/
// Configuration file of the command line tool.
//
// log/
// Leveled logging used by every package.
//
// cmd/workflows/
// The command line tool.
package workflowpaths // import "github.com/smallnest/workflowpaths"
