// Package definition loads graph definitions from YAML, JSON or HCL files
// and builds them into graph.StateGraph values.
//
// A definition lists nodes, unconditional edges and conditional edges with
// every target they may route to:
//
//	name: company_agent
//	nodes:
//	  - name: supervisor
//	  - name: policy
//	edges:
//	  - {from: START, to: supervisor}
//	  - {from: policy, to: END}
//	conditional_edges:
//	  - from: supervisor
//	    targets: [supervisor, policy]
//
// The HCL form uses node "name" {} blocks, edge { from, to } blocks and
// conditional_edge { from, targets } blocks.
package definition
