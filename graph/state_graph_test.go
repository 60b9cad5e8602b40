package graph

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/workflowpaths/log"
	"github.com/smallnest/workflowpaths/workflow"
)

// TestState is a simple test state
type TestState struct {
	Count    int      `json:"count"`
	Category string   `json:"category"`
	Verified bool     `json:"verified"`
	Visited  []string `json:"visited"`
}

func record(name string) func(ctx context.Context, s TestState) (TestState, error) {
	return func(ctx context.Context, s TestState) (TestState, error) {
		s.Visited = append(s.Visited, name)
		return s, nil
	}
}

// companyAgent builds the human-in-the-loop support agent: a supervisor
// that may ask for clarification once, a category router and three
// departments.
func companyAgent() *StateGraph[TestState] {
	g := NewStateGraph[TestState]()
	g.AddNode("supervisor", "Classify the request", func(ctx context.Context, s TestState) (TestState, error) {
		s.Count++
		s.Visited = append(s.Visited, "supervisor")
		return s, nil
	})
	g.AddNode("policy", "Answer policy questions", record("policy"))
	g.AddNode("verify_credentials", "Check the requester", record("verify_credentials"))
	g.AddNode("procurement", "Place orders", record("procurement"))
	g.AddNode("hr", "Handle HR requests", record("hr"))
	g.AddNode("permission_check_local_DB", "Check HR permissions", record("permission_check_local_DB"))
	g.AddNode("route_by_category", "Route to a department", record("route_by_category"))

	g.AddEdge(START, "supervisor")
	g.AddConditionalEdge("supervisor", func(ctx context.Context, s TestState) string {
		if s.Category == "" && s.Count < 2 {
			return "supervisor"
		}
		return "route_by_category"
	}, "supervisor", "route_by_category")
	g.AddConditionalEdge("route_by_category", func(ctx context.Context, s TestState) string {
		switch s.Category {
		case "procurement":
			return "verify_credentials"
		case "hr":
			return "permission_check_local_DB"
		default:
			return "policy"
		}
	}, "policy", "verify_credentials", "permission_check_local_DB")
	g.AddEdge("policy", END)
	g.AddConditionalEdge("verify_credentials", func(ctx context.Context, s TestState) string {
		if s.Verified {
			return "procurement"
		}
		return END
	}, "procurement", END)
	g.AddEdge("procurement", END)
	g.AddEdge("permission_check_local_DB", "hr")
	g.AddEdge("hr", END)
	return g
}

func TestStateGraph_Topology(t *testing.T) {
	topology, err := companyAgent().Topology()
	require.NoError(t, err)

	assert.Equal(t, []string{"supervisor"}, topology.Successors(START))
	assert.Equal(t, []string{"supervisor", "route_by_category"}, topology.Successors("supervisor"))
	assert.Equal(t, []string{"policy", "verify_credentials", "permission_check_local_DB"}, topology.Successors("route_by_category"))
	assert.Equal(t, []string{"procurement", END}, topology.Successors("verify_credentials"))
	assert.Equal(t, []string{"hr"}, topology.Successors("permission_check_local_DB"))
	assert.Empty(t, topology.Successors(END))
}

func TestStateGraph_TopologyStaticEdgesFirst(t *testing.T) {
	g := NewStateGraph[TestState]()
	g.AddNode("a", "", nil)
	g.AddNode("b", "", nil)
	g.AddNode("c", "", nil)
	g.AddConditionalEdge("a", func(ctx context.Context, s TestState) string { return "c" }, "c")
	g.AddEdge(START, "a")
	g.AddEdge("a", "b")
	g.AddEdge("b", END)
	g.AddEdge("c", END)

	topology, err := g.Topology()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, topology.Successors("a"))
}

func TestStateGraph_EntryPoint(t *testing.T) {
	g := NewStateGraph[TestState]()
	g.AddNode("a", "", nil)
	g.SetEntryPoint("a")
	g.AddEdge("a", END)

	topology, err := g.Topology()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, topology.Successors(START))

	// an explicit START edge to the same node is not doubled
	g.AddEdge(START, "a")
	topology, err = g.Topology()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, topology.Successors(START))
	assert.Len(t, topology.Edges(), 2)
}

func TestStateGraph_Validate(t *testing.T) {
	t.Run("unknown edge target", func(t *testing.T) {
		g := NewStateGraph[TestState]()
		g.AddNode("a", "", nil)
		g.AddEdge(START, "a")
		g.AddEdge("a", "missing")

		_, err := g.Topology()
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("unknown conditional target", func(t *testing.T) {
		g := NewStateGraph[TestState]()
		g.AddNode("a", "", nil)
		g.AddEdge(START, "a")
		g.AddConditionalEdge("a", func(ctx context.Context, s TestState) string { return END }, END, "ghost")

		assert.ErrorIs(t, g.Validate(), ErrNodeNotFound)
	})

	t.Run("second conditional edge from a node", func(t *testing.T) {
		g := NewStateGraph[TestState]()
		g.AddNode("a", "", nil)
		g.AddNode("b", "", nil)
		g.AddEdge(START, "a")
		g.AddEdge("b", END)
		g.AddConditionalEdge("a", func(ctx context.Context, s TestState) string { return "b" }, "b")
		g.AddConditionalEdge("a", func(ctx context.Context, s TestState) string { return END }, END)

		assert.ErrorIs(t, g.Validate(), ErrDuplicateRouter)
		_, err := g.Topology()
		assert.ErrorIs(t, err, ErrDuplicateRouter)
		_, err = g.Compile()
		assert.ErrorIs(t, err, ErrDuplicateRouter)

		edge, ok := g.conditionalEdges["a"]
		require.True(t, ok)
		assert.Equal(t, []string{"b"}, edge.Targets)
	})

	t.Run("unknown entry point", func(t *testing.T) {
		g := NewStateGraph[TestState]()
		g.SetEntryPoint("nowhere")

		assert.ErrorIs(t, g.Validate(), ErrNodeNotFound)
	})

	t.Run("duplicate node", func(t *testing.T) {
		g := NewStateGraph[TestState]()
		g.AddNode("a", "", nil)
		g.AddNode("a", "again", nil)

		assert.ErrorIs(t, g.Validate(), ErrDuplicateNode)
		assert.Equal(t, []string{"a"}, g.NodeNames())
	})

	t.Run("reserved name", func(t *testing.T) {
		g := NewStateGraph[TestState]()
		g.AddNode(END, "", nil)

		assert.ErrorIs(t, g.Validate(), ErrReservedNode)
	})
}

func TestStateGraph_OpaqueConditionalEdgeWarns(t *testing.T) {
	var buf bytes.Buffer
	g := NewStateGraph[TestState]()
	g.SetLogger(log.NewCustomLogger(&buf, log.LogLevelWarn))
	g.AddNode("a", "", nil)
	g.AddEdge(START, "a")
	g.AddConditionalEdge("a", func(ctx context.Context, s TestState) string { return END })

	topology, err := g.Topology()
	require.NoError(t, err)
	assert.Empty(t, topology.Successors("a"))
	assert.Contains(t, buf.String(), "conditional edge from a declares no targets")
}

func TestStateGraph_Workflows(t *testing.T) {
	result, err := companyAgent().Workflows()
	require.NoError(t, err)

	want := []workflow.Group{
		{NormalizedPath: "START -> supervisor* -> route_by_category -> policy -> END", VariantCount: 2},
		{NormalizedPath: "START -> supervisor* -> route_by_category -> verify_credentials -> procurement -> END", VariantCount: 2},
		{NormalizedPath: "START -> supervisor* -> route_by_category -> verify_credentials -> END", VariantCount: 2},
		{NormalizedPath: "START -> supervisor* -> route_by_category -> permission_check_local_DB -> hr -> END", VariantCount: 2},
	}
	require.Len(t, result.Groups, len(want))
	for i, w := range want {
		assert.Equal(t, w.NormalizedPath, result.Groups[i].NormalizedPath)
		assert.Equal(t, w.VariantCount, result.Groups[i].VariantCount)
	}
	assert.Equal(t, 8, result.TotalVariants())
}

func TestStateGraph_WorkflowsPropagatesValidation(t *testing.T) {
	g := NewStateGraph[TestState]()
	g.AddEdge(START, "missing")

	_, err := g.Workflows()
	assert.ErrorIs(t, err, ErrNodeNotFound)
}
