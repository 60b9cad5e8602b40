package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/workflowpaths/workflow"
)

func TestStateRunnable_BasicFunctionality(t *testing.T) {
	g := NewStateGraph[TestState]()

	g.AddNode("increment", "Increment counter", func(ctx context.Context, state TestState) (TestState, error) {
		state.Count++
		return state, nil
	})
	g.AddNode("check", "Check count", func(ctx context.Context, state TestState) (TestState, error) {
		if state.Category == "" {
			state.Category = "test"
		}
		return state, nil
	})

	g.SetEntryPoint("increment")
	g.AddEdge("increment", "check")
	g.AddEdge("check", END)

	runnable, err := g.Compile()
	if err != nil {
		t.Fatalf("Failed to compile graph: %v", err)
	}

	finalState, err := runnable.Invoke(context.Background(), TestState{})
	if err != nil {
		t.Fatalf("Failed to invoke graph: %v", err)
	}

	if finalState.Count != 1 {
		t.Errorf("Expected count to be 1, got %d", finalState.Count)
	}
	if finalState.Category != "test" {
		t.Errorf("Expected category to be 'test', got '%s'", finalState.Category)
	}
}

func TestStateRunnable_TraceFollowsConditions(t *testing.T) {
	runnable, err := companyAgent().Compile()
	require.NoError(t, err)

	tests := []struct {
		name  string
		state TestState
		want  workflow.Path
	}{
		{
			name:  "clarification then policy",
			state: TestState{},
			want:  workflow.Path{START, "supervisor", "supervisor", "route_by_category", "policy", END},
		},
		{
			name:  "verified procurement",
			state: TestState{Category: "procurement", Verified: true},
			want:  workflow.Path{START, "supervisor", "route_by_category", "verify_credentials", "procurement", END},
		},
		{
			name:  "unverified procurement",
			state: TestState{Category: "procurement"},
			want:  workflow.Path{START, "supervisor", "route_by_category", "verify_credentials", END},
		},
		{
			name:  "hr",
			state: TestState{Category: "hr"},
			want:  workflow.Path{START, "supervisor", "route_by_category", "permission_check_local_DB", "hr", END},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, trace, err := runnable.InvokeWithTrace(context.Background(), tt.state, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, trace.Path)
			assert.NotEmpty(t, trace.RunID)
			// every executed node recorded itself
			assert.Equal(t, []string(tt.want[1:len(tt.want)-1]), final.Visited)
		})
	}
}

func TestStateRunnable_TracesMatchWorkflows(t *testing.T) {
	g := companyAgent()
	runnable, err := g.Compile()
	require.NoError(t, err)
	result, err := g.Workflows()
	require.NoError(t, err)

	var traces []workflow.Path
	for _, state := range []TestState{{}, {Category: "hr"}} {
		_, trace, err := runnable.InvokeWithTrace(context.Background(), state, nil)
		require.NoError(t, err)
		traces = append(traces, trace.Path)
	}

	coverage := workflow.MeasureCoverage(result.Groups, traces)
	assert.Empty(t, coverage.Unmatched)
	assert.InDelta(t, 0.5, coverage.Ratio(), 1e-9)
}

func TestStateRunnable_Config(t *testing.T) {
	runnable, err := companyAgent().Compile()
	require.NoError(t, err)

	_, trace, err := runnable.InvokeWithTrace(context.Background(), TestState{Category: "hr"}, &Config{RunID: "run-1"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", trace.RunID)

	_, _, err = runnable.InvokeWithTrace(context.Background(), TestState{}, &Config{RecursionLimit: 2})
	assert.ErrorIs(t, err, ErrRecursionLimit)
}

func TestStateRunnable_RecursionLimit(t *testing.T) {
	g := NewStateGraph[TestState]()
	g.AddNode("loop", "", func(ctx context.Context, s TestState) (TestState, error) {
		s.Count++
		return s, nil
	})
	g.SetEntryPoint("loop")
	g.AddConditionalEdge("loop", func(ctx context.Context, s TestState) string { return "loop" }, "loop", END)

	runnable, err := g.Compile()
	require.NoError(t, err)

	final, trace, err := runnable.InvokeWithTrace(context.Background(), TestState{}, nil)
	assert.ErrorIs(t, err, ErrRecursionLimit)
	assert.Equal(t, DefaultRecursionLimit, final.Count)
	assert.Len(t, trace.Path, DefaultRecursionLimit+1)
}

func TestStateRunnable_Errors(t *testing.T) {
	t.Run("no entry point", func(t *testing.T) {
		g := NewStateGraph[TestState]()
		g.AddNode("a", "", nil)

		_, err := g.Compile()
		assert.ErrorIs(t, err, ErrEntryPointNotSet)
	})

	t.Run("node failure", func(t *testing.T) {
		boom := errors.New("boom")
		g := NewStateGraph[TestState]()
		g.AddNode("a", "", func(ctx context.Context, s TestState) (TestState, error) { return s, boom })
		g.SetEntryPoint("a")
		g.AddEdge("a", END)

		runnable, err := g.Compile()
		require.NoError(t, err)

		_, trace, err := runnable.InvokeWithTrace(context.Background(), TestState{}, nil)
		assert.ErrorIs(t, err, boom)
		assert.True(t, IsNodeError(err))
		assert.Equal(t, workflow.Path{START, "a"}, trace.Path)
	})

	t.Run("no outgoing edge", func(t *testing.T) {
		g := NewStateGraph[TestState]()
		g.AddNode("a", "", nil)
		g.SetEntryPoint("a")

		runnable, err := g.Compile()
		require.NoError(t, err)

		_, err = runnable.Invoke(context.Background(), TestState{})
		assert.ErrorIs(t, err, ErrNoOutgoingEdge)
	})

	t.Run("undeclared route", func(t *testing.T) {
		g := NewStateGraph[TestState]()
		g.AddNode("a", "", nil)
		g.AddNode("b", "", nil)
		g.SetEntryPoint("a")
		g.AddConditionalEdge("a", func(ctx context.Context, s TestState) string { return "b" }, END)
		g.AddEdge("b", END)

		runnable, err := g.Compile()
		require.NoError(t, err)

		_, err = runnable.Invoke(context.Background(), TestState{})
		assert.ErrorIs(t, err, ErrInvalidRoute)
	})

	t.Run("fan out", func(t *testing.T) {
		g := NewStateGraph[TestState]()
		g.AddNode("a", "", nil)
		g.AddNode("b", "", nil)
		g.AddNode("c", "", nil)
		g.SetEntryPoint("a")
		g.AddEdge("a", "b")
		g.AddEdge("a", "c")

		runnable, err := g.Compile()
		require.NoError(t, err)

		_, err = runnable.Invoke(context.Background(), TestState{})
		assert.ErrorIs(t, err, ErrFanOut)
	})

	t.Run("cancelled context", func(t *testing.T) {
		runnable, err := companyAgent().Compile()
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		<-ctx.Done()

		_, err = runnable.Invoke(ctx, TestState{})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
