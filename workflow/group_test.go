package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/workflowpaths/log"
)

func TestGroupPaths_Empty(t *testing.T) {
	groups := GroupPaths(nil)
	assert.Equal(t, 0, groups.Len())
	assert.Empty(t, groups.Keys())
	assert.Empty(t, BuildGroups(groups))
	assert.Nil(t, BuildGroups(nil))
}

func TestGroupPaths_OrderAndBuckets(t *testing.T) {
	paths := []Path{
		{Start, "A", "A", "B", End},
		{Start, "C", End},
		{Start, "A", "B", End},
	}

	groups := GroupPaths(paths)

	assert.Equal(t, []string{"START -> A -> B -> END", "START -> C -> END"}, groups.Keys())
	bucket, ok := groups.Get("START -> A -> B -> END")
	require.True(t, ok)
	assert.Equal(t, []Path{paths[0], paths[2]}, bucket)
	assert.Equal(t, 3, groups.Total())

	_, ok = groups.Get("missing")
	assert.False(t, ok)
}

func TestBuildGroups_PicksLongestVariant(t *testing.T) {
	// The shorter variant comes first; the representative must still show
	// the self-loop.
	groups := GroupPaths([]Path{
		{Start, "A", "B", End},
		{Start, "A", "B", "B", End},
		{Start, "A", "A", "B", End},
	})

	built := BuildGroups(groups)

	require.Len(t, built, 1)
	assert.Equal(t, "START -> A -> B* -> END", built[0].NormalizedPath, "first of the longest variants wins")
	assert.Equal(t, 3, built[0].VariantCount)
	assert.Equal(t, "START -> A -> B -> END", built[0].Skeleton)
}

func TestExtract_SelfLoopExample(t *testing.T) {
	g := FromAdjacency(map[string][]string{
		Start: {"A"},
		"A":   {"A", "B"},
		"B":   {End},
	})

	result, err := Extract(g, WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err)

	assert.Equal(t, []Group{{
		NormalizedPath: "START -> A* -> B -> END",
		VariantCount:   2,
		Skeleton:       "START -> A -> B -> END",
	}}, result.Groups)
	assert.Len(t, result.Paths, 2)
	assert.Equal(t, Start, result.Start)
	assert.Equal(t, End, result.End)
}

func TestExtract_GroupingIsAPartition(t *testing.T) {
	g := NewGraph(
		Edge{From: Start, To: "supervisor"},
		Edge{From: "supervisor", To: "supervisor"},
		Edge{From: "supervisor", To: "route"},
		Edge{From: "route", To: "policy"},
		Edge{From: "route", To: "verify"},
		Edge{From: "verify", To: "procurement"},
		Edge{From: "verify", To: End},
		Edge{From: "policy", To: End},
		Edge{From: "procurement", To: End},
	)

	result, err := Extract(g, WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err)

	assert.Equal(t, len(result.Paths), result.TotalVariants())
	assert.Equal(t, []string{
		"START -> supervisor* -> route -> policy -> END",
		"START -> supervisor* -> route -> verify -> procurement -> END",
		"START -> supervisor* -> route -> verify -> END",
	}, normalizedOf(result.Groups))
	for _, grp := range result.Groups {
		assert.Equal(t, 2, grp.VariantCount)
	}

	seen := make(map[string]bool)
	for _, grp := range result.Groups {
		assert.False(t, seen[grp.Skeleton], "skeleton %q emitted twice", grp.Skeleton)
		seen[grp.Skeleton] = true
	}
}

func TestExtract_Options(t *testing.T) {
	g := NewGraph(chain("in", "work", "work", "out")...)

	result, err := Extract(g,
		WithStart("in"),
		WithEnd("out"),
		WithLogger(nil),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"in -> work* -> out"}, normalizedOf(result.Groups))
	assert.Equal(t, 2, result.Groups[0].VariantCount)
}

func TestExtract_FailOnTruncation(t *testing.T) {
	g := linearGraph(19)

	result, err := Extract(g, WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err, "truncation is silent by default")
	assert.Empty(t, result.Groups)
	assert.Equal(t, 1, result.Stats.Truncated)

	result, err = Extract(g, WithFailOnTruncation(), WithLogger(&log.NoOpLogger{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSearchDepthExceeded))
	require.NotNil(t, result)

	result, err = Extract(g, WithFailOnTruncation(), WithPathLimit(21), WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err)
	assert.Len(t, result.Groups, 1)
}

func normalizedOf(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.NormalizedPath
	}
	return out
}
