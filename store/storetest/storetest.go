// Package storetest holds the behaviour every store.ReportStore must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/workflowpaths/store"
	"github.com/smallnest/workflowpaths/workflow"
)

// NewReport returns a report for source created at the given offset from a
// fixed instant, so ordering checks are deterministic.
func NewReport(source, id string, offset time.Duration) *store.Report {
	return &store.Report{
		ID:     id,
		Source: source,
		Start:  workflow.Start,
		End:    workflow.End,
		Workflows: []workflow.Group{
			{NormalizedPath: "START -> supervisor* -> policy -> END", VariantCount: 2, Skeleton: "START -> supervisor -> policy -> END"},
			{NormalizedPath: "START -> supervisor* -> hr -> END", VariantCount: 2, Skeleton: "START -> supervisor -> hr -> END"},
		},
		Stats:     workflow.Stats{Completed: 4, DeadEnds: 1, MaxPathLength: workflow.DefaultMaxPathLength},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Add(offset),
	}
}

// Run exercises s against the ReportStore contract. s must start empty.
func Run(t *testing.T, s store.ReportStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("save and load", func(t *testing.T) {
		r := NewReport("agent", "r-1", 0)
		require.NoError(t, s.Save(ctx, r))

		loaded, err := s.Load(ctx, "r-1")
		require.NoError(t, err)
		assert.Equal(t, r.ID, loaded.ID)
		assert.Equal(t, r.Source, loaded.Source)
		assert.Equal(t, r.Start, loaded.Start)
		assert.Equal(t, r.End, loaded.End)
		assert.Equal(t, r.Workflows, loaded.Workflows)
		assert.Equal(t, r.Stats, loaded.Stats)
		assert.True(t, r.CreatedAt.Equal(loaded.CreatedAt), "created at %s, loaded %s", r.CreatedAt, loaded.CreatedAt)
	})

	t.Run("save replaces", func(t *testing.T) {
		r := NewReport("agent", "r-1", 0)
		r.Workflows = r.Workflows[:1]
		require.NoError(t, s.Save(ctx, r))

		loaded, err := s.Load(ctx, "r-1")
		require.NoError(t, err)
		assert.Len(t, loaded.Workflows, 1)
	})

	t.Run("load missing", func(t *testing.T) {
		_, err := s.Load(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrReportNotFound)
	})

	t.Run("list by source", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, NewReport("agent", "r-3", 2*time.Second)))
		require.NoError(t, s.Save(ctx, NewReport("agent", "r-2", time.Second)))
		require.NoError(t, s.Save(ctx, NewReport("other", "o-1", 0)))

		reports, err := s.List(ctx, "agent")
		require.NoError(t, err)
		require.Len(t, reports, 3)
		assert.Equal(t, "r-1", reports[0].ID)
		assert.Equal(t, "r-2", reports[1].ID)
		assert.Equal(t, "r-3", reports[2].ID)

		all, err := s.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 4)

		none, err := s.List(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "r-2"))
		_, err := s.Load(ctx, "r-2")
		assert.ErrorIs(t, err, store.ErrReportNotFound)

		// deleting twice is not an error
		assert.NoError(t, s.Delete(ctx, "r-2"))
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, s.Clear(ctx, "agent"))

		reports, err := s.List(ctx, "agent")
		require.NoError(t, err)
		assert.Empty(t, reports)

		other, err := s.List(ctx, "other")
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})
}
