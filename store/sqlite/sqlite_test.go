package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/workflowpaths/store"
	"github.com/smallnest/workflowpaths/store/storetest"
)

func TestSqliteReportStore(t *testing.T) {
	s, err := NewSqliteReportStore(SqliteOptions{
		Path: filepath.Join(t.TempDir(), "reports.db"),
	})
	require.NoError(t, err)
	defer s.Close()

	var _ store.ReportStore = s
	storetest.Run(t, s)
}

func TestSqliteReportStore_InMemory(t *testing.T) {
	s, err := NewSqliteReportStore(SqliteOptions{Path: ":memory:", TableName: "custom_reports"})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, storetest.NewReport("agent", "r-1", 0)))

	loaded, err := s.Load(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "agent", loaded.Source)
}

func TestSqliteReportStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reports.db")

	s, err := NewSqliteReportStore(SqliteOptions{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, storetest.NewReport("agent", "r-1", 0)))
	require.NoError(t, s.Close())

	s, err = NewSqliteReportStore(SqliteOptions{Path: path})
	require.NoError(t, err)
	defer s.Close()

	reports, err := s.List(ctx, "agent")
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}
