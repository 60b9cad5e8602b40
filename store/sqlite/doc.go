// Package sqlite provides a SQLite-backed store.ReportStore.
//
// Reports live in one table (default "workflow_reports"); workflows and
// statistics are stored as JSON text and reports are indexed by source.
//
//	s, err := sqlite.NewSqliteReportStore(sqlite.SqliteOptions{
//		Path: "./workflows.db",
//	})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
// The database is opened through github.com/mattn/go-sqlite3, which needs
// cgo.
package sqlite
