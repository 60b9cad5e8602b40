// Package store persists extraction reports.
//
// A Report captures the workflows extracted from one graph together with
// the search statistics. ReportStore is implemented by several backends:
//
//   - store/memory: process-local, for tests and one-shot runs
//   - store/file: one JSON document per report in a directory
//   - store/sqlite: a single-file SQLite database
//   - store/postgres: PostgreSQL through pgx
//   - store/redis: Redis, with a set per source indexing its reports
//
// Every backend returns ErrReportNotFound (possibly wrapped) when Load is
// asked for an unknown ID.
//
// # Example
//
//	result, _ := workflow.Extract(topology)
//	report := store.NewReport("company_agent", result)
//	if err := s.Save(ctx, report); err != nil {
//		return err
//	}
//	reports, _ := s.List(ctx, "company_agent")
package store
