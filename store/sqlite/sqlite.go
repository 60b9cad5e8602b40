package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/workflowpaths/store"
)

// SqliteReportStore implements store.ReportStore using SQLite
type SqliteReportStore struct {
	db        *sql.DB
	tableName string
}

// SqliteOptions configuration for SQLite connection
type SqliteOptions struct {
	Path      string
	TableName string // Default "workflow_reports"
}

// NewSqliteReportStore creates a new SQLite report store
func NewSqliteReportStore(opts SqliteOptions) (*SqliteReportStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	if opts.Path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "workflow_reports"
	}

	s := &SqliteReportStore{
		db:        db,
		tableName: tableName,
	}

	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// InitSchema creates the necessary table if it doesn't exist
func (s *SqliteReportStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			start_node TEXT NOT NULL,
			end_node TEXT NOT NULL,
			workflows TEXT NOT NULL,
			stats TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_source ON %s (source);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SqliteReportStore) Close() error {
	return s.db.Close()
}

// Save stores a report
func (s *SqliteReportStore) Save(ctx context.Context, report *store.Report) error {
	workflowsJSON, err := json.Marshal(report.Workflows)
	if err != nil {
		return fmt.Errorf("failed to marshal workflows: %w", err)
	}

	statsJSON, err := json.Marshal(report.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, source, start_node, end_node, workflows, stats, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			start_node = excluded.start_node,
			end_node = excluded.end_node,
			workflows = excluded.workflows,
			stats = excluded.stats,
			created_at = excluded.created_at
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query,
		report.ID,
		report.Source,
		report.Start,
		report.End,
		string(workflowsJSON),
		string(statsJSON),
		report.CreatedAt.UTC(),
	)

	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*store.Report, error) {
	var r store.Report
	var workflowsJSON string
	var statsJSON string

	if err := row.Scan(
		&r.ID,
		&r.Source,
		&r.Start,
		&r.End,
		&workflowsJSON,
		&statsJSON,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(workflowsJSON), &r.Workflows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflows: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &r.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return &r, nil
}

// Load retrieves a report by ID
func (s *SqliteReportStore) Load(ctx context.Context, reportID string) (*store.Report, error) {
	query := fmt.Sprintf(`
		SELECT id, source, start_node, end_node, workflows, stats, created_at
		FROM %s
		WHERE id = ?
	`, s.tableName)

	r, err := scanReport(s.db.QueryRowContext(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrReportNotFound, reportID)
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return r, nil
}

// List returns the reports of a source, oldest first
func (s *SqliteReportStore) List(ctx context.Context, source string) ([]*store.Report, error) {
	query := fmt.Sprintf(`
		SELECT id, source, start_node, end_node, workflows, stats, created_at
		FROM %s
		WHERE ? = '' OR source = ?
		ORDER BY created_at ASC, id ASC
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query, source, source)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*store.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return reports, nil
}

// Delete removes a report
func (s *SqliteReportStore) Delete(ctx context.Context, reportID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	_, err := s.db.ExecContext(ctx, query, reportID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// Clear removes all reports of a source
func (s *SqliteReportStore) Clear(ctx context.Context, source string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE source = ?", s.tableName)
	_, err := s.db.ExecContext(ctx, query, source)
	if err != nil {
		return fmt.Errorf("failed to clear reports: %w", err)
	}
	return nil
}
