package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/workflowpaths/store"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresReportStore implements store.ReportStore using PostgreSQL
type PostgresReportStore struct {
	pool      DBPool
	tableName string
}

// PostgresOptions configuration for Postgres connection
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "workflow_reports"
}

// NewPostgresReportStore creates a new Postgres report store
func NewPostgresReportStore(ctx context.Context, opts PostgresOptions) (*PostgresReportStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	return NewPostgresReportStoreWithPool(pool, opts.TableName), nil
}

// NewPostgresReportStoreWithPool creates a new Postgres report store with an existing pool
// Useful for testing with mocks
func NewPostgresReportStoreWithPool(pool DBPool, tableName string) *PostgresReportStore {
	if tableName == "" {
		tableName = "workflow_reports"
	}
	return &PostgresReportStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *PostgresReportStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			start_node TEXT NOT NULL,
			end_node TEXT NOT NULL,
			workflows JSONB NOT NULL,
			stats JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_source ON %s (source);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresReportStore) Close() {
	s.pool.Close()
}

// Save stores a report
func (s *PostgresReportStore) Save(ctx context.Context, report *store.Report) error {
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
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			start_node = EXCLUDED.start_node,
			end_node = EXCLUDED.end_node,
			workflows = EXCLUDED.workflows,
			stats = EXCLUDED.stats,
			created_at = EXCLUDED.created_at
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query,
		report.ID,
		report.Source,
		report.Start,
		report.End,
		workflowsJSON,
		statsJSON,
		report.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

func scanReport(row pgx.Row) (*store.Report, error) {
	var r store.Report
	var workflowsJSON []byte
	var statsJSON []byte

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

	if err := json.Unmarshal(workflowsJSON, &r.Workflows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflows: %w", err)
	}
	if err := json.Unmarshal(statsJSON, &r.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return &r, nil
}

// Load retrieves a report by ID
func (s *PostgresReportStore) Load(ctx context.Context, reportID string) (*store.Report, error) {
	query := fmt.Sprintf(`
		SELECT id, source, start_node, end_node, workflows, stats, created_at
		FROM %s
		WHERE id = $1
	`, s.tableName)

	r, err := scanReport(s.pool.QueryRow(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrReportNotFound, reportID)
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return r, nil
}

// List returns the reports of a source, oldest first
func (s *PostgresReportStore) List(ctx context.Context, source string) ([]*store.Report, error) {
	query := fmt.Sprintf(`
		SELECT id, source, start_node, end_node, workflows, stats, created_at
		FROM %s
		WHERE $1 = '' OR source = $1
		ORDER BY created_at ASC, id ASC
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query, source)
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
func (s *PostgresReportStore) Delete(ctx context.Context, reportID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	_, err := s.pool.Exec(ctx, query, reportID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// Clear removes all reports of a source
func (s *PostgresReportStore) Clear(ctx context.Context, source string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE source = $1", s.tableName)
	_, err := s.pool.Exec(ctx, query, source)
	if err != nil {
		return fmt.Errorf("failed to clear reports: %w", err)
	}
	return nil
}
