package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/smallnest/workflowpaths/workflow"
)

// ErrReportNotFound is returned when no report has the requested ID.
var ErrReportNotFound = errors.New("report not found")

// Report is a saved extraction result.
type Report struct {
	ID string `json:"id"`

	// Source identifies the graph the report was extracted from, usually
	// its definition name.
	Source string `json:"source"`

	Start     string           `json:"start"`
	End       string           `json:"end"`
	Workflows []workflow.Group `json:"workflows"`
	Stats     workflow.Stats   `json:"stats"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewReport captures result under a fresh ID.
func NewReport(source string, result *workflow.Result) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Source:    source,
		Start:     result.Start,
		End:       result.End,
		Workflows: slices.Clone(result.Groups),
		Stats:     result.Stats,
		CreatedAt: time.Now().UTC(),
	}
}

// Result rebuilds a workflow.Result from the report so it can be rendered
// again. Raw paths are not stored.
func (r *Report) Result() *workflow.Result {
	return &workflow.Result{
		Groups: slices.Clone(r.Workflows),
		Stats:  r.Stats,
		Start:  r.Start,
		End:    r.End,
	}
}

// ReportStore defines the interface for report persistence
type ReportStore interface {
	// Save stores a report, replacing any report with the same ID
	Save(ctx context.Context, report *Report) error

	// Load retrieves a report by ID
	Load(ctx context.Context, reportID string) (*Report, error)

	// List returns the reports of a source, oldest first. An empty source
	// lists every report.
	List(ctx context.Context, source string) ([]*Report, error)

	// Delete removes a report
	Delete(ctx context.Context, reportID string) error

	// Clear removes all reports of a source
	Clear(ctx context.Context, source string) error
}

// SortByCreation orders reports oldest first, breaking ties by ID.
func SortByCreation(reports []*Report) {
	slices.SortStableFunc(reports, func(a, b *Report) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}
