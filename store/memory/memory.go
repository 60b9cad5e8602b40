package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/smallnest/workflowpaths/store"
)

// MemoryReportStore keeps reports in process memory.
type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[string]*store.Report
}

// NewMemoryReportStore creates an empty store.
func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{
		reports: make(map[string]*store.Report),
	}
}

func clone(r *store.Report) *store.Report {
	c := *r
	c.Workflows = slices.Clone(r.Workflows)
	return &c
}

// Save stores a copy of report
func (m *MemoryReportStore) Save(_ context.Context, report *store.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reports[report.ID] = clone(report)
	return nil
}

// Load retrieves a report by ID
func (m *MemoryReportStore) Load(_ context.Context, reportID string) (*store.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reports[reportID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrReportNotFound, reportID)
	}
	return clone(r), nil
}

// List returns the reports of a source, oldest first
func (m *MemoryReportStore) List(_ context.Context, source string) ([]*store.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var reports []*store.Report
	for _, r := range m.reports {
		if source == "" || r.Source == source {
			reports = append(reports, clone(r))
		}
	}
	store.SortByCreation(reports)
	return reports, nil
}

// Delete removes a report
func (m *MemoryReportStore) Delete(_ context.Context, reportID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.reports, reportID)
	return nil
}

// Clear removes all reports of a source
func (m *MemoryReportStore) Clear(_ context.Context, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, r := range m.reports {
		if r.Source == source {
			delete(m.reports, id)
		}
	}
	return nil
}
