package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/smallnest/workflowpaths/store"
)

const reportExt = ".json"

// FileReportStore keeps one JSON document per report in a directory.
type FileReportStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileReportStore creates dir if needed and returns a store over it.
func NewFileReportStore(dir string) (*FileReportStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &FileReportStore{dir: dir}, nil
}

// Dir returns the directory reports are written to.
func (f *FileReportStore) Dir() string {
	return f.dir
}

func (f *FileReportStore) path(reportID string) (string, error) {
	if reportID == "" || strings.ContainsAny(reportID, `/\`) || reportID == "." || reportID == ".." {
		return "", fmt.Errorf("invalid report id %q", reportID)
	}
	return filepath.Join(f.dir, reportID+reportExt), nil
}

// Save stores a report
func (f *FileReportStore) Save(ctx context.Context, report *store.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.path(report.ID)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// write then rename so readers never see a partial document
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Load retrieves a report by ID
func (f *FileReportStore) Load(ctx context.Context, reportID string) (*store.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := f.path(reportID)
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return readReport(path, reportID)
}

func readReport(path, reportID string) (*store.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrReportNotFound, reportID)
		}
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var r store.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", reportID, err)
	}
	return &r, nil
}

// all reads every report in the directory. Callers hold the lock.
func (f *FileReportStore) all() ([]*store.Report, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}

	var reports []*store.Report
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != reportExt {
			continue
		}
		r, err := readReport(filepath.Join(f.dir, name), strings.TrimSuffix(name, reportExt))
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// List returns the reports of a source, oldest first
func (f *FileReportStore) List(ctx context.Context, source string) ([]*store.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	all, err := f.all()
	if err != nil {
		return nil, err
	}
	var reports []*store.Report
	for _, r := range all {
		if source == "" || r.Source == source {
			reports = append(reports, r)
		}
	}
	store.SortByCreation(reports)
	return reports, nil
}

// Delete removes a report
func (f *FileReportStore) Delete(ctx context.Context, reportID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.path(reportID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// Clear removes all reports of a source
func (f *FileReportStore) Clear(ctx context.Context, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.all()
	if err != nil {
		return err
	}
	for _, r := range all {
		if r.Source != source {
			continue
		}
		if err := os.Remove(filepath.Join(f.dir, r.ID+reportExt)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to clear reports: %w", err)
		}
	}
	return nil
}
