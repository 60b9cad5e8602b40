package workflow

import (
	"errors"
	"fmt"

	"github.com/smallnest/workflowpaths/log"
)

// ErrSearchDepthExceeded is returned by Extract when WithFailOnTruncation is
// set and the path length ceiling dropped at least one branch.
var ErrSearchDepthExceeded = errors.New("search depth exceeded")

// Result is the outcome of Extract.
type Result struct {
	// Groups are the distinct workflows in first-discovery order.
	Groups []Group `json:"workflows"`

	// Paths are the raw paths the groups were built from.
	Paths []Path `json:"-"`

	// Stats describes the underlying search.
	Stats Stats `json:"stats"`

	Start string `json:"start"`
	End   string `json:"end"`
}

// TotalVariants is the sum of VariantCount over every group.
func (r *Result) TotalVariants() int {
	n := 0
	for _, g := range r.Groups {
		n += g.VariantCount
	}
	return n
}

// ExtractOption configures Extract.
type ExtractOption func(*extractOptions)

type extractOptions struct {
	start            string
	end              string
	maxPathLength    int
	failOnTruncation bool
	logger           log.Logger
}

// WithStart overrides the Start sentinel as the first node of every path.
func WithStart(start string) ExtractOption {
	return func(o *extractOptions) {
		o.start = start
	}
}

// WithEnd overrides the End sentinel as the last node of every path.
func WithEnd(end string) ExtractOption {
	return func(o *extractOptions) {
		o.end = end
	}
}

// WithPathLimit sets the path length ceiling of the search.
func WithPathLimit(n int) ExtractOption {
	return func(o *extractOptions) {
		o.maxPathLength = n
	}
}

// WithFailOnTruncation makes Extract report ErrSearchDepthExceeded instead of
// silently dropping branches that outgrow the ceiling.
func WithFailOnTruncation() ExtractOption {
	return func(o *extractOptions) {
		o.failOnTruncation = true
	}
}

// WithLogger sets the logger for the whole pipeline.
func WithLogger(logger log.Logger) ExtractOption {
	return func(o *extractOptions) {
		o.logger = logger
	}
}

// Extract enumerates every path of g, groups the paths by skeleton and
// returns one Group per skeleton.
//
// The only error it can return is ErrSearchDepthExceeded, and only with
// WithFailOnTruncation. The partial Result is returned alongside it.
func Extract(g *Graph, opts ...ExtractOption) (*Result, error) {
	o := extractOptions{
		start:         Start,
		end:           End,
		maxPathLength: DefaultMaxPathLength,
		logger:        log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = &log.NoOpLogger{}
	}

	enumerator := NewEnumerator(
		WithMaxPathLength(o.maxPathLength),
		WithEnumeratorLogger(o.logger),
	)
	paths, stats := enumerator.Enumerate(g, o.start, o.end)
	groups := GroupPaths(paths)

	result := &Result{
		Groups: BuildGroups(groups),
		Paths:  paths,
		Stats:  stats,
		Start:  o.start,
		End:    o.end,
	}
	o.logger.Info("extracted %d workflows from %d paths (%s -> %s)",
		len(result.Groups), len(paths), o.start, o.end)

	if o.failOnTruncation && stats.Truncated > 0 {
		return result, fmt.Errorf("%w: %d branches longer than %d nodes",
			ErrSearchDepthExceeded, stats.Truncated, stats.MaxPathLength)
	}
	return result, nil
}
