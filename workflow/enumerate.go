package workflow

import (
	"maps"
	"slices"

	"github.com/smallnest/workflowpaths/log"
)

// DefaultMaxPathLength is the longest path, in nodes, the enumerator will
// extend. Longer branches are dropped without being recorded.
const DefaultMaxPathLength = 20

// selfLoopLimit is how many times a node may appear in a path when it is
// re-entered through its own self-loop.
const selfLoopLimit = 2

// Path is a raw traversal trace, from a start node to an end node.
type Path []string

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	return slices.Clone(p)
}

// String renders the path in normalized form.
func (p Path) String() string {
	return Normalize(p)
}

// Stats summarizes a single enumeration.
type Stats struct {
	// Completed is the number of paths that reached the end node.
	Completed int `json:"completed"`

	// DeadEnds counts branches that stopped before the end node because no
	// successor was allowed.
	DeadEnds int `json:"dead_ends"`

	// Truncated counts branches dropped by the path length ceiling.
	Truncated int `json:"truncated"`

	// MaxPathLength is the ceiling the enumeration ran with.
	MaxPathLength int `json:"max_path_length"`
}

// EnumeratorOption configures an Enumerator.
type EnumeratorOption func(*Enumerator)

// WithMaxPathLength overrides DefaultMaxPathLength. Non-positive values are ignored.
func WithMaxPathLength(n int) EnumeratorOption {
	return func(e *Enumerator) {
		if n > 0 {
			e.maxPathLength = n
		}
	}
}

// WithEnumeratorLogger sets the logger used to report truncated branches.
func WithEnumeratorLogger(logger log.Logger) EnumeratorOption {
	return func(e *Enumerator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Enumerator finds every start-to-end path of a graph with a bounded
// depth-first search.
//
// A node already on the path is never entered again, with one exception: a
// node may follow itself through a self-loop once, so it appears at most
// twice in a row. The visited set is copied for every descent into a new
// node, so sibling branches never see each other's visits.
type Enumerator struct {
	maxPathLength int
	logger        log.Logger
}

// NewEnumerator creates an Enumerator.
func NewEnumerator(opts ...EnumeratorOption) *Enumerator {
	e := &Enumerator{
		maxPathLength: DefaultMaxPathLength,
		logger:        log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxPathLength returns the configured ceiling.
func (e *Enumerator) MaxPathLength() int {
	return e.maxPathLength
}

// EnumeratePaths returns every path from start to end using the default
// ceiling. The result is empty when end cannot be reached.
func EnumeratePaths(g *Graph, start, end string) []Path {
	paths, _ := NewEnumerator().Enumerate(g, start, end)
	return paths
}

// Enumerate returns every path from start to end in discovery order, along
// with counters describing the search.
func (e *Enumerator) Enumerate(g *Graph, start, end string) ([]Path, Stats) {
	w := &walker{
		end:   end,
		limit: e.maxPathLength,
		stats: Stats{MaxPathLength: e.maxPathLength},
	}
	if g != nil {
		w.adjacency = g.adjacency
	}

	w.visit(start, Path{start}, map[string]struct{}{start: {}})

	if w.stats.Truncated > 0 {
		e.logger.Debug("path search from %s to %s dropped %d branches longer than %d nodes",
			start, end, w.stats.Truncated, e.maxPathLength)
	}
	return w.paths, w.stats
}

// walker holds the state of one enumeration.
type walker struct {
	adjacency map[string][]string
	end       string
	limit     int
	paths     []Path
	stats     Stats
}

func (w *walker) visit(current string, path Path, visited map[string]struct{}) {
	if len(path) > w.limit {
		w.stats.Truncated++
		return
	}

	if current == w.end {
		w.paths = append(w.paths, path.Clone())
		w.stats.Completed++
		return
	}

	descended := false
	for _, next := range w.adjacency[current] {
		if !w.allowed(current, next, path, visited) {
			continue
		}
		descended = true

		childVisited := visited
		if next != current {
			childVisited = maps.Clone(visited)
			childVisited[next] = struct{}{}
		}

		path = append(path, next)
		w.visit(next, path, childVisited)
		path = path[:len(path)-1]
	}

	if !descended {
		w.stats.DeadEnds++
	}
}

// allowed applies the revisit policy. The self-loop check counts occurrences
// in the path rather than consulting visited, because a self-loop never adds
// to visited.
func (w *walker) allowed(current, next string, path Path, visited map[string]struct{}) bool {
	if _, seen := visited[next]; !seen {
		return true
	}
	return next == current && countOf(path, current) < selfLoopLimit
}

func countOf(path Path, id string) int {
	n := 0
	for _, node := range path {
		if node == id {
			n++
		}
	}
	return n
}
