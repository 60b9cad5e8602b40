package workflow

// Group is one distinct workflow: the normalized form of the longest raw
// path sharing a skeleton, and how many raw paths share it.
type Group struct {
	NormalizedPath string `json:"normalized_path"`
	VariantCount   int    `json:"variant_count"`
	Skeleton       string `json:"skeleton,omitempty"`
}

// PathGroups maps skeleton keys to the raw paths that share them. Keys keep
// the order they were first seen in and each bucket keeps discovery order.
type PathGroups struct {
	keys    []string
	buckets map[string][]Path
}

// GroupPaths buckets paths by SkeletonKey.
func GroupPaths(paths []Path) *PathGroups {
	groups := &PathGroups{buckets: make(map[string][]Path)}
	for _, p := range paths {
		groups.add(p)
	}
	return groups
}

func (g *PathGroups) add(p Path) {
	key := SkeletonKey(p)
	if _, ok := g.buckets[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.buckets[key] = append(g.buckets[key], p)
}

// Keys returns the skeleton keys in first-seen order.
func (g *PathGroups) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the paths filed under key.
func (g *PathGroups) Get(key string) ([]Path, bool) {
	paths, ok := g.buckets[key]
	return paths, ok
}

// Len returns the number of distinct skeletons.
func (g *PathGroups) Len() int {
	return len(g.keys)
}

// Total returns the number of raw paths across every bucket.
func (g *PathGroups) Total() int {
	n := 0
	for _, paths := range g.buckets {
		n += len(paths)
	}
	return n
}

// BuildGroups turns every bucket into a Group. The representative is the
// longest member, first one wins on ties, so every self-loop any variant
// takes shows up as a repetition marker.
func BuildGroups(groups *PathGroups) []Group {
	if groups == nil {
		return nil
	}

	out := make([]Group, 0, len(groups.keys))
	for _, key := range groups.keys {
		variants := groups.buckets[key]
		out = append(out, Group{
			NormalizedPath: Normalize(longest(variants)),
			VariantCount:   len(variants),
			Skeleton:       key,
		})
	}
	return out
}

func longest(paths []Path) Path {
	var best Path
	for i, p := range paths {
		if i == 0 || len(p) > len(best) {
			best = p
		}
	}
	return best
}
