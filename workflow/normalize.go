package workflow

import "strings"

const (
	// Separator joins the nodes of a rendered path.
	Separator = " -> "

	// RepetitionMarker follows a node that was traversed through a self-loop.
	RepetitionMarker = "*"
)

// Normalize renders a path with every run of consecutive identical nodes
// written once and suffixed with RepetitionMarker.
//
//	[START supervisor supervisor policy END] -> "START -> supervisor* -> policy -> END"
//
// An empty path normalizes to the empty string.
func Normalize(path Path) string {
	if len(path) == 0 {
		return ""
	}

	tokens := make([]string, 0, len(path))
	for i := 0; i < len(path); {
		current := path[i]
		if i+1 < len(path) && path[i+1] == current {
			tokens = append(tokens, current+RepetitionMarker)
			for i < len(path) && path[i] == current {
				i++
			}
			continue
		}
		tokens = append(tokens, current)
		i++
	}
	return strings.Join(tokens, Separator)
}

// Skeleton collapses consecutive duplicates of a path into one occurrence.
// Paths that differ only in how often they repeat a self-loop share a
// skeleton.
func Skeleton(path Path) Path {
	base := make(Path, 0, len(path))
	for i, node := range path {
		if i == 0 || node != path[i-1] {
			base = append(base, node)
		}
	}
	return base
}

// SkeletonKey is the skeleton of path joined with Separator.
func SkeletonKey(path Path) string {
	return strings.Join(Skeleton(path), Separator)
}

// SplitNormalized splits a normalized path back into its tokens, repetition
// markers included.
func SplitNormalized(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, Separator)
}
