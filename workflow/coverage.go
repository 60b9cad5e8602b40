package workflow

// CoverageEntry pairs a workflow with the number of traces that followed it.
type CoverageEntry struct {
	Group Group `json:"workflow"`
	Hits  int   `json:"hits"`
}

// Covered reports whether at least one trace followed the workflow.
func (e CoverageEntry) Covered() bool {
	return e.Hits > 0
}

// CoverageReport is the result of MeasureCoverage.
type CoverageReport struct {
	Entries []CoverageEntry `json:"entries"`

	// Unmatched holds traces whose skeleton matches no workflow, such as
	// runs that were cut short or took a path longer than the search ceiling.
	Unmatched []Path `json:"unmatched,omitempty"`
}

// Ratio is the fraction of workflows hit by at least one trace.
func (r *CoverageReport) Ratio() float64 {
	if len(r.Entries) == 0 {
		return 0
	}
	covered := 0
	for _, e := range r.Entries {
		if e.Covered() {
			covered++
		}
	}
	return float64(covered) / float64(len(r.Entries))
}

// MeasureCoverage files executed traces under the workflow sharing their
// skeleton. Groups without a Skeleton key are matched by their normalized
// path with repetition markers removed, which holds as long as node names
// never end in RepetitionMarker.
func MeasureCoverage(groups []Group, traces []Path) *CoverageReport {
	report := &CoverageReport{Entries: make([]CoverageEntry, len(groups))}
	index := make(map[string]int, len(groups))
	for i, g := range groups {
		report.Entries[i] = CoverageEntry{Group: g}
		key := g.Skeleton
		if key == "" {
			key = skeletonFromNormalized(g.NormalizedPath)
		}
		index[key] = i
	}

	for _, trace := range traces {
		if i, ok := index[SkeletonKey(trace)]; ok {
			report.Entries[i].Hits++
			continue
		}
		report.Unmatched = append(report.Unmatched, trace.Clone())
	}
	return report
}

func skeletonFromNormalized(normalized string) string {
	if normalized == "" {
		return ""
	}
	tokens := SplitNormalized(normalized)
	for i, t := range tokens {
		if n := len(t) - len(RepetitionMarker); n > 0 && t[n:] == RepetitionMarker {
			tokens[i] = t[:n]
		}
	}
	return SkeletonKey(tokens)
}
