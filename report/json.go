package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/smallnest/workflowpaths/workflow"
)

type jsonWorkflow struct {
	NormalizedPath string `json:"normalized_path"`
	VariantCount   int    `json:"variant_count"`
}

// JSON writes groups as an indented array of
// {"normalized_path", "variant_count"} objects. An empty result is "[]".
func JSON(w io.Writer, groups []workflow.Group) error {
	out := make([]jsonWorkflow, 0, len(groups))
	for _, g := range groups {
		out = append(out, jsonWorkflow{NormalizedPath: g.NormalizedPath, VariantCount: g.VariantCount})
	}
	return writeJSON(w, out)
}

// ReadJSON decodes the output of JSON.
func ReadJSON(r io.Reader) ([]workflow.Group, error) {
	var in []jsonWorkflow
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to decode workflows: %w", err)
	}
	groups := make([]workflow.Group, 0, len(in))
	for _, wf := range in {
		groups = append(groups, workflow.Group{NormalizedPath: wf.NormalizedPath, VariantCount: wf.VariantCount})
	}
	return groups, nil
}

type jsonCoverage struct {
	NormalizedPath string `json:"normalized_path"`
	VariantCount   int    `json:"variant_count"`
	Hits           int    `json:"hits"`
}

type jsonCoverageReport struct {
	Ratio     float64        `json:"ratio"`
	Workflows []jsonCoverage `json:"workflows"`
	Unmatched []string       `json:"unmatched"`
}

// CoverageJSON writes cov as an indented JSON document.
func CoverageJSON(w io.Writer, cov *workflow.CoverageReport) error {
	doc := jsonCoverageReport{
		Ratio:     cov.Ratio(),
		Workflows: make([]jsonCoverage, 0, len(cov.Entries)),
		Unmatched: make([]string, 0, len(cov.Unmatched)),
	}
	for _, e := range cov.Entries {
		doc.Workflows = append(doc.Workflows, jsonCoverage{
			NormalizedPath: e.Group.NormalizedPath,
			VariantCount:   e.Group.VariantCount,
			Hits:           e.Hits,
		})
	}
	for _, p := range cov.Unmatched {
		doc.Unmatched = append(doc.Unmatched, p.String())
	}
	return writeJSON(w, doc)
}

// writeJSON indents with two spaces and leaves "->" unescaped.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
