package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/smallnest/workflowpaths/workflow"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorMuted  = lipgloss.Color("#6C7A89")
	colorWarn   = lipgloss.Color("#F4D03F")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
	summaryStyle = lipgloss.NewStyle().Foreground(colorMuted)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 || col == len(headers)-1:
				return numberStyle
			default:
				return cellStyle
			}
		})
}

// Text writes result as a terminal table followed by a summary line.
func Text(w io.Writer, result *workflow.Result) error {
	if len(result.Groups) == 0 {
		_, err := fmt.Fprintf(w, "No path from %s to %s.\n", result.Start, result.End)
		return err
	}

	t := newTable("#", "WORKFLOW", "VARIANTS")
	for i, g := range result.Groups {
		t.Row(strconv.Itoa(i+1), g.NormalizedPath, strconv.Itoa(g.VariantCount))
	}

	summary := summaryStyle.Render(fmt.Sprintf("%d workflows, %d paths, path limit %d",
		len(result.Groups), result.TotalVariants(), result.Stats.MaxPathLength))
	if _, err := fmt.Fprintf(w, "%s\n%s\n", t.Render(), summary); err != nil {
		return err
	}
	if result.Stats.Truncated > 0 {
		_, err := fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d branches were cut by the path limit", result.Stats.Truncated)))
		return err
	}
	return nil
}

// CoverageText writes cov as a terminal table.
func CoverageText(w io.Writer, cov *workflow.CoverageReport) error {
	t := newTable("#", "WORKFLOW", "HITS")
	for i, e := range cov.Entries {
		t.Row(strconv.Itoa(i+1), e.Group.NormalizedPath, strconv.Itoa(e.Hits))
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n", t.Render(),
		summaryStyle.Render(fmt.Sprintf("coverage %.0f%%", cov.Ratio()*100))); err != nil {
		return err
	}
	for _, p := range cov.Unmatched {
		if _, err := fmt.Fprintln(w, warnStyle.Render("unmatched: "+p.String())); err != nil {
			return err
		}
	}
	return nil
}
