package report

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"github.com/smallnest/workflowpaths/workflow"
)

// Markdown writes result as a markdown document with one table row per
// workflow.
func Markdown(w io.Writer, title string, result *workflow.Result) error {
	_, err := io.WriteString(w, workflowsMarkdown(title, result))
	return err
}

// HTML renders the markdown document to sanitized HTML.
func HTML(w io.Writer, title string, result *workflow.Result) error {
	return writeHTML(w, title, workflowsMarkdown(title, result))
}

func workflowsMarkdown(title string, result *workflow.Result) string {
	var sb strings.Builder
	if title == "" {
		title = "Workflows"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(title)))

	if len(result.Groups) == 0 {
		sb.WriteString(fmt.Sprintf("No path from %s to %s.\n", result.Start, result.End))
		return sb.String()
	}

	sb.WriteString("| # | Workflow | Variants |\n")
	sb.WriteString("|---|----------|---------:|\n")
	for i, g := range result.Groups {
		sb.WriteString(fmt.Sprintf("| %d | %s | %d |\n", i+1, escapeMarkdown(g.NormalizedPath), g.VariantCount))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%d workflows, %d paths, path limit %d.\n",
		len(result.Groups), result.TotalVariants(), result.Stats.MaxPathLength))
	if result.Stats.Truncated > 0 {
		sb.WriteString(fmt.Sprintf("\n**%d branches were cut by the path limit.**\n", result.Stats.Truncated))
	}
	return sb.String()
}

func coverageMarkdown(title string, cov *workflow.CoverageReport) string {
	var sb strings.Builder
	if title == "" {
		title = "Workflow coverage"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(title)))
	sb.WriteString("| # | Workflow | Hits |\n")
	sb.WriteString("|---|----------|-----:|\n")
	for i, e := range cov.Entries {
		sb.WriteString(fmt.Sprintf("| %d | %s | %d |\n", i+1, escapeMarkdown(e.Group.NormalizedPath), e.Hits))
	}
	sb.WriteString(fmt.Sprintf("\nCoverage: %.0f%%\n", cov.Ratio()*100))
	if len(cov.Unmatched) > 0 {
		sb.WriteString("\n## Unmatched traces\n\n")
		for _, p := range cov.Unmatched {
			sb.WriteString(fmt.Sprintf("- %s\n", escapeMarkdown(p.String())))
		}
	}
	return sb.String()
}

// markdownEscaper escapes what would otherwise start emphasis, code,
// a table cell or an inline HTML tag. HTML escaping is left to the renderer.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`|`, `\|`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`<`, `\<`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func writeHTML(w io.Writer, title, md string) error {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	// no smartypants: it would rewrite dashes inside node names
	htmlFlags := mdhtml.HrefTargetBlank
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: htmlFlags})
	body := bluemonday.UGCPolicy().SanitizeBytes(markdown.Render(doc, renderer))

	if title == "" {
		title = "Workflows"
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), body)
	return err
}
