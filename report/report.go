package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/smallnest/workflowpaths/workflow"
)

// ErrUnknownFormat is returned for output formats Render does not know.
var ErrUnknownFormat = errors.New("unknown report format")

// Format is an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatMarkdown, FormatHTML}

// ParseFormat resolves a format name; "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case FormatJSON, FormatMarkdown, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Render writes result in the given format. title heads the markdown and
// HTML documents and is ignored by the others.
func Render(w io.Writer, format Format, title string, result *workflow.Result) error {
	switch format {
	case FormatText, "":
		return Text(w, result)
	case FormatJSON:
		return JSON(w, result.Groups)
	case FormatMarkdown:
		return Markdown(w, title, result)
	case FormatHTML:
		return HTML(w, title, result)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// RenderCoverage writes a coverage report in the given format.
func RenderCoverage(w io.Writer, format Format, title string, cov *workflow.CoverageReport) error {
	switch format {
	case FormatText, "":
		return CoverageText(w, cov)
	case FormatJSON:
		return CoverageJSON(w, cov)
	case FormatMarkdown:
		_, err := io.WriteString(w, coverageMarkdown(title, cov))
		return err
	case FormatHTML:
		return writeHTML(w, title, coverageMarkdown(title, cov))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
