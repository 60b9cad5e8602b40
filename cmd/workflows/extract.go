package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/smallnest/workflowpaths/definition"
	"github.com/smallnest/workflowpaths/graph"
	"github.com/smallnest/workflowpaths/log"
	"github.com/smallnest/workflowpaths/report"
	"github.com/smallnest/workflowpaths/store"
	"github.com/smallnest/workflowpaths/workflow"
)

type extractFlags struct {
	format           string
	title            string
	output           string
	start            string
	end              string
	pathLimit        int
	failOnTruncation bool
	save             bool
}

func newExtractCmd(a *app) *cobra.Command {
	f := &extractFlags{}
	cmd := &cobra.Command{
		Use:   "extract [definition]",
		Short: "Enumerate and group the workflows of a graph definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: text, json, markdown or html")
	cmd.Flags().StringVar(&f.title, "title", "", "Document title for markdown and html output")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().StringVar(&f.start, "start", "", "Node every path starts at")
	cmd.Flags().StringVar(&f.end, "end", "", "Node every path ends at")
	cmd.Flags().IntVar(&f.pathLimit, "path-limit", 0, "Longest path explored, in nodes")
	cmd.Flags().BoolVar(&f.failOnTruncation, "fail-on-truncation", false, "Fail when the path limit cut any branch")
	cmd.Flags().BoolVar(&f.save, "save", false, "Save the result to the report store")
	return cmd
}

// extractOptions merges the configuration with flag overrides.
func (a *app) extractOptions(cmd *cobra.Command, f *extractFlags) []workflow.ExtractOption {
	ec := a.cfg.Extract
	if cmd.Flags().Changed("start") {
		ec.Start = f.start
	}
	if cmd.Flags().Changed("end") {
		ec.End = f.end
	}
	if cmd.Flags().Changed("path-limit") {
		ec.PathLimit = f.pathLimit
	}
	if cmd.Flags().Changed("fail-on-truncation") {
		ec.FailOnTruncation = f.failOnTruncation
	}

	opts := []workflow.ExtractOption{
		workflow.WithStart(ec.Start),
		workflow.WithEnd(ec.End),
		workflow.WithPathLimit(ec.PathLimit),
		workflow.WithLogger(log.GetDefaultLogger()),
	}
	if ec.FailOnTruncation {
		opts = append(opts, workflow.WithFailOnTruncation())
	}
	return opts
}

func (a *app) outputFormat(cmd *cobra.Command, flag string) (report.Format, error) {
	if cmd.Flags().Changed("format") {
		return report.ParseFormat(flag)
	}
	return report.ParseFormat(a.cfg.Output.Format)
}

func loadGraph(cmd *cobra.Command, path string) (*definition.Definition, *graph.StateGraph[map[string]any], error) {
	def, err := definition.Load(cmd.Context(), path)
	if err != nil {
		return nil, nil, err
	}
	g, err := def.Build()
	if err != nil {
		return nil, nil, err
	}
	return def, g, nil
}

func (a *app) runExtract(cmd *cobra.Command, path string, f *extractFlags) error {
	format, err := a.outputFormat(cmd, f.format)
	if err != nil {
		return err
	}

	def, g, err := loadGraph(cmd, path)
	if err != nil {
		return err
	}

	result, err := g.Workflows(a.extractOptions(cmd, f)...)
	if err != nil && !errors.Is(err, workflow.ErrSearchDepthExceeded) {
		return err
	}
	extractErr := err

	title := f.title
	if title == "" {
		title = a.cfg.Output.Title
	}
	if title == "" {
		title = def.Name
	}

	if err := withOutput(cmd, f.output, func(w io.Writer) error {
		return report.Render(w, format, title, result)
	}); err != nil {
		return err
	}

	if f.save {
		if err := a.saveReport(cmd, def.Name, result); err != nil {
			return err
		}
	}
	return extractErr
}

func (a *app) saveReport(cmd *cobra.Command, source string, result *workflow.Result) error {
	s, closeStore, err := openStore(cmd.Context(), a.cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	r := store.NewReport(source, result)
	if err := s.Save(cmd.Context(), r); err != nil {
		return err
	}
	log.Info("saved report %s for %s", r.ID, source)
	return nil
}

// withOutput runs fn against stdout, or against the named file.
func withOutput(cmd *cobra.Command, path string, fn func(w io.Writer) error) error {
	if path == "" {
		return fn(cmd.OutOrStdout())
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := fn(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func newGraphCmd(a *app) *cobra.Command {
	var format, direction string
	cmd := &cobra.Command{
		Use:   "graph [definition]",
		Short: "Draw a graph definition as mermaid, dot or ascii",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, g, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}
			exporter := graph.NewExporter(g)

			var out string
			switch format {
			case "mermaid":
				out = exporter.DrawMermaidWithOptions(graph.MermaidOptions{Direction: direction})
			case "dot":
				out = exporter.DrawDOT()
			case "ascii":
				out = exporter.DrawASCII()
			default:
				return fmt.Errorf("unknown graph format %q", format)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "mermaid", "Diagram format: mermaid, dot or ascii")
	cmd.Flags().StringVar(&direction, "direction", "TD", "Mermaid flowchart direction")
	return cmd
}

func newCoverageCmd(a *app) *cobra.Command {
	f := &extractFlags{}
	var tracesPath string
	cmd := &cobra.Command{
		Use:   "coverage [definition]",
		Short: "Match recorded execution traces against the workflows of a definition",
		Long: `coverage reads a JSON array of traces, each an array of node names from
START to END, and reports how often each workflow was taken.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat(cmd, f.format)
			if err != nil {
				return err
			}
			traces, err := readTraces(tracesPath)
			if err != nil {
				return err
			}
			def, g, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}
			result, err := g.Workflows(a.extractOptions(cmd, f)...)
			if err != nil && !errors.Is(err, workflow.ErrSearchDepthExceeded) {
				return err
			}

			cov := workflow.MeasureCoverage(result.Groups, traces)
			return withOutput(cmd, f.output, func(w io.Writer) error {
				return report.RenderCoverage(w, format, def.Name+" coverage", cov)
			})
		},
	}
	cmd.Flags().StringVar(&tracesPath, "traces", "", "JSON file holding the recorded traces")
	_ = cmd.MarkFlagRequired("traces")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: text, json, markdown or html")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().IntVar(&f.pathLimit, "path-limit", 0, "Longest path explored, in nodes")
	return cmd
}

func readTraces(path string) ([]workflow.Path, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read traces: %w", err)
	}
	var raw [][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode traces %s: %w", path, err)
	}
	traces := make([]workflow.Path, 0, len(raw))
	for _, t := range raw {
		traces = append(traces, workflow.Path(t))
	}
	return traces, nil
}
