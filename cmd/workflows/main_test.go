package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/workflowpaths/report"
	"github.com/smallnest/workflowpaths/workflow"
)

const companyAgent = "../../definition/testdata/company_agent.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExtract_JSON(t *testing.T) {
	out, err := run(t, "extract", companyAgent, "-f", "json", "--log-level", "none")
	require.NoError(t, err)

	groups, err := report.ReadJSON(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, groups, 4)
	assert.Equal(t, "START -> supervisor* -> route_by_category -> policy -> END", groups[0].NormalizedPath)
	for _, g := range groups {
		assert.Equal(t, 2, g.VariantCount)
	}
}

func TestExtract_Text(t *testing.T) {
	out, err := run(t, "extract", companyAgent, "--log-level", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "START -> supervisor* -> route_by_category -> verify_credentials -> END")
	assert.Contains(t, out, "4 workflows, 8 paths, path limit 20")
}

func TestExtract_MarkdownToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workflows.md")
	out, err := run(t, "extract", companyAgent, "-f", "md", "-o", path, "--title", "Support", "--log-level", "none")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Support\n"))
	assert.Contains(t, string(data), `permission\_check\_local\_DB`)
}

func TestExtract_PathLimit(t *testing.T) {
	out, err := run(t, "extract", companyAgent, "-f", "json", "--path-limit", "4", "--log-level", "none")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	_, err = run(t, "extract", companyAgent, "-f", "json", "--path-limit", "4", "--fail-on-truncation", "--log-level", "none")
	assert.ErrorIs(t, err, workflow.ErrSearchDepthExceeded)
}

func TestExtract_Errors(t *testing.T) {
	_, err := run(t, "extract", "../../definition/testdata/bad_edge.yaml", "--log-level", "none")
	assert.Error(t, err)

	_, err = run(t, "extract", companyAgent, "-f", "pdf", "--log-level", "none")
	assert.ErrorIs(t, err, report.ErrUnknownFormat)

	_, err = run(t, "extract", companyAgent, "--store", "carrier-pigeon", "--log-level", "none")
	assert.Error(t, err)
}

func TestExtract_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: none\noutput:\n  format: json\n"), 0o644))

	out, err := run(t, "extract", companyAgent, "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[\n"))
}

func TestGraph(t *testing.T) {
	out, err := run(t, "graph", companyAgent, "--log-level", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "START --> supervisor")
	assert.Contains(t, out, "supervisor -.-> supervisor")

	out, err = run(t, "graph", companyAgent, "-f", "dot", "--log-level", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "verify_credentials -> procurement [style=dashed];")

	out, err = run(t, "graph", companyAgent, "-f", "ascii", "--log-level", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "└── START")

	_, err = run(t, "graph", companyAgent, "-f", "svg", "--log-level", "none")
	assert.Error(t, err)
}

func TestCoverage(t *testing.T) {
	traces := filepath.Join(t.TempDir(), "traces.json")
	require.NoError(t, os.WriteFile(traces, []byte(`[
		["START", "supervisor", "route_by_category", "policy", "END"],
		["START", "supervisor", "supervisor", "route_by_category", "policy", "END"],
		["START", "hr", "END"]
	]`), 0o644))

	out, err := run(t, "coverage", companyAgent, "--traces", traces, "-f", "json", "--log-level", "none")
	require.NoError(t, err)
	assert.Contains(t, out, `"ratio": 0.25`)
	assert.Contains(t, out, `"hits": 2`)
	assert.Contains(t, out, `"START -> hr -> END"`)

	_, err = run(t, "coverage", companyAgent, "--log-level", "none")
	assert.Error(t, err)
}

func TestReports(t *testing.T) {
	dir := t.TempDir()
	storeArgs := []string{"--store", "file", "--dsn", dir, "--log-level", "none"}

	_, err := run(t, append([]string{"extract", companyAgent, "--save", "-f", "json"}, storeArgs...)...)
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	id := strings.TrimSuffix(filepath.Base(files[0]), ".json")

	out, err := run(t, append([]string{"reports", "list"}, storeArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "company_agent")

	out, err = run(t, append([]string{"reports", "list", "--source", "other"}, storeArgs...)...)
	require.NoError(t, err)
	assert.Equal(t, "No reports.\n", out)

	out, err = run(t, append([]string{"reports", "show", id, "-f", "json"}, storeArgs...)...)
	require.NoError(t, err)
	groups, err := report.ReadJSON(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, groups, 4)

	_, err = run(t, append([]string{"reports", "delete", id}, storeArgs...)...)
	require.NoError(t, err)
	_, err = run(t, append([]string{"reports", "show", id}, storeArgs...)...)
	assert.Error(t, err)

	_, err = run(t, append([]string{"extract", companyAgent, "--save"}, storeArgs...)...)
	require.NoError(t, err)
	_, err = run(t, append([]string{"reports", "clear", "company_agent"}, storeArgs...)...)
	require.NoError(t, err)
	out, err = run(t, append([]string{"reports", "list"}, storeArgs...)...)
	require.NoError(t, err)
	assert.Equal(t, "No reports.\n", out)
}
