package definition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/smallnest/workflowpaths/log"
)

// Format names a definition file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads, decodes and validates the definition at path.
func Load(ctx context.Context, path string) (*Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %s: %w", path, err)
	}

	def, err := Parse(data, format, path)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded definition %q from %s: %d nodes, %d edges, %d conditional edges",
		def.Name, path, len(def.Nodes), len(def.Edges), len(def.ConditionalEdges))
	return def, nil
}

// Parse decodes and validates a definition. filename is only used in
// diagnostics.
func Parse(data []byte, format Format, filename string) (*Definition, error) {
	var def Definition
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("failed to decode YAML definition %s: %w", filename, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("failed to decode JSON definition %s: %w", filename, err)
		}
	case FormatHCL:
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCL(data, filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL definition %s: %w", filename, diags)
		}
		diags = gohcl.DecodeBody(file.Body, nil, &def)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL definition %s: %w", filename, diags)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &def, nil
}
