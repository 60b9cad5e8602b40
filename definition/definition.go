package definition

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/smallnest/workflowpaths/graph"
)

var (
	// ErrInvalidDefinition wraps validation failures.
	ErrInvalidDefinition = errors.New("invalid graph definition")

	// ErrUnsupportedFormat is returned for files whose extension maps to no parser.
	ErrUnsupportedFormat = errors.New("unsupported definition format")
)

// RoutesKey is the state key Build's conditional edges read their decision
// from: a map from source node to the chosen target. Without an entry the
// first declared target is taken.
const RoutesKey = "routes"

// Definition describes a graph declaratively.
type Definition struct {
	Name        string `yaml:"name" json:"name" hcl:"name,attr" validate:"required"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" hcl:"description,optional"`

	// EntryPoint is optional when an edge leaves START.
	EntryPoint string `yaml:"entry_point,omitempty" json:"entry_point,omitempty" hcl:"entry_point,optional"`

	Nodes            []Node            `yaml:"nodes" json:"nodes" hcl:"node,block" validate:"required,min=1,unique=Name,dive"`
	Edges            []Edge            `yaml:"edges,omitempty" json:"edges,omitempty" hcl:"edge,block" validate:"dive"`
	ConditionalEdges []ConditionalEdge `yaml:"conditional_edges,omitempty" json:"conditional_edges,omitempty" hcl:"conditional_edge,block" validate:"unique=From,dive"`
}

// Node is a named step of the graph.
type Node struct {
	Name        string `yaml:"name" json:"name" hcl:"name,label" validate:"required,ne=START,ne=END"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" hcl:"description,optional"`
}

// Edge is an unconditional transition.
type Edge struct {
	From string `yaml:"from" json:"from" hcl:"from,attr" validate:"required,ne=END"`
	To   string `yaml:"to" json:"to" hcl:"to,attr" validate:"required,ne=START"`
}

// ConditionalEdge is a routed transition; Targets lists every possible
// destination in order.
type ConditionalEdge struct {
	From    string   `yaml:"from" json:"from" hcl:"from,attr" validate:"required,ne=END"`
	Targets []string `yaml:"targets" json:"targets" hcl:"targets,attr" validate:"required,min=1,dive,required,ne=START"`
}

var validate = validator.New()

// Validate checks the definition's shape and that every edge references a
// declared node.
func (d *Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	declared := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		declared[n.Name] = true
	}
	known := func(name string) bool {
		return name == graph.START || name == graph.END || declared[name]
	}

	if d.EntryPoint != "" && !declared[d.EntryPoint] {
		return fmt.Errorf("%w: entry point %q is not a node", ErrInvalidDefinition, d.EntryPoint)
	}
	for _, e := range d.Edges {
		if !known(e.From) || !known(e.To) {
			return fmt.Errorf("%w: edge %s -> %s references an unknown node", ErrInvalidDefinition, e.From, e.To)
		}
	}
	for _, ce := range d.ConditionalEdges {
		if !known(ce.From) {
			return fmt.Errorf("%w: conditional edge from unknown node %q", ErrInvalidDefinition, ce.From)
		}
		for _, target := range ce.Targets {
			if !known(target) {
				return fmt.Errorf("%w: conditional edge %s -> %s references an unknown node", ErrInvalidDefinition, ce.From, target)
			}
		}
	}
	return nil
}

// Build validates the definition and turns it into a state graph over
// map[string]any. Nodes append their name to the "visited" key; conditional
// edges route by RoutesKey.
func (d *Definition) Build() (*graph.StateGraph[map[string]any], error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	g := graph.NewStateGraph[map[string]any]()
	for _, n := range d.Nodes {
		g.AddNode(n.Name, n.Description, passThrough(n.Name))
	}
	if d.EntryPoint != "" {
		g.SetEntryPoint(d.EntryPoint)
	}
	for _, e := range d.Edges {
		g.AddEdge(e.From, e.To)
	}
	for _, ce := range d.ConditionalEdges {
		g.AddConditionalEdge(ce.From, router(ce.From, ce.Targets[0]), ce.Targets...)
	}
	return g, nil
}

func passThrough(name string) func(ctx context.Context, state map[string]any) (map[string]any, error) {
	return func(ctx context.Context, state map[string]any) (map[string]any, error) {
		if state == nil {
			state = make(map[string]any)
		}
		visited, _ := state["visited"].([]string)
		state["visited"] = append(visited, name)
		return state, nil
	}
}

func router(from, fallback string) func(ctx context.Context, state map[string]any) string {
	return func(ctx context.Context, state map[string]any) string {
		switch routes := state[RoutesKey].(type) {
		case map[string]string:
			if next, ok := routes[from]; ok {
				return next
			}
		case map[string]any:
			if next, ok := routes[from].(string); ok {
				return next
			}
		}
		return fallback
	}
}
