// Package builder constructs task graphs from TOML manifests.
//
// The builder resolves per-type cost models, creates nodes in declaration
// order, and wires both depends_on shorthand and explicit edge declarations.
// Edges that would close a cycle are skipped with a warning rather than
// failing the whole build, so a single bad declaration does not discard an
// otherwise valid manifest.
package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskgraph/pkg/task"
	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

// ErrInvalidManifest is returned when a manifest fails validation.
var ErrInvalidManifest = errors.New("invalid manifest")

// edgeTypes maps manifest edge type strings to edge types.
var edgeTypes = map[string]task.EdgeType{
	"":            task.EdgeDependency,
	"dependency":  task.EdgeDependency,
	"constraint":  task.EdgeConstraint,
	"dataflow":    task.EdgeDataFlow,
	"conditional": task.EdgeConditional,
	"weak":        task.EdgeWeak,
}

// Builder turns parsed manifests into graphs.
type Builder struct {
	logger *log.Logger
}

// New creates a builder. A nil logger falls back to [log.Default].
func New(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{logger: logger}
}

// Build constructs a graph from the manifest.
//
// Cost models resolve per task: an explicit [TaskSpec.Costs] wins, otherwise
// the [Manifest.Costs] entry for the task's type applies. Edges that would
// introduce a cycle are logged and skipped; the count of skipped edges is
// recorded in the graph metadata under "skipped_edges".
func (b *Builder) Build(ctx context.Context, m *Manifest) (*taskgraph.Graph, error) {
	meta := map[string]any{}
	if m.Graph.Name != "" {
		meta["name"] = m.Graph.Name
	}
	if m.Graph.Description != "" {
		meta["description"] = m.Graph.Description
	}
	if m.Graph.Owner != "" {
		meta["owner"] = m.Graph.Owner
	}

	g := taskgraph.New(meta)

	for _, spec := range m.Tasks {
		node := task.NewNode(spec.ID, spec.Name, spec.Type)
		node.Priority = spec.Priority
		if spec.Costs != nil {
			node.Cost = spec.Costs.model()
		} else if typeCosts, ok := m.Costs[spec.Type]; ok {
			node.Cost = typeCosts.model()
		}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("adding task %q: %w", spec.ID, err)
		}
	}

	skipped := 0
	addEdge := func(edge task.Edge) error {
		err := g.AddEdge(edge)
		if errors.Is(err, taskgraph.ErrCycle) {
			b.logger.Warn("skipping edge that would close a cycle",
				"source", edge.Source, "target", edge.Target, "type", edge.Type)
			skipped++
			return nil
		}
		return err
	}

	for _, spec := range m.Tasks {
		for _, dep := range spec.DependsOn {
			if err := addEdge(task.NewEdge(dep, spec.ID, task.EdgeDependency)); err != nil {
				return nil, fmt.Errorf("wiring dependency %s -> %s: %w", dep, spec.ID, err)
			}
		}
	}

	for _, spec := range m.Edges {
		edgeType, ok := edgeTypes[spec.Type]
		if !ok {
			return nil, fmt.Errorf("%w: unknown edge type %q", ErrInvalidManifest, spec.Type)
		}
		edge := task.NewEdge(spec.Source, spec.Target, edgeType)
		if spec.Weight > 0 {
			edge.Weight = spec.Weight
		}
		if err := addEdge(edge); err != nil {
			return nil, fmt.Errorf("wiring edge %s -> %s: %w", spec.Source, spec.Target, err)
		}
	}

	if skipped > 0 {
		g.Metadata["skipped_edges"] = skipped
	}

	b.logger.Debug("built graph",
		"nodes", g.NodeCount(), "edges", g.EdgeCount(), "skipped", skipped)
	return g, nil
}

// BuildFile loads a manifest from path and builds a graph from it.
func (b *Builder) BuildFile(ctx context.Context, path string) (*taskgraph.Graph, error) {
	m, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, m)
}
