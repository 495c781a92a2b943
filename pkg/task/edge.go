package task

import (
	"maps"
	"slices"
)

// EdgeType classifies the semantics of a directed edge.
type EdgeType string

// Edge types. Only EdgeDependency and EdgeConstraint gate execution order and
// therefore participate in acyclicity enforcement; the remaining types are
// informational annotations that the graph accepts without a cycle check.
const (
	EdgeDependency  EdgeType = "dependency"
	EdgeConstraint  EdgeType = "constraint"
	EdgeDataFlow    EdgeType = "dataflow"
	EdgeConditional EdgeType = "conditional"
	EdgeWeak        EdgeType = "weak"
)

// Edge is a directed connection from Source to Target: the target depends on
// the source. Source and Target must differ; self-loops are rejected by the
// graph container.
type Edge struct {
	Source      string         `json:"source_id"`
	Target      string         `json:"target_id"`
	Type        EdgeType       `json:"edge_type"`
	Weight      float64        `json:"weight"`
	Constraints map[string]string `json:"constraints,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewEdge creates an edge with weight 1 and initialized maps.
func NewEdge(source, target string, edgeType EdgeType) Edge {
	return Edge{
		Source:      source,
		Target:      target,
		Type:        edgeType,
		Weight:      1,
		Constraints: map[string]string{},
		Metadata:    map[string]any{},
	}
}

// IsDependency reports whether the edge is a hard dependency.
func (e Edge) IsDependency() bool { return e.Type == EdgeDependency }

// IsConditional reports whether the edge is taken only conditionally.
func (e Edge) IsConditional() bool { return e.Type == EdgeConditional }

// IsWeak reports whether the edge is a weak (advisory) link.
func (e Edge) IsWeak() bool { return e.Type == EdgeWeak }

// CycleSignificant reports whether inserting this edge must preserve
// acyclicity. Dependency and constraint edges gate execution order; dataflow,
// conditional, and weak edges do not.
func (e Edge) CycleSignificant() bool {
	return e.Type == EdgeDependency || e.Type == EdgeConstraint
}

func sortedKeys(set map[string]bool) []string {
	return slices.Sorted(maps.Keys(set))
}
