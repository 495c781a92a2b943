// Package taskgraph implements the directed-acyclic task-dependency graph at
// the heart of the engine: node and edge storage, adjacency indices, mutation
// with transactional invariant enforcement, topological ordering, level
// computation, and the critical-path method.
//
// An edge source→target means the target depends on the source. Only
// dependency and constraint edges are cycle-significant: inserting one of
// them must not close a directed cycle anywhere in the current edge set.
// Dataflow, conditional, and weak edges are accepted without a cycle check,
// so a cycle composed solely of those types is representable.
//
// A Graph is not safe for concurrent use. Mutations update several structures
// in sequence (node map, edge list, both adjacency indices, and each
// endpoint's dependency sets), so callers sharing a graph across goroutines
// must serialize mutation and analysis with an external lock.
package taskgraph

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/taskgraph/pkg/task"
)

// Graph is the DAG container for task nodes and typed edges.
//
// The zero value is not usable - use [New]. Every structural mutation bumps
// an internal version counter; cached derived results (topological order,
// critical path) are valid only while their stored version matches.
type Graph struct {
	ID       string
	Metadata map[string]any

	nodes     map[string]*task.Node
	edges     []task.Edge
	adjacency map[string]map[string]bool // source -> set of targets
	reverse   map[string]map[string]bool // target -> set of sources

	version uint64

	cachedOrder        []string
	cachedOrderVersion uint64

	cachedPath        []string
	cachedPathTotal   float64
	cachedPathVersion uint64
}

// New creates an empty graph with a generated UUID and optional metadata.
func New(metadata map[string]any) *Graph {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Graph{
		ID:        uuid.NewString(),
		Metadata:  metadata,
		nodes:     make(map[string]*task.Node),
		adjacency: make(map[string]map[string]bool),
		reverse:   make(map[string]map[string]bool),
	}
}

// Version returns the structural mutation counter. Consumers caching derived
// results (e.g. the analyzer) tag entries with this value and treat a
// mismatch as stale.
func (g *Graph) Version() uint64 { return g.version }

// bump records a structural mutation, invalidating cached derived state.
func (g *Graph) bump() { g.version++ }

// AddNode inserts a node into the graph.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNode if the ID is
// already present. Nil metadata and neighbor sets are initialized so the
// graph can maintain them.
func (g *Graph) AddNode(n *task.Node) error {
	if n == nil || n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	if n.Metadata == nil {
		n.Metadata = map[string]any{}
	}
	if n.Dependencies == nil {
		n.Dependencies = map[string]bool{}
	}
	if n.Dependents == nil {
		n.Dependents = map[string]bool{}
	}
	g.nodes[n.ID] = n
	g.adjacency[n.ID] = make(map[string]bool)
	g.reverse[n.ID] = make(map[string]bool)
	g.bump()
	return nil
}

// RemoveNode removes a node and every edge touching it, updating both
// adjacency indices and the neighbor sets of all adjacent nodes.
// Returns ErrNotFound if the node does not exist.
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: node %s", ErrNotFound, id)
	}

	g.edges = slices.DeleteFunc(g.edges, func(e task.Edge) bool {
		return e.Source == id || e.Target == id
	})

	for target := range g.adjacency[id] {
		delete(g.reverse[target], id)
		delete(g.nodes[target].Dependencies, id)
	}
	for source := range g.reverse[id] {
		delete(g.adjacency[source], id)
		delete(g.nodes[source].Dependents, id)
	}

	delete(g.adjacency, id)
	delete(g.reverse, id)
	delete(g.nodes, id)
	g.bump()
	return nil
}

// AddEdge inserts a directed edge between two existing nodes.
//
// Returns ErrNotFound if either endpoint is missing and ErrSelfLoop if the
// endpoints are equal. The edge is committed tentatively to the edge list,
// both adjacency indices, and both endpoints' neighbor sets; if the edge is
// cycle-significant a full cycle check then runs over the entire adjacency,
// and on a detected cycle the insertion is rolled back across all touched
// structures before ErrCycle is returned. No partial state is observable
// after a failed call.
func (g *Graph) AddEdge(e task.Edge) error {
	if e.Source == e.Target {
		return fmt.Errorf("%w: %s", ErrSelfLoop, e.Source)
	}
	source, ok := g.nodes[e.Source]
	if !ok {
		return fmt.Errorf("%w: source node %s", ErrNotFound, e.Source)
	}
	target, ok := g.nodes[e.Target]
	if !ok {
		return fmt.Errorf("%w: target node %s", ErrNotFound, e.Target)
	}

	// Snapshot membership so a rollback restores duplicate edges exactly.
	hadForward := g.adjacency[e.Source][e.Target]
	hadReverse := g.reverse[e.Target][e.Source]
	hadDependency := target.Dependencies[e.Source]
	hadDependent := source.Dependents[e.Target]

	g.edges = append(g.edges, e)
	g.adjacency[e.Source][e.Target] = true
	g.reverse[e.Target][e.Source] = true
	target.Dependencies[e.Source] = true
	source.Dependents[e.Target] = true

	if e.CycleSignificant() && g.HasCycle() {
		g.edges = g.edges[:len(g.edges)-1]
		if !hadForward {
			delete(g.adjacency[e.Source], e.Target)
		}
		if !hadReverse {
			delete(g.reverse[e.Target], e.Source)
		}
		if !hadDependency {
			delete(target.Dependencies, e.Source)
		}
		if !hadDependent {
			delete(source.Dependents, e.Target)
		}
		return fmt.Errorf("%w: edge %s -> %s would close a cycle", ErrCycle, e.Source, e.Target)
	}

	g.bump()
	return nil
}

// RemoveEdge removes every edge from source to target along with the
// corresponding adjacency and neighbor-set entries. Node identity is
// untouched. Returns ErrNotFound if no such edge exists.
func (g *Graph) RemoveEdge(source, target string) error {
	before := len(g.edges)
	g.edges = slices.DeleteFunc(g.edges, func(e task.Edge) bool {
		return e.Source == source && e.Target == target
	})
	if len(g.edges) == before {
		return fmt.Errorf("%w: edge %s -> %s", ErrNotFound, source, target)
	}

	delete(g.adjacency[source], target)
	delete(g.reverse[target], source)
	if n, ok := g.nodes[target]; ok {
		delete(n.Dependencies, source)
	}
	if n, ok := g.nodes[source]; ok {
		delete(n.Dependents, target)
	}
	g.bump()
	return nil
}

// Node returns the node with the given ID and true, or nil and false.
// The pointer refers to the live node, so status transitions through it are
// visible to the graph.
func (g *Graph) Node(id string) (*task.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes sorted by ID for deterministic iteration.
func (g *Graph) Nodes() []*task.Node {
	nodes := make([]*task.Node, 0, len(g.nodes))
	for _, id := range g.NodeIDs() {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeIDs returns all node IDs in sorted order.
func (g *Graph) NodeIDs() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []task.Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Dependencies returns the sorted IDs of nodes that id depends on
// (sources of incoming edges). Returns nil for an unknown node.
func (g *Graph) Dependencies(id string) []string {
	if _, ok := g.nodes[id]; !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(g.reverse[id]))
}

// Dependents returns the sorted IDs of nodes depending on id
// (targets of outgoing edges). Returns nil for an unknown node.
func (g *Graph) Dependents(id string) []string {
	if _, ok := g.nodes[id]; !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(g.adjacency[id]))
}

// InDegree returns the number of distinct incoming neighbors.
func (g *Graph) InDegree(id string) int { return len(g.reverse[id]) }

// OutDegree returns the number of distinct outgoing neighbors.
func (g *Graph) OutDegree(id string) int { return len(g.adjacency[id]) }

// Roots returns the sorted IDs of nodes with no incoming edges.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.nodes {
		if len(g.reverse[id]) == 0 {
			roots = append(roots, id)
		}
	}
	slices.Sort(roots)
	return roots
}

// Leaves returns the sorted IDs of nodes with no outgoing edges.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id := range g.nodes {
		if len(g.adjacency[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	slices.Sort(leaves)
	return leaves
}
