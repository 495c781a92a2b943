package taskgraph

import "errors"

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNode is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node IDs must be unique.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrNotFound is returned when an operation references a node or edge
	// that does not exist in the graph.
	ErrNotFound = errors.New("not found")

	// ErrSelfLoop is returned by [Graph.AddEdge] when source and target are
	// the same node.
	ErrSelfLoop = errors.New("self-referencing edge")

	// ErrCycle is returned by [Graph.AddEdge] when inserting a
	// cycle-significant edge would close a directed cycle. The insertion is
	// rolled back completely before the error is returned.
	ErrCycle = errors.New("cycle detected")

	// ErrValidation is returned by [Graph.TopologicalSort] when the order is
	// incomplete (a residual cycle exists), and reported by [Graph.Validate]
	// for structural inconsistencies.
	ErrValidation = errors.New("graph validation failed")
)
