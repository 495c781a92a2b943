package taskgraph

import (
	"slices"

	"github.com/matzehuels/taskgraph/pkg/task"
)

// Stats summarizes the structural and execution state of a graph.
type Stats struct {
	NodeCount      int                 `json:"node_count"`
	EdgeCount      int                 `json:"edge_count"`
	StatusCounts   map[task.Status]int `json:"status_counts"`
	RootCount      int                 `json:"root_count"`
	LeafCount      int                 `json:"leaf_count"`
	IsolatedCount  int                 `json:"isolated_count"`
	CompletionRate float64             `json:"completion_rate"`
}

// Stats computes a snapshot of node, edge, and status counts. The completion
// rate is the fraction of nodes in a completed state; it is 0 for an empty
// graph.
func (g *Graph) Stats() Stats {
	s := Stats{
		NodeCount:    len(g.nodes),
		EdgeCount:    len(g.edges),
		StatusCounts: make(map[task.Status]int),
	}

	completed := 0
	for id, n := range g.nodes {
		s.StatusCounts[n.Status]++
		if n.Status == task.StatusCompleted {
			completed++
		}
		in := len(g.reverse[id])
		out := len(g.adjacency[id])
		if in == 0 {
			s.RootCount++
		}
		if out == 0 {
			s.LeafCount++
		}
		if in == 0 && out == 0 {
			s.IsolatedCount++
		}
	}
	if s.NodeCount > 0 {
		s.CompletionRate = float64(completed) / float64(s.NodeCount)
	}
	return s
}

// Isolated returns the sorted IDs of nodes with no edges in either direction.
func (g *Graph) Isolated() []string {
	var isolated []string
	for id := range g.nodes {
		if len(g.reverse[id]) == 0 && len(g.adjacency[id]) == 0 {
			isolated = append(isolated, id)
		}
	}
	slices.Sort(isolated)
	return isolated
}
