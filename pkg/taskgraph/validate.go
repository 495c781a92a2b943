package taskgraph

import "fmt"

// Validate checks structural integrity and returns whether the graph is
// consistent along with a message for every violation found. It checks for
// directed cycles, edges referencing missing nodes, and divergence between
// node neighbor sets and the adjacency indices.
func (g *Graph) Validate() (bool, []string) {
	var problems []string

	if g.HasCycle() {
		problems = append(problems, "graph contains a directed cycle")
	}

	for _, e := range g.edges {
		if _, ok := g.nodes[e.Source]; !ok {
			problems = append(problems, fmt.Sprintf("edge %s -> %s references missing source node", e.Source, e.Target))
		}
		if _, ok := g.nodes[e.Target]; !ok {
			problems = append(problems, fmt.Sprintf("edge %s -> %s references missing target node", e.Source, e.Target))
		}
	}

	for id, n := range g.nodes {
		for dep := range n.Dependencies {
			if !g.reverse[id][dep] {
				problems = append(problems, fmt.Sprintf("node %s lists dependency %s without a matching edge", id, dep))
			}
		}
		for dep := range g.reverse[id] {
			if !n.Dependencies[dep] {
				problems = append(problems, fmt.Sprintf("node %s is missing dependency %s from its set", id, dep))
			}
		}
		for dependent := range n.Dependents {
			if !g.adjacency[id][dependent] {
				problems = append(problems, fmt.Sprintf("node %s lists dependent %s without a matching edge", id, dependent))
			}
		}
		for dependent := range g.adjacency[id] {
			if !n.Dependents[dependent] {
				problems = append(problems, fmt.Sprintf("node %s is missing dependent %s from its set", id, dependent))
			}
		}
	}

	return len(problems) == 0, problems
}
