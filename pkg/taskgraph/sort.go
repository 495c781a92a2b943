package taskgraph

import (
	"fmt"
	"slices"
)

// HasCycle reports whether the full adjacency graph contains a directed
// cycle, regardless of edge type. Detection uses depth-first search with
// white/gray/black coloring and an explicit frame stack, so recursion depth
// is bounded only by available memory, not the goroutine stack.
func (g *Graph) HasCycle() bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))

	type frame struct {
		id       string
		children []string
		next     int
	}

	for start := range g.nodes {
		if color[start] != white {
			continue
		}

		stack := []frame{{id: start, children: g.Dependents(start)}}
		color[start] = gray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.children) {
				child := top.children[top.next]
				top.next++
				switch color[child] {
				case white:
					color[child] = gray
					stack = append(stack, frame{id: child, children: g.Dependents(child)})
				case gray:
					return true
				}
				continue
			}
			color[top.id] = black
			stack = stack[:len(stack)-1]
		}
	}
	return false
}

// IsAcyclic reports whether the graph contains no directed cycle.
func (g *Graph) IsAcyclic() bool { return !g.HasCycle() }

// TopologicalSort returns node IDs in topological order using Kahn's
// algorithm: in-degrees are computed from the reverse-adjacency index, nodes
// with zero in-degree are dequeued (lowest ID first, for deterministic
// output), and their dependents' degrees decremented.
//
// Returns ErrValidation if the result omits any node, which indicates a
// residual cycle. The order is cached until the next structural mutation.
func (g *Graph) TopologicalSort() ([]string, error) {
	if g.cachedOrder != nil && g.cachedOrderVersion == g.version {
		return slices.Clone(g.cachedOrder), nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	var queue []string
	for id := range g.nodes {
		inDegree[id] = len(g.reverse[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	slices.Sort(queue)

	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		var freed []string
		for _, dependent := range g.Dependents(id) {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				freed = append(freed, dependent)
			}
		}
		queue = append(queue, freed...)
		slices.Sort(queue)
	}

	if len(order) != len(g.nodes) {
		return nil, fmt.Errorf("%w: topological sort ordered %d of %d nodes",
			ErrValidation, len(order), len(g.nodes))
	}

	g.cachedOrder = order
	g.cachedOrderVersion = g.version
	return slices.Clone(order), nil
}

// NodeLevels assigns each node a level: zero for nodes with no incoming
// edges, otherwise one past the maximum level among incoming neighbors.
// The level is written onto each node's Level field and the full id→level
// map is returned. Fails with ErrValidation if no topological order exists.
func (g *Graph) NodeLevels() (map[string]int, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	levels := make(map[string]int, len(order))
	for _, id := range order {
		level := 0
		for dep := range g.reverse[id] {
			if l := levels[dep] + 1; l > level {
				level = l
			}
		}
		levels[id] = level
		g.nodes[id].Level = level
	}
	return levels, nil
}

// CriticalPath computes the longest duration-weighted path through the graph
// using the critical-path method.
//
// A forward pass in topological order computes each node's earliest start as
// the maximum of earliest start plus duration over its incoming neighbors.
// Ties between candidate predecessors are broken by lowest node ID so the
// returned path is stable across runs. Every node on the path is marked
// OnCriticalPath; all other nodes are cleared. Returns the ordered node IDs
// and the total duration; both are cached until the next mutation.
func (g *Graph) CriticalPath() ([]string, float64, error) {
	if g.cachedPath != nil && g.cachedPathVersion == g.version {
		return slices.Clone(g.cachedPath), g.cachedPathTotal, nil
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, 0, err
	}

	earliest := make(map[string]float64, len(order))
	predecessor := make(map[string]string, len(order))
	for _, id := range order {
		for _, dep := range g.Dependencies(id) {
			candidate := earliest[dep] + g.nodes[dep].Cost.Duration
			if candidate > earliest[id] {
				earliest[id] = candidate
				predecessor[id] = dep
			}
		}
	}

	end := ""
	total := 0.0
	for _, id := range order {
		finish := earliest[id] + g.nodes[id].Cost.Duration
		if end == "" || finish > total || (finish == total && id < end) {
			end = id
			total = finish
		}
	}

	var path []string
	for id := end; id != ""; id = predecessor[id] {
		path = append(path, id)
	}
	slices.Reverse(path)

	for _, n := range g.nodes {
		n.OnCriticalPath = false
	}
	for _, id := range path {
		g.nodes[id].OnCriticalPath = true
	}

	g.cachedPath = path
	g.cachedPathTotal = total
	g.cachedPathVersion = g.version
	return slices.Clone(path), total, nil
}
