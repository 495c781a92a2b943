package analyzer

import "slices"

// FindAllCycles enumerates directed cycles over the full adjacency graph.
//
// The search is a depth-first traversal with an explicit ordered path stack:
// when a back-edge into the current path is found, the exact cycle is the
// subsequence from the repeated node to the top of the stack. Each node is
// fully explored once, so every elementary cycle reachable through a fresh
// back-edge is reported exactly once per discovery. Returns an empty slice
// for an acyclic graph.
func (a *Analyzer) FindAllCycles() [][]string {
	if v, ok := a.lookup(kindCycles); ok {
		return v.([][]string)
	}

	g := a.graph
	visited := make(map[string]bool, g.NodeCount())
	cycles := [][]string{}

	type frame struct {
		id       string
		children []string
		next     int
	}

	for _, start := range g.NodeIDs() {
		if visited[start] {
			continue
		}

		// path mirrors the frame stack as an ordered list so a back-edge
		// can be sliced into the exact cycle it closes.
		path := []string{start}
		onPath := map[string]int{start: 0}
		stack := []frame{{id: start, children: g.Dependents(start)}}
		visited[start] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.children) {
				child := top.children[top.next]
				top.next++
				if idx, ok := onPath[child]; ok {
					cycles = append(cycles, slices.Clone(path[idx:]))
					continue
				}
				if visited[child] {
					continue
				}
				visited[child] = true
				onPath[child] = len(path)
				path = append(path, child)
				stack = append(stack, frame{id: child, children: g.Dependents(child)})
				continue
			}
			delete(onPath, top.id)
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
		}
	}

	a.store(kindCycles, cycles)
	return cycles
}
