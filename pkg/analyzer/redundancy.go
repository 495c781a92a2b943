package analyzer

// Bounds for the exhaustive path enumeration in RedundancyScore. Counting
// simple paths is worst-case exponential in graph size, so graphs past the
// node gate are not enumerated at all and individual walks stop at the depth
// cap.
const (
	redundancyNodeGate = 250
	redundancyDepthCap = 64
)

// RedundancyScore estimates how many alternative routes the graph offers by
// exhaustively counting distinct simple paths between every root/leaf pair,
// normalized against twice the number of pairs and capped at 1.0.
//
// The enumeration is exponential in the worst case. Graphs with more than
// redundancyNodeGate nodes return 0.0 without enumerating, and each search
// abandons branches beyond redundancyDepthCap nodes; callers needing exact
// results on large graphs must bound the graph themselves.
func (a *Analyzer) RedundancyScore() float64 {
	if v, ok := a.lookup(kindRedundancy); ok {
		return v.(float64)
	}

	score := a.redundancy()
	a.store(kindRedundancy, score)
	return score
}

func (a *Analyzer) redundancy() float64 {
	g := a.graph
	if g.NodeCount() == 0 || g.NodeCount() > redundancyNodeGate {
		return 0
	}

	roots := g.Roots()
	leaves := g.Leaves()
	if len(roots) == 0 || len(leaves) == 0 {
		return 0
	}

	leafSet := make(map[string]bool, len(leaves))
	for _, leaf := range leaves {
		leafSet[leaf] = true
	}

	totalPaths := 0
	for _, root := range roots {
		totalPaths += a.countPaths(root, leafSet)
	}

	normalized := float64(totalPaths) / float64(2*len(roots)*len(leaves))
	return min(normalized, 1)
}

// countPaths counts simple paths from start to any leaf by iterative DFS
// with an explicit frame stack and an on-path set.
func (a *Analyzer) countPaths(start string, leafSet map[string]bool) int {
	g := a.graph

	type frame struct {
		id       string
		children []string
		next     int
	}

	onPath := map[string]bool{start: true}
	stack := []frame{{id: start, children: g.Dependents(start)}}
	paths := 0
	if leafSet[start] {
		paths++
	}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.children) && len(stack) < redundancyDepthCap {
			child := top.children[top.next]
			top.next++
			if onPath[child] {
				continue
			}
			if leafSet[child] {
				paths++
			}
			onPath[child] = true
			stack = append(stack, frame{id: child, children: g.Dependents(child)})
			continue
		}
		delete(onPath, top.id)
		stack = stack[:len(stack)-1]
	}

	return paths
}
