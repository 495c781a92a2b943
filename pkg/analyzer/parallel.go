package analyzer

import "slices"

// ParallelizationIndex returns a scalar in [0, 1] describing how
// parallel-shaped the DAG is: the average number of nodes per topological
// level divided by the total node count. A long chain scores near zero; a
// flat graph where everything could run at once scores 1. Returns 0.0 for an
// empty graph or when no topological order exists.
func (a *Analyzer) ParallelizationIndex() float64 {
	if v, ok := a.lookup(kindParallelization); ok {
		return v.(float64)
	}

	index := 0.0
	if stages := a.ParallelStages(); len(stages) > 0 {
		n := float64(a.graph.NodeCount())
		average := n / float64(len(stages))
		index = average / n
	}

	a.store(kindParallelization, index)
	return index
}

// ParallelStages groups node IDs by topological level: the batches that
// could, in principle, execute concurrently. Stage i holds every node at
// level i with IDs sorted. Each node's ParallelizationFactor is set to the
// relative width of its stage. Returns an empty slice for an empty graph or
// when no topological order exists.
func (a *Analyzer) ParallelStages() [][]string {
	if v, ok := a.lookup(kindStages); ok {
		return v.([][]string)
	}

	stages := [][]string{}
	g := a.graph
	levels, err := g.NodeLevels()
	if err == nil && len(levels) > 0 {
		maxLevel := 0
		for _, l := range levels {
			if l > maxLevel {
				maxLevel = l
			}
		}
		stages = make([][]string, maxLevel+1)
		for id, l := range levels {
			stages[l] = append(stages[l], id)
		}
		for i := range stages {
			slices.Sort(stages[i])
		}

		n := float64(g.NodeCount())
		for id, l := range levels {
			if node, ok := g.Node(id); ok {
				node.ParallelizationFactor = float64(len(stages[l])) / n
			}
		}
	}

	a.store(kindStages, stages)
	return stages
}
