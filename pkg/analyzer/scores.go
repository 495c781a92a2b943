package analyzer

// Criticality weights: presence on the critical path dominates, with fan-out
// and cost splitting the remainder.
const (
	criticalPathWeight = 0.4
	dependentsWeight   = 0.3
	costWeight         = 0.3
)

// InfluenceOptions configures the power-iteration influence ranking.
type InfluenceOptions struct {
	Damping    float64 // damping factor, typically 0.85
	Iterations int     // fixed number of power iterations
}

// DefaultInfluenceOptions returns the standard configuration:
// damping 0.85 over 20 iterations.
func DefaultInfluenceOptions() InfluenceOptions {
	return InfluenceOptions{Damping: 0.85, Iterations: 20}
}

// NodeCriticality scores every node in [0, 1] by combining critical-path
// membership, relative fan-out, and relative total cost. The critical path
// is recomputed first so OnCriticalPath flags are current.
func (a *Analyzer) NodeCriticality() map[string]float64 {
	if v, ok := a.lookup(kindCriticality); ok {
		return v.(map[string]float64)
	}

	g := a.graph
	scores := make(map[string]float64, g.NodeCount())
	if g.NodeCount() == 0 {
		a.store(kindCriticality, scores)
		return scores
	}

	// Best effort: on a residual cycle no node carries the flag.
	g.CriticalPath()

	maxDependents, maxCost := 0, 0.0
	for _, n := range g.Nodes() {
		if d := len(n.Dependents); d > maxDependents {
			maxDependents = d
		}
		if c := n.Cost.TotalCost(); c > maxCost {
			maxCost = c
		}
	}

	for _, n := range g.Nodes() {
		score := 0.0
		if n.OnCriticalPath {
			score += criticalPathWeight
		}
		if maxDependents > 0 {
			score += dependentsWeight * float64(len(n.Dependents)) / float64(maxDependents)
		}
		if maxCost > 0 {
			score += costWeight * n.Cost.TotalCost() / maxCost
		}
		scores[n.ID] = score
	}

	a.store(kindCriticality, scores)
	return scores
}

// InfluenceScores ranks nodes by a PageRank-style power iteration seeded at
// uniform rank 1/n. Incoming edges contribute rank: a node depended on by
// many influential nodes becomes influential itself. Scores are normalized
// so the maximum is 1.0 and written onto each node's InfluenceScore field.
func (a *Analyzer) InfluenceScores() map[string]float64 {
	if v, ok := a.lookup(kindInfluence); ok {
		return v.(map[string]float64)
	}
	scores := a.influence(DefaultInfluenceOptions())
	a.store(kindInfluence, scores)
	return scores
}

func (a *Analyzer) influence(opts InfluenceOptions) map[string]float64 {
	g := a.graph
	n := g.NodeCount()
	rank := make(map[string]float64, n)
	if n == 0 {
		return rank
	}

	ids := g.NodeIDs()
	nf := float64(n)
	base := (1 - opts.Damping) / nf
	for _, id := range ids {
		rank[id] = 1 / nf
	}

	for iter := 0; iter < opts.Iterations; iter++ {
		next := make(map[string]float64, n)
		for _, id := range ids {
			sum := 0.0
			for _, source := range g.Dependencies(id) {
				if out := g.OutDegree(source); out > 0 {
					sum += rank[source] / float64(out)
				}
			}
			next[id] = base + opts.Damping*sum
		}
		rank = next
	}

	maxRank := 0.0
	for _, v := range rank {
		if v > maxRank {
			maxRank = v
		}
	}
	if maxRank > 0 {
		for id := range rank {
			rank[id] /= maxRank
		}
	}

	for _, id := range ids {
		if node, ok := g.Node(id); ok {
			node.InfluenceScore = rank[id]
		}
	}
	return rank
}
