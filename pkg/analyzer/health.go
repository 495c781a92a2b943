package analyzer

import "fmt"

// Health status bands.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Penalty schedule for the composite health score.
const (
	healthBase = 100.0

	cyclePenalty = 50.0

	bottleneckThreshold  = 5
	bottleneckPenalty    = 10.0
	bottleneckPenaltyCap = 30.0

	lowParallelismFloor   = 0.3
	lowParallelismPenalty = 10.0

	isolatedPenalty    = 5.0
	isolatedPenaltyCap = 20.0
)

// Health is the composite structural health of a graph.
type Health struct {
	Score  float64  `json:"score"`
	Status string   `json:"status"`
	Issues []string `json:"issues"`
}

// GraphHealth computes a composite 0-100 health score. Starting from 100,
// it deducts for cycles, bottlenecks at the standard threshold, a low
// parallelization index, and isolated nodes, then bands the result:
// healthy at 80 and above, degraded at 50 and above, unhealthy below.
// An empty graph is perfectly healthy with no issues.
func (a *Analyzer) GraphHealth() Health {
	if v, ok := a.lookup(kindHealth); ok {
		return v.(Health)
	}

	score := healthBase
	issues := []string{}

	if cycles := a.FindAllCycles(); len(cycles) > 0 {
		score -= cyclePenalty
		issues = append(issues, fmt.Sprintf("%d dependency cycle(s) detected", len(cycles)))
	}

	if bottlenecks := a.FindBottlenecks(bottleneckThreshold); len(bottlenecks) > 0 {
		penalty := min(float64(len(bottlenecks))*bottleneckPenalty, bottleneckPenaltyCap)
		score -= penalty
		issues = append(issues, fmt.Sprintf("%d bottleneck node(s) at threshold %d", len(bottlenecks), bottleneckThreshold))
	}

	if a.graph.NodeCount() > 0 {
		if index := a.ParallelizationIndex(); index < lowParallelismFloor {
			score -= lowParallelismPenalty
			issues = append(issues, fmt.Sprintf("low parallelization potential (%.2f)", index))
		}
	}

	if isolated := a.graph.Isolated(); len(isolated) > 0 {
		penalty := min(float64(len(isolated))*isolatedPenalty, isolatedPenaltyCap)
		score -= penalty
		issues = append(issues, fmt.Sprintf("%d isolated node(s) with no edges", len(isolated)))
	}

	score = max(score, 0)

	status := StatusUnhealthy
	switch {
	case score >= 80:
		status = StatusHealthy
	case score >= 50:
		status = StatusDegraded
	}

	h := Health{Score: score, Status: status, Issues: issues}
	a.store(kindHealth, h)
	return h
}
