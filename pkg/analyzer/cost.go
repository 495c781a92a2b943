package analyzer

// CostSummary aggregates the cost models of every node, the critical-path
// duration, and the parallelization payoff.
type CostSummary struct {
	TotalDuration        float64 `json:"total_duration"`
	TotalMonetaryCost    float64 `json:"total_monetary_cost"`
	TotalCPUUnits        float64 `json:"total_cpu_units"`
	TotalMemoryMB        float64 `json:"total_memory_mb"`
	TotalIOOps           float64 `json:"total_io_ops"`
	CriticalPathDuration float64 `json:"critical_path_duration"`

	// EfficiencyRatio is the critical-path duration divided by the sum of
	// all durations: the fraction of serial work that cannot be
	// parallelized away. Lower is better.
	EfficiencyRatio float64 `json:"efficiency_ratio"`
}

// TotalCost sums every cost dimension across all nodes and relates the
// critical-path duration to the total: the efficiency ratio is what remains
// if unlimited workers execute everything off the critical path in parallel.
func (a *Analyzer) TotalCost() CostSummary {
	if v, ok := a.lookup(kindCost); ok {
		return v.(CostSummary)
	}

	var summary CostSummary
	for _, n := range a.graph.Nodes() {
		summary.TotalDuration += n.Cost.Duration
		summary.TotalMonetaryCost += n.Cost.MonetaryCost
		summary.TotalCPUUnits += n.Cost.CPUUnits
		summary.TotalMemoryMB += n.Cost.MemoryMB
		summary.TotalIOOps += n.Cost.IOOps
	}

	if _, total, err := a.graph.CriticalPath(); err == nil {
		summary.CriticalPathDuration = total
	}
	if summary.TotalDuration > 0 {
		summary.EfficiencyRatio = summary.CriticalPathDuration / summary.TotalDuration
	}

	a.store(kindCost, summary)
	return summary
}
