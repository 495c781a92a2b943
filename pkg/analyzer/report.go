package analyzer

import "github.com/matzehuels/taskgraph/pkg/taskgraph"

// Report aggregates every analysis into one structure for consumers such as
// the exporter and the HTTP API.
type Report struct {
	Stats                taskgraph.Stats    `json:"stats"`
	CriticalPath         []string           `json:"critical_path"`
	CriticalPathDuration float64            `json:"critical_path_duration"`
	Cycles               [][]string         `json:"cycles"`
	Bottlenecks          []Bottleneck       `json:"bottlenecks"`
	Criticality          map[string]float64 `json:"criticality"`
	Influence            map[string]float64 `json:"influence"`
	ParallelizationIndex float64            `json:"parallelization_index"`
	ParallelStages       [][]string         `json:"parallel_stages"`
	Health               Health             `json:"health"`
	Cost                 CostSummary        `json:"cost"`
	RedundancyScore      float64            `json:"redundancy_score"`
}

// AnalysisReport runs every analysis pass and aggregates the results.
// Individual passes hit the version-tagged cache, so a repeated call on an
// unmodified graph is cheap.
func (a *Analyzer) AnalysisReport() Report {
	if v, ok := a.lookup(kindReport); ok {
		return v.(Report)
	}

	report := Report{
		Stats:                a.graph.Stats(),
		Cycles:               a.FindAllCycles(),
		Bottlenecks:          a.FindBottlenecks(bottleneckThreshold),
		Criticality:          a.NodeCriticality(),
		Influence:            a.InfluenceScores(),
		ParallelizationIndex: a.ParallelizationIndex(),
		ParallelStages:       a.ParallelStages(),
		Health:               a.GraphHealth(),
		Cost:                 a.TotalCost(),
		RedundancyScore:      a.RedundancyScore(),
	}
	if path, total, err := a.graph.CriticalPath(); err == nil {
		report.CriticalPath = path
		report.CriticalPathDuration = total
	}

	a.store(kindReport, report)
	return report
}
