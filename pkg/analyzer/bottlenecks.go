package analyzer

import (
	"fmt"
	"sort"
)

// Bottleneck kinds.
const (
	KindConvergence = "convergence"
	KindDivergence  = "divergence"
)

// Bottleneck describes a node whose fan-in or fan-out meets the detection
// threshold. Score is the sum of both degrees.
type Bottleneck struct {
	NodeID string `json:"node_id"`
	FanIn  int    `json:"fan_in"`
	FanOut int    `json:"fan_out"`
	Score  int    `json:"score"`
	Kind   string `json:"kind"`
}

// FindBottlenecks flags nodes whose fan-in or fan-out is at least threshold.
// A node with high fan-in is classified as a convergence point, otherwise as
// a divergence point. Results are sorted by descending score with node ID as
// tiebreaker.
func (a *Analyzer) FindBottlenecks(threshold int) []Bottleneck {
	key := fmt.Sprintf("%s:%d", kindBottlenecks, threshold)
	if v, ok := a.lookup(key); ok {
		return v.([]Bottleneck)
	}

	g := a.graph
	var found []Bottleneck
	for _, id := range g.NodeIDs() {
		in := g.InDegree(id)
		out := g.OutDegree(id)
		if in < threshold && out < threshold {
			continue
		}
		kind := KindDivergence
		if in >= threshold {
			kind = KindConvergence
		}
		found = append(found, Bottleneck{
			NodeID: id,
			FanIn:  in,
			FanOut: out,
			Score:  in + out,
			Kind:   kind,
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Score != found[j].Score {
			return found[i].Score > found[j].Score
		}
		return found[i].NodeID < found[j].NodeID
	})

	a.store(key, found)
	return found
}
