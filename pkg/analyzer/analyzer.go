// Package analyzer provides read-only graph algorithms layered on a task
// graph: cycle enumeration, bottleneck and criticality scoring, influence
// ranking, parallel-stage grouping, cost aggregation, redundancy scoring,
// and a composite health score.
//
// The analyzer never mutates graph structure. It writes derived values
// (influence scores, parallelization factors) onto nodes, and memoizes each
// analysis keyed by the graph's mutation version: a cached entry is served
// only while its stored version matches the graph's current one, so results
// can never go stale after a mutation. ClearCache discards everything
// explicitly.
//
// All analyses return benign zero or empty results for degenerate input such
// as an empty graph; none of them return errors.
package analyzer

import "github.com/matzehuels/taskgraph/pkg/taskgraph"

// Analysis cache keys.
const (
	kindCycles          = "cycles"
	kindBottlenecks     = "bottlenecks"
	kindCriticality     = "criticality"
	kindInfluence       = "influence"
	kindParallelization = "parallelization"
	kindStages          = "stages"
	kindHealth          = "health"
	kindCost            = "cost"
	kindRedundancy      = "redundancy"
	kindReport          = "report"
)

type cacheEntry struct {
	version uint64
	value   any
}

// Analyzer computes derived views over a task graph.
// It is not safe for concurrent use; callers sharing one instance across
// goroutines must serialize access together with graph mutations.
type Analyzer struct {
	graph *taskgraph.Graph
	cache map[string]cacheEntry
}

// New creates an analyzer over the given graph.
func New(g *taskgraph.Graph) *Analyzer {
	return &Analyzer{
		graph: g,
		cache: make(map[string]cacheEntry),
	}
}

// Graph returns the underlying graph for advanced queries.
func (a *Analyzer) Graph() *taskgraph.Graph { return a.graph }

// ClearCache discards all memoized analysis results. Results are also
// discarded automatically when the graph's version moves past the one a
// cache entry was computed at, so calling this is only needed to free
// memory eagerly.
func (a *Analyzer) ClearCache() {
	a.cache = make(map[string]cacheEntry)
}

// lookup returns a memoized result if one exists for the graph's current
// version.
func (a *Analyzer) lookup(kind string) (any, bool) {
	e, ok := a.cache[kind]
	if !ok || e.version != a.graph.Version() {
		return nil, false
	}
	return e.value, true
}

// store memoizes a result tagged with the graph's current version.
func (a *Analyzer) store(kind string, value any) {
	a.cache[kind] = cacheEntry{version: a.graph.Version(), value: value}
}
