package taskgraph

import (
	"errors"
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/taskgraph/pkg/task"
)

func TestTopologicalSortRespectsEdges(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"e", "d", "c", "b", "a"} {
		addNode(t, g, id)
	}
	edges := [][2]string{{"a", "b"}, {"b", "c"}, {"a", "d"}, {"d", "e"}, {"c", "e"}}
	for _, e := range edges {
		if err := g.AddEdge(task.NewEdge(e[0], e[1], task.EdgeDependency)); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort: %v", err)
	}
	if len(order) != g.NodeCount() {
		t.Fatalf("order has %d entries, want %d", len(order), g.NodeCount())
	}

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range edges {
		if pos[e[0]] >= pos[e[1]] {
			t.Errorf("edge %s->%s violated: pos %d >= %d", e[0], e[1], pos[e[0]], pos[e[1]])
		}
	}
}

func TestTopologicalSortDeterministic(t *testing.T) {
	build := func() *Graph {
		g := New(nil)
		for _, id := range []string{"c", "a", "b"} {
			addNode(t, g, id)
		}
		return g
	}
	first, _ := build().TopologicalSort()
	for i := 0; i < 5; i++ {
		again, _ := build().TopologicalSort()
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("order not deterministic: %v vs %v", first, again)
		}
	}
	if !slices.IsSorted(first) {
		t.Errorf("independent nodes not ordered by ID: %v", first)
	}
}

func TestTopologicalSortResidualCycle(t *testing.T) {
	// Weak edges are not cycle-checked at insertion, so a weak-only cycle
	// survives until the sort rejects it.
	g := New(nil)
	addNode(t, g, "a")
	addNode(t, g, "b")
	if err := g.AddEdge(task.NewEdge("a", "b", task.EdgeWeak)); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge(task.NewEdge("b", "a", task.EdgeWeak)); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	if _, err := g.TopologicalSort(); !errors.Is(err, ErrValidation) {
		t.Errorf("TopologicalSort error = %v, want ErrValidation", err)
	}
}

func TestNodeLevels(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"a", "b", "c", "d"} {
		addNode(t, g, id)
	}
	// Diamond: a -> b, a -> c, b -> d, c -> d.
	for _, e := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}} {
		if err := g.AddEdge(task.NewEdge(e[0], e[1], task.EdgeDependency)); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}

	levels, err := g.NodeLevels()
	if err != nil {
		t.Fatalf("NodeLevels: %v", err)
	}
	want := map[string]int{"a": 0, "b": 1, "c": 1, "d": 2}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("levels = %v, want %v", levels, want)
	}
	for id, level := range want {
		if n, _ := g.Node(id); n.Level != level {
			t.Errorf("node %s Level = %d, want %d", id, n.Level, level)
		}
	}
}

func TestCriticalPathChain(t *testing.T) {
	g := buildChain(t, 5, 10, 3)

	path, total, err := g.CriticalPath()
	if err != nil {
		t.Fatalf("CriticalPath: %v", err)
	}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(path, want) {
		t.Errorf("path = %v, want %v", path, want)
	}
	if total != 18 {
		t.Errorf("total = %v, want 18", total)
	}

	// Total equals the sum of the path's own durations and is at least any
	// single node's duration.
	sum := 0.0
	for _, id := range path {
		n, _ := g.Node(id)
		sum += n.Cost.Duration
		if total < n.Cost.Duration {
			t.Errorf("total %v < duration of %s", total, id)
		}
		if !n.OnCriticalPath {
			t.Errorf("node %s not marked on critical path", id)
		}
	}
	if math.Abs(total-sum) > 1e-9 {
		t.Errorf("total %v != path sum %v", total, sum)
	}
}

func TestCriticalPathTieBreak(t *testing.T) {
	// Two identical branches into a sink: the predecessor tie must resolve
	// to the lowest node ID regardless of map iteration order.
	g := New(nil)
	for _, id := range []string{"sink", "b2", "b1", "root"} {
		addNode(t, g, id)
	}
	for _, n := range []string{"root", "b1", "b2", "sink"} {
		node, _ := g.Node(n)
		node.Cost.Duration = 4
	}
	for _, e := range [][2]string{{"root", "b1"}, {"root", "b2"}, {"b1", "sink"}, {"b2", "sink"}} {
		if err := g.AddEdge(task.NewEdge(e[0], e[1], task.EdgeDependency)); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}

	want := []string{"root", "b1", "sink"}
	for i := 0; i < 10; i++ {
		g.bump() // force recomputation past the cache
		path, total, err := g.CriticalPath()
		if err != nil {
			t.Fatalf("CriticalPath: %v", err)
		}
		if total != 12 {
			t.Fatalf("total = %v, want 12", total)
		}
		if !reflect.DeepEqual(path, want) {
			t.Fatalf("path = %v, want %v (lowest-ID tie-break)", path, want)
		}
	}
}

func TestCriticalPathMarksReset(t *testing.T) {
	g := buildChain(t, 1, 10, 1)
	if _, _, err := g.CriticalPath(); err != nil {
		t.Fatalf("CriticalPath: %v", err)
	}

	// Extending the graph with a longer branch must clear stale marks.
	n := task.NewNode("D", "D", "generic")
	n.Cost.Duration = 100
	if err := g.AddNode(n); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	path, _, err := g.CriticalPath()
	if err != nil {
		t.Fatalf("CriticalPath: %v", err)
	}
	if want := []string{"D"}; !reflect.DeepEqual(path, want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for _, id := range []string{"A", "B", "C"} {
		if node, _ := g.Node(id); node.OnCriticalPath {
			t.Errorf("node %s kept a stale critical-path mark", id)
		}
	}
}

func TestCriticalPathEmptyGraph(t *testing.T) {
	g := New(nil)
	path, total, err := g.CriticalPath()
	if err != nil {
		t.Fatalf("CriticalPath: %v", err)
	}
	if len(path) != 0 || total != 0 {
		t.Errorf("empty graph path = %v, total = %v", path, total)
	}
}

func TestCachedOrderInvalidation(t *testing.T) {
	g := buildChain(t, 1, 1, 1)
	first, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort: %v", err)
	}

	addNode(t, g, "AA")
	second, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort after mutation: %v", err)
	}
	if len(second) != len(first)+1 {
		t.Errorf("stale cached order returned: %v", second)
	}
}
