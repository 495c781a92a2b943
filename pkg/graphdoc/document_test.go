package graphdoc

import (
	"bytes"
	"reflect"
	"sort"
	"testing"

	"github.com/matzehuels/taskgraph/pkg/task"
	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

func buildGraph(t *testing.T) *taskgraph.Graph {
	t.Helper()
	g := taskgraph.New(map[string]any{"project": "release"})
	for i, id := range []string{"fetch", "build", "test", "deploy"} {
		n := task.NewNode(id, id, "step")
		n.Priority = i
		n.Cost = task.CostModel{Duration: float64(i+1) * 10, MonetaryCost: 2}
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	edges := []task.Edge{
		task.NewEdge("fetch", "build", task.EdgeDependency),
		task.NewEdge("build", "test", task.EdgeDependency),
		task.NewEdge("build", "deploy", task.EdgeConstraint),
		task.NewEdge("fetch", "deploy", task.EdgeDataFlow),
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s->%s): %v", e.Source, e.Target, err)
		}
	}
	return g
}

func edgePairs(g *taskgraph.Graph) [][2]string {
	var pairs [][2]string
	for _, e := range g.Edges() {
		pairs = append(pairs, [2]string{e.Source, e.Target})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

func TestRoundTrip(t *testing.T) {
	g := buildGraph(t)

	restored, err := ToGraph(FromGraph(g))
	if err != nil {
		t.Fatalf("ToGraph: %v", err)
	}

	if restored.NodeCount() != g.NodeCount() {
		t.Errorf("NodeCount = %d, want %d", restored.NodeCount(), g.NodeCount())
	}
	if restored.EdgeCount() != g.EdgeCount() {
		t.Errorf("EdgeCount = %d, want %d", restored.EdgeCount(), g.EdgeCount())
	}
	if restored.ID != g.ID {
		t.Errorf("GraphID = %q, want %q", restored.ID, g.ID)
	}
	if !reflect.DeepEqual(edgePairs(restored), edgePairs(g)) {
		t.Errorf("edge pairs differ:\n%v\n%v", edgePairs(restored), edgePairs(g))
	}

	build, ok := restored.Node("build")
	if !ok {
		t.Fatal("restored graph is missing node build")
	}
	if build.Cost.Duration != 20 {
		t.Errorf("build duration = %v, want 20", build.Cost.Duration)
	}
	if build.Type != "step" {
		t.Errorf("build type = %q, want step", build.Type)
	}
}

func TestRoundTripRebuildsNeighborSets(t *testing.T) {
	restored, err := ToGraph(FromGraph(buildGraph(t)))
	if err != nil {
		t.Fatalf("ToGraph: %v", err)
	}
	ok, problems := restored.Validate()
	if !ok {
		t.Errorf("restored graph invalid: %v", problems)
	}
}

func TestDocumentCounts(t *testing.T) {
	doc := FromGraph(buildGraph(t))
	if doc.NodeCount != 4 || doc.EdgeCount != 4 {
		t.Errorf("doc counts = (%d, %d), want (4, 4)", doc.NodeCount, doc.EdgeCount)
	}
	if len(doc.Nodes) != doc.NodeCount {
		t.Errorf("len(Nodes) = %d, want %d", len(doc.Nodes), doc.NodeCount)
	}
	if len(doc.Edges) != doc.EdgeCount {
		t.Errorf("len(Edges) = %d, want %d", len(doc.Edges), doc.EdgeCount)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	g := buildGraph(t)

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	restored, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(edgePairs(restored), edgePairs(g)) {
		t.Error("edge pairs lost in JSON round trip")
	}

	// Serialization is deterministic for a given graph.
	again, err := Marshal(g)
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("Marshal output is not deterministic")
	}
}

func TestReadRejectsMalformed(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("{not json"))); err == nil {
		t.Error("Read accepted malformed input")
	}
}

func TestToGraphRejectsDanglingEdge(t *testing.T) {
	doc := Document{
		GraphID: "g",
		Nodes:   map[string]Node{"a": {ID: "a"}},
		Edges:   []Edge{{Source: "a", Target: "ghost", Type: "dependency"}},
	}
	if _, err := ToGraph(doc); err == nil {
		t.Error("ToGraph accepted an edge to a missing node")
	}
}
