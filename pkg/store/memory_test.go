package store

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/taskgraph/pkg/graphdoc"
	"github.com/matzehuels/taskgraph/pkg/task"
	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

func testDocument(t *testing.T, id string) *graphdoc.Document {
	t.Helper()
	g := taskgraph.New(nil)
	if err := g.AddNode(task.NewNode("a", "Task A", "compute")); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	if err := g.AddNode(task.NewNode("b", "Task B", "compute")); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	if err := g.AddEdge(task.NewEdge("a", "b", task.EdgeDependency)); err != nil {
		t.Fatalf("AddEdge() error = %v", err)
	}
	doc := graphdoc.FromGraph(g)
	doc.GraphID = id
	return &doc
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	doc := testDocument(t, "g1")

	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.GraphID != "g1" {
		t.Errorf("GraphID = %q, want %q", got.GraphID, "g1")
	}
	if got.NodeCount != 2 || got.EdgeCount != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", got.NodeCount, got.EdgeCount)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStorePutReplaces(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := testDocument(t, "g1")
	if err := s.Put(ctx, first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	replacement := &graphdoc.Document{GraphID: "g1", Nodes: map[string]graphdoc.Node{}}
	if err := s.Put(ctx, replacement); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.NodeCount != 0 {
		t.Errorf("NodeCount = %d, want 0 after replacement", got.NodeCount)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, testDocument(t, "g1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Delete(ctx, "g1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "g1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		if err := s.Put(ctx, testDocument(t, id)); err != nil {
			t.Fatalf("Put(%q) error = %v", id, err)
		}
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(ids) != len(want) {
		t.Fatalf("List() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}
