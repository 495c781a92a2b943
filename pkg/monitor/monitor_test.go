package monitor

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskgraph/pkg/task"
	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

// buildPipeline constructs a -> b -> c with a weak annotation c -> a.
func buildPipeline(t *testing.T) *taskgraph.Graph {
	t.Helper()
	g := taskgraph.New(nil)
	for _, id := range []string{"a", "b", "c"} {
		if err := g.AddNode(task.NewNode(id, "Task "+id, "compute")); err != nil {
			t.Fatalf("AddNode(%q) error = %v", id, err)
		}
	}
	if err := g.AddEdge(task.NewEdge("a", "b", task.EdgeDependency)); err != nil {
		t.Fatalf("AddEdge(a->b) error = %v", err)
	}
	if err := g.AddEdge(task.NewEdge("b", "c", task.EdgeDependency)); err != nil {
		t.Fatalf("AddEdge(b->c) error = %v", err)
	}
	if err := g.AddEdge(task.NewEdge("c", "a", task.EdgeWeak)); err != nil {
		t.Fatalf("AddEdge(c->a weak) error = %v", err)
	}
	return g
}

func newMonitor(t *testing.T) (*Monitor, *taskgraph.Graph) {
	t.Helper()
	g := buildPipeline(t)
	return New(g, log.New(io.Discard)), g
}

func status(t *testing.T, g *taskgraph.Graph, id string) task.Status {
	t.Helper()
	node, ok := g.Node(id)
	if !ok {
		t.Fatalf("Node(%q) not found", id)
	}
	return node.Status
}

func TestRefreshReadyPromotesRoots(t *testing.T) {
	m, g := newMonitor(t)

	promoted := m.RefreshReady()
	if !slices.Equal(promoted, []string{"a"}) {
		t.Errorf("RefreshReady() = %v, want [a]", promoted)
	}
	if got := status(t, g, "a"); got != task.StatusReady {
		t.Errorf("status(a) = %q, want ready", got)
	}
	if got := status(t, g, "b"); got != task.StatusPending {
		t.Errorf("status(b) = %q, want pending", got)
	}
}

func TestCompletionPromotesDependents(t *testing.T) {
	m, g := newMonitor(t)
	ctx := context.Background()

	if err := m.Apply(ctx, Event{TaskID: "a", Kind: EventStarted}); err != nil {
		t.Fatalf("Apply(started) error = %v", err)
	}
	if got := status(t, g, "a"); got != task.StatusRunning {
		t.Errorf("status(a) = %q, want running", got)
	}

	if err := m.Apply(ctx, Event{TaskID: "a", Kind: EventCompleted, Duration: 4.2}); err != nil {
		t.Fatalf("Apply(completed) error = %v", err)
	}

	if got := status(t, g, "b"); got != task.StatusReady {
		t.Errorf("status(b) = %q, want ready after a completes", got)
	}
	if got := status(t, g, "c"); got != task.StatusPending {
		t.Errorf("status(c) = %q, want pending until b completes", got)
	}

	a, _ := g.Node("a")
	if a.ActualDuration != 4.2 {
		t.Errorf("ActualDuration = %v, want 4.2", a.ActualDuration)
	}
}

func TestWeakEdgeDoesNotGateReadiness(t *testing.T) {
	m, g := newMonitor(t)
	ctx := context.Background()

	// "a" has an incoming weak edge from "c"; it must still be promotable.
	_ = m.RefreshReady()
	if got := status(t, g, "a"); got != task.StatusReady {
		t.Errorf("status(a) = %q, want ready despite weak in-edge", got)
	}

	if err := m.Apply(ctx, Event{TaskID: "a", Kind: EventCompleted}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if err := m.Apply(ctx, Event{TaskID: "b", Kind: EventCompleted}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := status(t, g, "c"); got != task.StatusReady {
		t.Errorf("status(c) = %q, want ready", got)
	}
}

func TestFailureBlocksDownstream(t *testing.T) {
	m, g := newMonitor(t)
	ctx := context.Background()

	if err := m.Apply(ctx, Event{TaskID: "a", Kind: EventFailed, Message: "disk full"}); err != nil {
		t.Fatalf("Apply(failed) error = %v", err)
	}

	if got := status(t, g, "a"); got != task.StatusFailed {
		t.Errorf("status(a) = %q, want failed", got)
	}
	for _, id := range []string{"b", "c"} {
		if got := status(t, g, id); got != task.StatusBlocked {
			t.Errorf("status(%s) = %q, want blocked", id, got)
		}
	}

	a, _ := g.Node("a")
	if a.ErrorMessage != "disk full" {
		t.Errorf("ErrorMessage = %q, want %q", a.ErrorMessage, "disk full")
	}
}

func TestFailureSkipsTerminalDownstream(t *testing.T) {
	m, g := newMonitor(t)
	ctx := context.Background()

	// Complete b out of band, then fail a: b keeps its terminal state.
	b, _ := g.Node("b")
	b.MarkCompleted(1)

	if err := m.Apply(ctx, Event{TaskID: "a", Kind: EventFailed, Message: "boom"}); err != nil {
		t.Fatalf("Apply(failed) error = %v", err)
	}
	if got := status(t, g, "b"); got != task.StatusCompleted {
		t.Errorf("status(b) = %q, want completed preserved", got)
	}
	if got := status(t, g, "c"); got != task.StatusBlocked {
		t.Errorf("status(c) = %q, want blocked", got)
	}
}

func TestApplyErrors(t *testing.T) {
	m, _ := newMonitor(t)
	ctx := context.Background()

	if err := m.Apply(ctx, Event{TaskID: "ghost", Kind: EventStarted}); !errors.Is(err, taskgraph.ErrNotFound) {
		t.Errorf("Apply(unknown task) error = %v, want ErrNotFound", err)
	}
	if err := m.Apply(ctx, Event{TaskID: "a", Kind: "paused"}); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("Apply(unknown kind) error = %v, want ErrUnknownEvent", err)
	}
}

func TestProgress(t *testing.T) {
	m, _ := newMonitor(t)
	ctx := context.Background()

	_ = m.RefreshReady()
	if err := m.Apply(ctx, Event{TaskID: "a", Kind: EventCompleted}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	stats := m.Progress()
	if stats.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", stats.NodeCount)
	}
	if stats.StatusCounts[task.StatusCompleted] != 1 {
		t.Errorf("completed count = %d, want 1", stats.StatusCounts[task.StatusCompleted])
	}
	if want := 1.0 / 3.0; stats.CompletionRate != want {
		t.Errorf("CompletionRate = %v, want %v", stats.CompletionRate, want)
	}
}
