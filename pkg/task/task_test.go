package task

import (
	"math"
	"testing"
)

func TestStatusTransitions(t *testing.T) {
	n := NewNode("a", "build", "compile")
	if n.Status != StatusPending {
		t.Fatalf("initial status = %v, want %v", n.Status, StatusPending)
	}

	n.MarkReady()
	if n.Status != StatusReady {
		t.Errorf("after MarkReady status = %v", n.Status)
	}

	n.MarkRunning()
	if n.Status != StatusRunning {
		t.Errorf("after MarkRunning status = %v", n.Status)
	}
	if n.StartedAt.IsZero() {
		t.Error("MarkRunning did not record a start time")
	}

	n.MarkCompleted(0)
	if n.Status != StatusCompleted {
		t.Errorf("after MarkCompleted status = %v", n.Status)
	}
	if n.FinishedAt.IsZero() {
		t.Error("MarkCompleted did not record an end time")
	}
	if n.ActualDuration < 0 {
		t.Errorf("derived duration = %v, want >= 0", n.ActualDuration)
	}
}

func TestMarkCompletedExplicitDuration(t *testing.T) {
	n := NewNode("a", "build", "compile")
	n.MarkRunning()
	n.MarkCompleted(12.5)
	if n.ActualDuration != 12.5 {
		t.Errorf("ActualDuration = %v, want 12.5", n.ActualDuration)
	}
}

func TestMarkFailed(t *testing.T) {
	n := NewNode("a", "build", "compile")
	n.MarkRunning()
	n.MarkFailed("out of memory")
	if n.Status != StatusFailed {
		t.Errorf("status = %v, want %v", n.Status, StatusFailed)
	}
	if n.ErrorMessage != "out of memory" {
		t.Errorf("ErrorMessage = %q", n.ErrorMessage)
	}
	if n.FinishedAt.IsZero() {
		t.Error("MarkFailed did not record an end time")
	}
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := []Status{StatusCompleted, StatusFailed, StatusCancelled}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%v.IsTerminal() = false, want true", s)
		}
	}
	active := []Status{StatusPending, StatusReady, StatusRunning, StatusBlocked}
	for _, s := range active {
		if s.IsTerminal() {
			t.Errorf("%v.IsTerminal() = true, want false", s)
		}
	}
}

func TestTotalCost(t *testing.T) {
	c := CostModel{Duration: 100, MonetaryCost: 5}
	want := 5 + 100*DurationCostRate
	if got := c.TotalCost(); math.Abs(got-want) > 1e-9 {
		t.Errorf("TotalCost() = %v, want %v", got, want)
	}
}

func TestEdgeClassification(t *testing.T) {
	tests := []struct {
		edgeType        EdgeType
		dependency      bool
		conditional     bool
		weak            bool
		cycleSignifiant bool
	}{
		{EdgeDependency, true, false, false, true},
		{EdgeConstraint, false, false, false, true},
		{EdgeDataFlow, false, false, false, false},
		{EdgeConditional, false, true, false, false},
		{EdgeWeak, false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.edgeType), func(t *testing.T) {
			e := NewEdge("a", "b", tt.edgeType)
			if e.IsDependency() != tt.dependency {
				t.Errorf("IsDependency() = %v", e.IsDependency())
			}
			if e.IsConditional() != tt.conditional {
				t.Errorf("IsConditional() = %v", e.IsConditional())
			}
			if e.IsWeak() != tt.weak {
				t.Errorf("IsWeak() = %v", e.IsWeak())
			}
			if e.CycleSignificant() != tt.cycleSignifiant {
				t.Errorf("CycleSignificant() = %v", e.CycleSignificant())
			}
		})
	}
}

func TestNeighborIDsSorted(t *testing.T) {
	n := NewNode("x", "x", "")
	n.Dependencies["c"] = true
	n.Dependencies["a"] = true
	n.Dependencies["b"] = true
	got := n.DependencyIDs()
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DependencyIDs() = %v, want %v", got, want)
		}
	}
}
