// Package monitor applies execution events to a task graph.
//
// An external scheduler reports task lifecycle events (started, completed,
// failed, cancelled); the monitor translates them into node status
// transitions and propagates the consequences: completing a task promotes
// dependents whose gating dependencies are all satisfied to ready, and a
// failure blocks everything downstream of it.
//
// Only dependency and constraint edges gate readiness. Dataflow, conditional,
// and weak edges annotate the graph without holding tasks back.
package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskgraph/pkg/task"
	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

// EventKind identifies a task lifecycle transition.
type EventKind string

// Event kinds reported by schedulers.
const (
	EventStarted   EventKind = "started"
	EventCompleted EventKind = "completed"
	EventFailed    EventKind = "failed"
	EventCancelled EventKind = "cancelled"
)

// ErrUnknownEvent is returned for an event kind the monitor does not handle.
var ErrUnknownEvent = errors.New("unknown event kind")

// Event is a single lifecycle report for one task.
type Event struct {
	TaskID string    `json:"task_id"`
	Kind   EventKind `json:"kind"`

	// Duration is the measured execution time in seconds. Used for
	// completed events; zero lets the node derive it from timestamps.
	Duration float64 `json:"duration,omitempty"`

	// Message carries the failure reason for failed events.
	Message string `json:"message,omitempty"`
}

// Monitor drives status transitions on a graph from scheduler events.
type Monitor struct {
	graph  *taskgraph.Graph
	logger *log.Logger
}

// New creates a monitor for the graph. A nil logger falls back to
// [log.Default].
func New(g *taskgraph.Graph, logger *log.Logger) *Monitor {
	if logger == nil {
		logger = log.Default()
	}
	return &Monitor{graph: g, logger: logger}
}

// Apply processes one event, transitioning the named task and propagating
// readiness or blockage to its dependents.
func (m *Monitor) Apply(ctx context.Context, ev Event) error {
	node, ok := m.graph.Node(ev.TaskID)
	if !ok {
		return fmt.Errorf("applying %s event: %w: %s", ev.Kind, taskgraph.ErrNotFound, ev.TaskID)
	}

	switch ev.Kind {
	case EventStarted:
		node.MarkRunning()
	case EventCompleted:
		node.MarkCompleted(ev.Duration)
		m.promoteDependents(node)
	case EventFailed:
		node.MarkFailed(ev.Message)
		m.blockDownstream(node)
	case EventCancelled:
		node.MarkCancelled()
		m.blockDownstream(node)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}

	m.logger.Debug("applied event", "task", ev.TaskID, "kind", ev.Kind, "status", node.Status)
	return nil
}

// RefreshReady promotes every pending task whose gating dependencies are all
// completed, including tasks with no gating dependencies at all. It returns
// the IDs of the tasks promoted, in sorted order.
func (m *Monitor) RefreshReady() []string {
	var promoted []string
	for _, node := range m.graph.Nodes() {
		if node.Status != task.StatusPending {
			continue
		}
		if m.gatingSatisfied(node.ID) {
			node.MarkReady()
			promoted = append(promoted, node.ID)
		}
	}
	return promoted
}

// Ready returns the IDs of all tasks currently in the ready state, sorted.
func (m *Monitor) Ready() []string {
	var ready []string
	for _, node := range m.graph.Nodes() {
		if node.Status == task.StatusReady {
			ready = append(ready, node.ID)
		}
	}
	return ready
}

// Progress reports the graph's aggregate execution statistics.
func (m *Monitor) Progress() taskgraph.Stats {
	return m.graph.Stats()
}

// promoteDependents moves dependents of a completed node to ready once all
// of their gating dependencies are completed.
func (m *Monitor) promoteDependents(node *task.Node) {
	for _, depID := range node.DependentIDs() {
		dep, ok := m.graph.Node(depID)
		if !ok || dep.Status != task.StatusPending {
			continue
		}
		if m.gatingSatisfied(depID) {
			dep.MarkReady()
			m.logger.Debug("task ready", "task", depID)
		}
	}
}

// blockDownstream marks everything reachable from node over gating edges as
// blocked, except tasks that already reached a terminal state.
func (m *Monitor) blockDownstream(node *task.Node) {
	stack := []string{node.ID}
	seen := map[string]bool{node.ID: true}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, edge := range m.graph.Edges() {
			if edge.Source != id || !edge.CycleSignificant() {
				continue
			}
			if seen[edge.Target] {
				continue
			}
			seen[edge.Target] = true

			dep, ok := m.graph.Node(edge.Target)
			if !ok || dep.Status.IsTerminal() {
				continue
			}
			dep.MarkBlocked()
			m.logger.Debug("task blocked", "task", edge.Target, "cause", node.ID)
			stack = append(stack, edge.Target)
		}
	}
}

// gatingSatisfied reports whether every dependency or constraint edge into
// the task comes from a completed source.
func (m *Monitor) gatingSatisfied(id string) bool {
	for _, edge := range m.graph.Edges() {
		if edge.Target != id || !edge.CycleSignificant() {
			continue
		}
		src, ok := m.graph.Node(edge.Source)
		if !ok || src.Status != task.StatusCompleted {
			return false
		}
	}
	return true
}
