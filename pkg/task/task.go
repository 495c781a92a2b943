// Package task defines the node and edge model for task-dependency graphs.
//
// A [Node] is a value-like entity carrying identity, lifecycle status, a cost
// model, and arbitrary metadata. An [Edge] is a typed, weighted directed
// connection between two nodes. Neither type performs graph bookkeeping on
// its own: adjacency and dependency sets are owned and mutated exclusively by
// the graph container in pkg/taskgraph.
package task

import "time"

// Status is the lifecycle state of a task node.
type Status string

// Lifecycle states a node moves through. A node starts as StatusPending and
// is driven forward by an external scheduler reporting transitions back in.
const (
	StatusPending   Status = "pending"
	StatusReady     Status = "ready"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
	StatusBlocked   Status = "blocked"
)

// IsTerminal reports whether the status is a final state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// DurationCostRate converts duration units into the monetary scale used by
// [CostModel.TotalCost], blending time and money into one comparable scalar.
const DurationCostRate = 0.1

// CostModel captures the estimated resource footprint of a single task.
// Duration is expressed in seconds; the remaining dimensions are free units
// interpreted by the caller.
type CostModel struct {
	Duration      float64 `json:"duration" bson:"duration"`
	MonetaryCost  float64 `json:"monetary_cost" bson:"monetary_cost"`
	CPUUnits      float64 `json:"cpu_units" bson:"cpu_units"`
	MemoryMB      float64 `json:"memory_mb" bson:"memory_mb"`
	IOOps         float64 `json:"io_ops" bson:"io_ops"`
	BandwidthMbps float64 `json:"bandwidth_mbps" bson:"bandwidth_mbps"`
}

// TotalCost blends monetary cost and duration into a single scalar so
// analyzers can compare nodes on one axis.
func (c CostModel) TotalCost() float64 {
	return c.MonetaryCost + c.Duration*DurationCostRate
}

// Node represents a task in the dependency graph.
//
// Dependencies and Dependents are maintained by the graph container as the
// exact inverse of the edges currently touching the node. They must never be
// mutated directly; outside of a single graph mutation they are always
// consistent with the edge list.
type Node struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Priority int            `json:"priority"`
	Status   Status         `json:"status"`
	Cost     CostModel      `json:"cost_model"`
	Metadata map[string]any `json:"metadata,omitempty"`

	// Dependencies holds the IDs of nodes this task depends on (edge
	// sources), Dependents the IDs of nodes depending on it (edge targets).
	Dependencies map[string]bool `json:"-"`
	Dependents   map[string]bool `json:"-"`

	// Execution bookkeeping, written through the Mark* transitions.
	StartedAt      time.Time `json:"started_at,omitzero"`
	FinishedAt     time.Time `json:"finished_at,omitzero"`
	ActualDuration float64   `json:"actual_duration,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`

	// Derived fields, written only by the graph and analyzer passes.
	Level                 int     `json:"level"`
	OnCriticalPath        bool    `json:"on_critical_path"`
	InfluenceScore        float64 `json:"influence_score"`
	ParallelizationFactor float64 `json:"parallelization_factor"`
}

// NewNode creates a pending node with initialized metadata and neighbor sets.
func NewNode(id, name, nodeType string) *Node {
	return &Node{
		ID:           id,
		Name:         name,
		Type:         nodeType,
		Status:       StatusPending,
		Metadata:     map[string]any{},
		Dependencies: map[string]bool{},
		Dependents:   map[string]bool{},
	}
}

// MarkReady transitions the node to the ready state.
func (n *Node) MarkReady() {
	n.Status = StatusReady
}

// MarkRunning transitions the node to running and records the start time.
func (n *Node) MarkRunning() {
	n.Status = StatusRunning
	n.StartedAt = time.Now()
}

// MarkCompleted transitions the node to completed and records the end time.
// If actualDuration is positive it is recorded as-is; otherwise the duration
// is derived from the start and end timestamps.
func (n *Node) MarkCompleted(actualDuration float64) {
	n.Status = StatusCompleted
	n.FinishedAt = time.Now()
	if actualDuration > 0 {
		n.ActualDuration = actualDuration
	} else if !n.StartedAt.IsZero() {
		n.ActualDuration = n.FinishedAt.Sub(n.StartedAt).Seconds()
	}
}

// MarkFailed transitions the node to failed, recording the end time, the
// elapsed duration, and the failure message.
func (n *Node) MarkFailed(message string) {
	n.Status = StatusFailed
	n.FinishedAt = time.Now()
	n.ErrorMessage = message
	if !n.StartedAt.IsZero() {
		n.ActualDuration = n.FinishedAt.Sub(n.StartedAt).Seconds()
	}
}

// MarkCancelled transitions the node to cancelled.
func (n *Node) MarkCancelled() {
	n.Status = StatusCancelled
}

// MarkBlocked transitions the node to blocked.
func (n *Node) MarkBlocked() {
	n.Status = StatusBlocked
}

// DependencyIDs returns the node's dependency set as a sorted slice.
func (n *Node) DependencyIDs() []string { return sortedKeys(n.Dependencies) }

// DependentIDs returns the node's dependent set as a sorted slice.
func (n *Node) DependentIDs() []string { return sortedKeys(n.Dependents) }
