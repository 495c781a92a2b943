package graphdoc

import (
	"fmt"
	"time"

	"github.com/matzehuels/taskgraph/pkg/task"
	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

// Document is the serialized form of a task graph.
type Document struct {
	GraphID   string          `json:"graph_id" bson:"graph_id"`
	Metadata  map[string]any  `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Nodes     map[string]Node `json:"nodes" bson:"nodes"`
	Edges     []Edge          `json:"edges" bson:"edges"`
	NodeCount int             `json:"node_count" bson:"node_count"`
	EdgeCount int             `json:"edge_count" bson:"edge_count"`
}

// Node is the serialized form of a task node.
type Node struct {
	ID             string         `json:"id" bson:"id"`
	Name           string         `json:"name" bson:"name"`
	Type           string         `json:"type,omitempty" bson:"type,omitempty"`
	Priority       int            `json:"priority" bson:"priority"`
	Status         string         `json:"status" bson:"status"`
	Cost           task.CostModel `json:"cost_model" bson:"cost_model"`
	Metadata       map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Dependencies   []string       `json:"dependencies,omitempty" bson:"dependencies,omitempty"`
	Dependents     []string       `json:"dependents,omitempty" bson:"dependents,omitempty"`
	Level          int            `json:"level" bson:"level"`
	OnCriticalPath bool           `json:"on_critical_path" bson:"on_critical_path"`
	InfluenceScore float64        `json:"influence_score" bson:"influence_score"`
	StartedAt      time.Time      `json:"started_at,omitzero" bson:"started_at,omitempty"`
	FinishedAt     time.Time      `json:"finished_at,omitzero" bson:"finished_at,omitempty"`
	ActualDuration float64        `json:"actual_duration,omitempty" bson:"actual_duration,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty" bson:"error_message,omitempty"`
}

// Edge is the serialized form of a task edge.
type Edge struct {
	Source      string            `json:"source_id" bson:"source_id"`
	Target      string            `json:"target_id" bson:"target_id"`
	Type        string            `json:"edge_type" bson:"edge_type"`
	Weight      float64           `json:"weight" bson:"weight"`
	Constraints map[string]string `json:"constraints,omitempty" bson:"constraints,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// FromGraph converts a graph to its serialization format. Node entries are
// keyed by ID and edges keep insertion order, so output is deterministic.
func FromGraph(g *taskgraph.Graph) Document {
	doc := Document{
		GraphID:   g.ID,
		Metadata:  g.Metadata,
		Nodes:     make(map[string]Node, g.NodeCount()),
		Edges:     make([]Edge, 0, g.EdgeCount()),
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
	}

	for _, n := range g.Nodes() {
		doc.Nodes[n.ID] = Node{
			ID:             n.ID,
			Name:           n.Name,
			Type:           n.Type,
			Priority:       n.Priority,
			Status:         string(n.Status),
			Cost:           n.Cost,
			Metadata:       n.Metadata,
			Dependencies:   n.DependencyIDs(),
			Dependents:     n.DependentIDs(),
			Level:          n.Level,
			OnCriticalPath: n.OnCriticalPath,
			InfluenceScore: n.InfluenceScore,
			StartedAt:      n.StartedAt,
			FinishedAt:     n.FinishedAt,
			ActualDuration: n.ActualDuration,
			ErrorMessage:   n.ErrorMessage,
		}
	}

	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, Edge{
			Source:      e.Source,
			Target:      e.Target,
			Type:        string(e.Type),
			Weight:      e.Weight,
			Constraints: e.Constraints,
			Metadata:    e.Metadata,
		})
	}

	return doc
}

// ToGraph rebuilds a graph from its serialized form. Neighbor sets are not
// read back from the document; they are reconstructed edge by edge, so a
// well-formed document always yields a graph with consistent indices.
func ToGraph(doc Document) (*taskgraph.Graph, error) {
	g := taskgraph.New(doc.Metadata)
	if doc.GraphID != "" {
		g.ID = doc.GraphID
	}

	for _, nd := range doc.Nodes {
		n := task.NewNode(nd.ID, nd.Name, nd.Type)
		n.Priority = nd.Priority
		if nd.Status != "" {
			n.Status = task.Status(nd.Status)
		}
		n.Cost = nd.Cost
		if nd.Metadata != nil {
			n.Metadata = nd.Metadata
		}
		n.Level = nd.Level
		n.OnCriticalPath = nd.OnCriticalPath
		n.InfluenceScore = nd.InfluenceScore
		n.StartedAt = nd.StartedAt
		n.FinishedAt = nd.FinishedAt
		n.ActualDuration = nd.ActualDuration
		n.ErrorMessage = nd.ErrorMessage
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nd.ID, err)
		}
	}

	for _, ed := range doc.Edges {
		e := task.Edge{
			Source:      ed.Source,
			Target:      ed.Target,
			Type:        task.EdgeType(ed.Type),
			Weight:      ed.Weight,
			Constraints: ed.Constraints,
			Metadata:    ed.Metadata,
		}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s -> %s: %w", ed.Source, ed.Target, err)
		}
	}

	return g, nil
}
