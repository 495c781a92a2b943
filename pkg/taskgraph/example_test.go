package taskgraph_test

import (
	"fmt"

	"github.com/matzehuels/taskgraph/pkg/task"
	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

func ExampleGraph_basic() {
	// Build a simple pipeline: extract → transform → load
	g := taskgraph.New(nil)
	_ = g.AddNode(task.NewNode("extract", "Extract", "io"))
	_ = g.AddNode(task.NewNode("transform", "Transform", "compute"))
	_ = g.AddNode(task.NewNode("load", "Load", "io"))
	_ = g.AddEdge(task.NewEdge("extract", "transform", task.EdgeDependency))
	_ = g.AddEdge(task.NewEdge("transform", "load", task.EdgeDependency))

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Roots:", g.Roots())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Roots: [extract]
}

func ExampleGraph_TopologicalSort() {
	// Fan-in: report waits for both extracts
	g := taskgraph.New(nil)
	_ = g.AddNode(task.NewNode("orders", "Orders", "io"))
	_ = g.AddNode(task.NewNode("customers", "Customers", "io"))
	_ = g.AddNode(task.NewNode("report", "Report", "compute"))
	_ = g.AddEdge(task.NewEdge("orders", "report", task.EdgeDependency))
	_ = g.AddEdge(task.NewEdge("customers", "report", task.EdgeDependency))

	order, _ := g.TopologicalSort()
	fmt.Println("Order:", order)
	fmt.Println("Dependencies of report:", g.Dependencies("report"))
	// Output:
	// Order: [customers orders report]
	// Dependencies of report: [customers orders]
}

func ExampleGraph_AddEdge_cycle() {
	g := taskgraph.New(nil)
	_ = g.AddNode(task.NewNode("a", "A", "compute"))
	_ = g.AddNode(task.NewNode("b", "B", "compute"))
	_ = g.AddEdge(task.NewEdge("a", "b", task.EdgeDependency))

	// A dependency back-edge closes a cycle and is rejected.
	err := g.AddEdge(task.NewEdge("b", "a", task.EdgeDependency))
	fmt.Println("Dependency back-edge rejected:", err != nil)

	// A weak edge is not cycle-significant and is allowed.
	err = g.AddEdge(task.NewEdge("b", "a", task.EdgeWeak))
	fmt.Println("Weak back-edge rejected:", err != nil)
	// Output:
	// Dependency back-edge rejected: true
	// Weak back-edge rejected: false
}
