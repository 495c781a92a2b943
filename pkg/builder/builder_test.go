package builder

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

const sampleManifest = `
[graph]
name = "nightly-etl"
owner = "data-platform"

[costs.io]
duration = 5.0
io_ops = 1000

[costs.compute]
duration = 10.0
cpu_units = 4

[[tasks]]
id = "extract"
name = "Extract orders"
type = "io"

[[tasks]]
id = "transform"
name = "Transform orders"
type = "compute"
priority = 5
depends_on = ["extract"]

[[tasks]]
id = "load"
name = "Load warehouse"
type = "io"
depends_on = ["transform"]
[tasks.costs]
duration = 2.5
io_ops = 500

[[edges]]
source = "extract"
target = "load"
type = "dataflow"
weight = 0.5
`

func quietBuilder() *Builder {
	return New(log.New(io.Discard))
}

func TestBuildFromManifest(t *testing.T) {
	m, err := ParseManifest([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	g, err := quietBuilder().Build(context.Background(), m)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", g.EdgeCount())
	}
	if g.Metadata["name"] != "nightly-etl" {
		t.Errorf("metadata name = %v, want nightly-etl", g.Metadata["name"])
	}

	// Type-level cost model applies when no override exists.
	extract, ok := g.Node("extract")
	if !ok {
		t.Fatal("Node(extract) not found")
	}
	if extract.Cost.Duration != 5.0 || extract.Cost.IOOps != 1000 {
		t.Errorf("extract cost = %+v, want io defaults", extract.Cost)
	}

	// Per-task override wins over the type default.
	load, ok := g.Node("load")
	if !ok {
		t.Fatal("Node(load) not found")
	}
	if load.Cost.Duration != 2.5 || load.Cost.IOOps != 500 {
		t.Errorf("load cost = %+v, want per-task override", load.Cost)
	}

	transform, ok := g.Node("transform")
	if !ok {
		t.Fatal("Node(transform) not found")
	}
	if transform.Priority != 5 {
		t.Errorf("transform priority = %d, want 5", transform.Priority)
	}

	deps := g.Dependencies("transform")
	if len(deps) != 1 || deps[0] != "extract" {
		t.Errorf("Dependencies(transform) = %v, want [extract]", deps)
	}
}

func TestBuildSkipsCycleEdges(t *testing.T) {
	manifest := `
[[tasks]]
id = "a"
name = "A"
type = "compute"

[[tasks]]
id = "b"
name = "B"
type = "compute"
depends_on = ["a"]

[[edges]]
source = "b"
target = "a"
type = "dependency"
`
	m, err := ParseManifest([]byte(manifest))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	g, err := quietBuilder().Build(context.Background(), m)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1 (cycle edge skipped)", g.EdgeCount())
	}
	if got := g.Metadata["skipped_edges"]; got != 1 {
		t.Errorf("metadata skipped_edges = %v, want 1", got)
	}
	if ok := g.IsAcyclic(); !ok {
		t.Error("IsAcyclic() = false after build, want true")
	}
}

func TestBuildAllowsWeakBackEdge(t *testing.T) {
	manifest := `
[[tasks]]
id = "a"
name = "A"
type = "compute"

[[tasks]]
id = "b"
name = "B"
type = "compute"
depends_on = ["a"]

[[edges]]
source = "b"
target = "a"
type = "weak"
`
	m, err := ParseManifest([]byte(manifest))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	g, err := quietBuilder().Build(context.Background(), m)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2 (weak edges never gate)", g.EdgeCount())
	}
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"no tasks", `[graph]` + "\n" + `name = "empty"`},
		{"missing id", "[[tasks]]\nname = \"A\"\ntype = \"compute\""},
		{"duplicate id", `
[[tasks]]
id = "a"
name = "A"
type = "compute"

[[tasks]]
id = "a"
name = "A again"
type = "compute"
`},
		{"unknown dependency", `
[[tasks]]
id = "a"
name = "A"
type = "compute"
depends_on = ["ghost"]
`},
		{"unknown edge endpoint", `
[[tasks]]
id = "a"
name = "A"
type = "compute"

[[edges]]
source = "a"
target = "ghost"
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(tt.manifest)); !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("ParseManifest() error = %v, want ErrInvalidManifest", err)
			}
		})
	}
}

func TestBuildUnknownEdgeType(t *testing.T) {
	manifest := `
[[tasks]]
id = "a"
name = "A"
type = "compute"

[[tasks]]
id = "b"
name = "B"
type = "compute"

[[edges]]
source = "a"
target = "b"
type = "telepathic"
`
	m, err := ParseManifest([]byte(manifest))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	if _, err := quietBuilder().Build(context.Background(), m); !errors.Is(err, ErrInvalidManifest) {
		t.Errorf("Build() error = %v, want ErrInvalidManifest", err)
	}
}
