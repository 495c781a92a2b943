package builder

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/taskgraph/pkg/task"
)

// Manifest is the TOML description of a task graph.
//
// A minimal manifest declares tasks and their dependencies:
//
//	[graph]
//	name = "nightly-etl"
//
//	[[tasks]]
//	id = "extract"
//	name = "Extract orders"
//	type = "io"
//
//	[[tasks]]
//	id = "transform"
//	name = "Transform orders"
//	type = "compute"
//	depends_on = ["extract"]
//
// Cost models can be declared once per task type under [costs.<type>] and
// overridden per task. Explicit [[edges]] entries allow non-dependency edge
// types between tasks.
type Manifest struct {
	Graph GraphSection        `toml:"graph"`
	Costs map[string]CostSpec `toml:"costs"`
	Tasks []TaskSpec          `toml:"tasks"`
	Edges []EdgeSpec          `toml:"edges"`
}

// GraphSection carries graph-level metadata.
type GraphSection struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Owner       string `toml:"owner"`
}

// TaskSpec declares a single task.
type TaskSpec struct {
	ID        string    `toml:"id"`
	Name      string    `toml:"name"`
	Type      string    `toml:"type"`
	Priority  int       `toml:"priority"`
	DependsOn []string  `toml:"depends_on"`
	Costs     *CostSpec `toml:"costs"`
}

// EdgeSpec declares an explicit edge between two tasks.
type EdgeSpec struct {
	Source string  `toml:"source"`
	Target string  `toml:"target"`
	Type   string  `toml:"type"`
	Weight float64 `toml:"weight"`
}

// CostSpec mirrors [task.CostModel] with TOML field names.
type CostSpec struct {
	Duration      float64 `toml:"duration"`
	MonetaryCost  float64 `toml:"monetary_cost"`
	CPUUnits      float64 `toml:"cpu_units"`
	MemoryMB      float64 `toml:"memory_mb"`
	IOOps         float64 `toml:"io_ops"`
	BandwidthMbps float64 `toml:"bandwidth_mbps"`
}

// model converts the spec to a cost model.
func (c CostSpec) model() task.CostModel {
	return task.CostModel{
		Duration:      c.Duration,
		MonetaryCost:  c.MonetaryCost,
		CPUUnits:      c.CPUUnits,
		MemoryMB:      c.MemoryMB,
		IOOps:         c.IOOps,
		BandwidthMbps: c.BandwidthMbps,
	}
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses manifest TOML and validates task declarations.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if len(m.Tasks) == 0 {
		return nil, fmt.Errorf("%w: manifest declares no tasks", ErrInvalidManifest)
	}

	seen := make(map[string]bool, len(m.Tasks))
	for i, spec := range m.Tasks {
		if spec.ID == "" {
			return nil, fmt.Errorf("%w: task %d has no id", ErrInvalidManifest, i)
		}
		if seen[spec.ID] {
			return nil, fmt.Errorf("%w: duplicate task id %q", ErrInvalidManifest, spec.ID)
		}
		seen[spec.ID] = true
	}

	for _, e := range m.Edges {
		if !seen[e.Source] {
			return nil, fmt.Errorf("%w: edge references unknown source %q", ErrInvalidManifest, e.Source)
		}
		if !seen[e.Target] {
			return nil, fmt.Errorf("%w: edge references unknown target %q", ErrInvalidManifest, e.Target)
		}
	}
	for _, spec := range m.Tasks {
		for _, dep := range spec.DependsOn {
			if !seen[dep] {
				return nil, fmt.Errorf("%w: task %q depends on unknown task %q", ErrInvalidManifest, spec.ID, dep)
			}
		}
	}

	return &m, nil
}
