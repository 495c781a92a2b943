// Package pkg provides the core libraries for Taskgraph dependency analysis.
//
// # Overview
//
// Taskgraph models pipelines of interdependent tasks as directed acyclic
// graphs and analyzes their structure: critical paths, bottlenecks,
// influence, parallelization, and health. The pkg directory is organized
// into four main areas:
//
//  1. [task] / [taskgraph] - Domain model (typed nodes and edges, the DAG)
//  2. [analyzer] - Structural analysis passes and the aggregate report
//  3. [builder] / [graphdoc] / [export] - Input and output formats
//  4. [pipeline] / [cache] / [store] - Orchestration and infrastructure
//
// # Architecture
//
// The typical data flow through Taskgraph:
//
//	TOML Manifest / JSON Document
//	         ↓
//	    [builder] package (parse + assemble the graph)
//	         ↓
//	    [taskgraph] package (DAG structure + traversal)
//	         ↓
//	    [analyzer] package (critical path, scores, health)
//	         ↓
//	    JSON/DOT/SVG/summary output
//
// # Quick Start
//
// Build a graph from a manifest and analyze it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/taskgraph/pkg/analyzer"
//	    "github.com/matzehuels/taskgraph/pkg/builder"
//	)
//
//	// 1. Build the graph
//	b := builder.New(nil)
//	g, _ := b.BuildFile(context.Background(), "pipeline.toml")
//
//	// 2. Analyze it
//	report := analyzer.New(g).AnalysisReport()
//	fmt.Println(report.CriticalPath, report.Health.Status)
//
// # Main Packages
//
// ## Domain Model
//
// [task] - Typed task nodes with lifecycle states, cost models, and typed
// edges (dependency, dataflow, conditional, weak, constraint).
//
// [taskgraph] - The transactional DAG. Structural mutations bump a version
// counter; only cycle-significant edge types are rejected when they would
// close a directed cycle.
//
// [analyzer] - Analysis passes over a graph: topological sorting, critical
// path, bottlenecks, PageRank-style influence, parallel stages, health
// scoring, and redundancy detection. Results are memoized per graph version.
//
// ## Input and Output
//
// [builder] - Assembles graphs from TOML manifests with shared cost
// profiles and per-task overrides.
//
// [graphdoc] - Serialization types for persisting and exchanging graphs
// (JSON documents, BSON-tagged for MongoDB).
//
// [export] - Output formats: JSON, Graphviz DOT, rendered SVG, and a styled
// terminal summary.
//
// [monitor] - Execution tracking. Applies scheduler events (started,
// completed, failed, cancelled) and keeps readiness and blocking consistent
// with the dependency structure.
//
// ## Infrastructure
//
// [pipeline] - The build → analyze → export pipeline shared by the CLI and
// the HTTP server. Ensures consistent behavior across entry points.
//
// [cache] - Report caching keyed by graph identity and structural version.
// FileCache for the CLI, RedisCache for shared deployments, NullCache for
// tests.
//
// [store] - Graph persistence. MemoryStore for development and testing,
// MongoStore for durable deployments.
//
// [observability] - Hook interfaces for instrumenting pipeline, cache, and
// store operations without coupling the core packages to a metrics stack.
//
// [buildinfo] - Build-time version information set via ldflags.
//
// [task]: https://pkg.go.dev/github.com/matzehuels/taskgraph/pkg/task
// [taskgraph]: https://pkg.go.dev/github.com/matzehuels/taskgraph/pkg/taskgraph
// [analyzer]: https://pkg.go.dev/github.com/matzehuels/taskgraph/pkg/analyzer
// [builder]: https://pkg.go.dev/github.com/matzehuels/taskgraph/pkg/builder
// [graphdoc]: https://pkg.go.dev/github.com/matzehuels/taskgraph/pkg/graphdoc
// [export]: https://pkg.go.dev/github.com/matzehuels/taskgraph/pkg/export
// [monitor]: https://pkg.go.dev/github.com/matzehuels/taskgraph/pkg/monitor
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/taskgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/taskgraph/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/taskgraph/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/taskgraph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/taskgraph/pkg/buildinfo
package pkg
