// Package pipeline orchestrates the build → analyze → export flow.
//
// A [Runner] loads a graph from a TOML manifest or a JSON graph document,
// runs the full analysis, and serializes artifacts in the requested formats.
// Analysis reports are cached by graph ID and mutation version, so repeated
// runs over an unchanged graph skip the analysis passes entirely.
package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskgraph/pkg/analyzer"
	"github.com/matzehuels/taskgraph/pkg/export"
	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

// Options configures a pipeline run.
type Options struct {
	// Manifest is the path to a TOML manifest or a JSON graph document.
	// The extension selects the loader.
	Manifest string

	// Formats lists the artifact formats to produce. Defaults to ["json"].
	Formats []string

	// Detailed enables verbose node labels in DOT and SVG output.
	Detailed bool

	// Refresh bypasses the report cache.
	Refresh bool

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks options and fills defaults in place.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Manifest == "" {
		return fmt.Errorf("manifest path is required")
	}
	switch ext := filepath.Ext(o.Manifest); ext {
	case ".toml", ".json":
	default:
		return fmt.Errorf("unsupported manifest extension %q (want .toml or .json)", ext)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{string(export.FormatJSON)}
	}
	for _, f := range o.Formats {
		if _, err := export.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Stats records per-stage timings and graph size for a run.
type Stats struct {
	BuildTime   time.Duration
	AnalyzeTime time.Duration
	ExportTime  time.Duration
	NodeCount   int
	EdgeCount   int
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	ReportHit bool
}

// Result bundles everything a pipeline run produced.
type Result struct {
	Graph     *taskgraph.Graph
	Report    analyzer.Report
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}
