// Package export serializes graphs and analysis reports for consumption
// outside the engine.
//
// Supported formats:
//   - json: the flat graph document, round-trippable through pkg/graphdoc
//   - dot: Graphviz DOT with status coloring and critical-path highlighting
//   - svg: the DOT output rendered through Graphviz
//   - summary: a styled terminal summary of an analysis report
package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/taskgraph/pkg/analyzer"
	"github.com/matzehuels/taskgraph/pkg/graphdoc"
	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

// Format identifies an output format.
type Format string

// Output formats accepted by [Graph] and the CLI.
const (
	FormatJSON    Format = "json"
	FormatDOT     Format = "dot"
	FormatSVG     Format = "svg"
	FormatSummary Format = "summary"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatDOT, FormatSVG, FormatSummary:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, dot, svg, or summary)", s)
	}
}

// Graph serializes a graph in the requested format. The summary format needs
// an analysis report and is handled by [Summary] instead.
func Graph(ctx context.Context, g *taskgraph.Graph, format Format, opts DOTOptions) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graphdoc.Marshal(g)
	case FormatDOT:
		return []byte(ToDOT(g, opts)), nil
	case FormatSVG:
		return RenderSVG(ctx, ToDOT(g, opts))
	default:
		return nil, fmt.Errorf("format %q cannot serialize a graph", format)
	}
}

// ReportJSON serializes an analysis report as indented JSON.
func ReportJSON(report analyzer.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
