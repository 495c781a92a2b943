package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/taskgraph/pkg/task"
	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

// DOTOptions configures DOT output.
type DOTOptions struct {
	// Detailed includes type, status, and duration in node labels.
	// When false, only the node name (or ID) is shown.
	Detailed bool
}

// statusFills maps lifecycle states to node fill colors.
var statusFills = map[task.Status]string{
	task.StatusReady:     "lightyellow",
	task.StatusRunning:   "lightblue",
	task.StatusCompleted: "palegreen",
	task.StatusFailed:    "lightcoral",
	task.StatusCancelled: "lightgrey",
	task.StatusBlocked:   "orange",
}

// edgeStyles maps edge types to DOT edge attributes. Dependency edges use
// the default solid style.
var edgeStyles = map[task.EdgeType]string{
	task.EdgeConstraint:  "style=bold",
	task.EdgeDataFlow:    "style=dashed, color=blue",
	task.EdgeConditional: "style=dotted",
	task.EdgeWeak:        "style=dotted, color=grey, arrowhead=empty",
}

// ToDOT converts a graph to Graphviz DOT format. Nodes are colored by
// lifecycle status, critical-path nodes get a heavy red outline, and edge
// styles encode the edge type. The result renders with [RenderSVG].
func ToDOT(g *taskgraph.Graph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tasks {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := nodeAttrs(n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if style, ok := edgeStyles[e.Type]; ok {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, style)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *task.Node, detailed bool) []string {
	label := n.Name
	if label == "" {
		label = n.ID
	}
	if detailed {
		parts := []string{label, fmt.Sprintf("type: %s", n.Type), fmt.Sprintf("status: %s", n.Status)}
		if n.Cost.Duration > 0 {
			parts = append(parts, fmt.Sprintf("duration: %.1fs", n.Cost.Duration))
		}
		label = strings.Join(parts, "\n")
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := statusFills[n.Status]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%s", fill))
	}
	if n.OnCriticalPath {
		attrs = append(attrs, "color=red", "penwidth=2.0")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the svg tag so the image scales cleanly when
// embedded. Graphviz emits point-based width/height which browsers render at
// a fixed size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
