package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/taskgraph/pkg/analyzer"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleHealthy = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
)

// Summary renders an analysis report as a styled terminal block.
func Summary(report analyzer.Report) string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Graph Analysis"))
	b.WriteString("\n\n")

	row(&b, "Tasks", fmt.Sprintf("%d", report.Stats.NodeCount))
	row(&b, "Edges", fmt.Sprintf("%d", report.Stats.EdgeCount))
	row(&b, "Roots / Leaves", fmt.Sprintf("%d / %d", report.Stats.RootCount, report.Stats.LeafCount))
	if report.Stats.IsolatedCount > 0 {
		row(&b, "Isolated", styleWarning.Render(fmt.Sprintf("%d", report.Stats.IsolatedCount)))
	}
	row(&b, "Completion", fmt.Sprintf("%.0f%%", report.Stats.CompletionRate*100))
	b.WriteString("\n")

	row(&b, "Health", healthStyle(report.Health.Status).Render(
		fmt.Sprintf("%s (%.0f/100)", report.Health.Status, report.Health.Score)))
	for _, issue := range report.Health.Issues {
		b.WriteString("    ")
		b.WriteString(styleWarning.Render("! " + issue))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(report.CriticalPath) > 0 {
		row(&b, "Critical Path", strings.Join(report.CriticalPath, " → "))
		row(&b, "Path Duration", fmt.Sprintf("%.1fs", report.CriticalPathDuration))
	}
	row(&b, "Parallelization", fmt.Sprintf("%.2f", report.ParallelizationIndex))
	row(&b, "Redundancy", fmt.Sprintf("%.2f", report.RedundancyScore))
	row(&b, "Total Cost", fmt.Sprintf("%.1fs / $%.2f", report.Cost.TotalDuration, report.Cost.TotalMonetaryCost))

	if len(report.Bottlenecks) > 0 {
		b.WriteString("\n")
		b.WriteString(styleLabel.Render("  Bottlenecks"))
		b.WriteString("\n")
		for _, bn := range report.Bottlenecks {
			b.WriteString(fmt.Sprintf("    %s  %s (in %d, out %d)\n",
				styleWarning.Render(bn.NodeID), bn.Kind, bn.FanIn, bn.FanOut))
		}
	}

	if len(report.Cycles) > 0 {
		b.WriteString("\n")
		b.WriteString(styleError.Render(fmt.Sprintf("  %d cycle(s) detected", len(report.Cycles))))
		b.WriteString("\n")
		for _, cycle := range report.Cycles {
			b.WriteString("    ")
			b.WriteString(strings.Join(cycle, " → "))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(fmt.Sprintf("  %s %s\n",
		styleLabel.Render(fmt.Sprintf("%-16s", label)), styleNumber.Render(value)))
}

func healthStyle(status string) lipgloss.Style {
	switch status {
	case analyzer.StatusHealthy:
		return styleHealthy
	case analyzer.StatusDegraded:
		return styleWarning
	default:
		return styleError
	}
}
