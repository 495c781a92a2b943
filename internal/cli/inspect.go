package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskgraph/pkg/analyzer"
	"github.com/matzehuels/taskgraph/pkg/pipeline"
	"github.com/matzehuels/taskgraph/pkg/task"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// statusColors maps each task status to its display color.
var statusColors = map[task.Status]lipgloss.Color{
	task.StatusPending:   colorGray,
	task.StatusReady:     colorYellow,
	task.StatusRunning:   colorCyan,
	task.StatusCompleted: colorGreen,
	task.StatusFailed:    colorRed,
	task.StatusCancelled: colorDim,
	task.StatusBlocked:   colorRed,
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "inspect [manifest.toml|graph.json]",
		Short: "Interactively browse a task graph",
		Long: `Inspect opens an interactive task browser. Tasks are listed in
topological order with status, level, and influence; selecting a task
shows its dependencies, dependents, and cost breakdown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := pipeline.Options{Manifest: args[0], Logger: c.Logger}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			g, err := runner.Load(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}

			report := analyzer.New(g).AnalysisReport()

			nodes := orderedNodes(g.Nodes(), report)
			model := NewTaskListModel(nodes, report)
			p := tea.NewProgram(model)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run task browser: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable report caching")

	return cmd
}

// orderedNodes sorts nodes by level, then priority descending, then ID. The
// analyzer writes levels before this is called, so the order matches the
// parallel stages of the report.
func orderedNodes(nodes []*task.Node, report analyzer.Report) []*task.Node {
	sorted := make([]*task.Node, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Level != sorted[j].Level {
			return sorted[i].Level < sorted[j].Level
		}
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// =============================================================================
// TaskListModel - Interactive task browsing
// =============================================================================

// TaskListModel is the bubbletea model for the task browser.
type TaskListModel struct {
	Tasks    []*task.Node
	Report   analyzer.Report
	Cursor   int
	Height   int
	Offset   int
	Detailed bool
}

// NewTaskListModel creates a new task list model.
func NewTaskListModel(tasks []*task.Node, report analyzer.Report) TaskListModel {
	return TaskListModel{
		Tasks:  tasks,
		Report: report,
		Height: 15,
	}
}

func (m TaskListModel) Init() tea.Cmd {
	return nil
}

func (m TaskListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detailed {
				m.Detailed = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Tasks)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Tasks) > 0 {
				m.Detailed = !m.Detailed
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TaskListModel) View() string {
	if m.Detailed {
		return m.detailView()
	}
	return m.listView()
}

func (m TaskListModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tasks"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Tasks) {
		end = len(m.Tasks)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Tasks[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		critical := ""
		if n.OnCriticalPath {
			critical = "●"
		}

		name := n.Name
		if name == "" {
			name = n.ID
		}

		rows = append(rows, []string{
			cursor,
			name,
			n.Type,
			string(n.Status),
			fmt.Sprintf("%d", n.Level),
			fmt.Sprintf("%.2f", n.InfluenceScore),
			critical,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Task", "Type", "Status", "Level", "Influence", "Critical").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Tasks) {
				return lipgloss.NewStyle()
			}
			n := m.Tasks[actualIdx]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col == 3 {
				if color, ok := statusColors[n.Status]; ok {
					base = base.Foreground(color)
				}
			} else if col == 6 && n.OnCriticalPath {
				base = base.Foreground(colorRed)
			}

			if isCurrent {
				return base.Bold(true)
			}
			if col != 3 && col != 6 {
				return base.Foreground(colorGray)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Tasks))))

	return b.String()
}

func (m TaskListModel) detailView() string {
	n := m.Tasks[m.Cursor]

	var b strings.Builder

	name := n.Name
	if name == "" {
		name = n.ID
	}
	b.WriteString(StyleTitle.Render(name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	statusStyle := lipgloss.NewStyle()
	if color, ok := statusColors[n.Status]; ok {
		statusStyle = statusStyle.Foreground(color)
	}

	writeField := func(label, value string) {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %-14s", label)))
		b.WriteString(StyleValue.Render(value))
		b.WriteString("\n")
	}

	writeField("ID", n.ID)
	writeField("Type", n.Type)
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %-14s", "Status")))
	b.WriteString(statusStyle.Render(string(n.Status)))
	b.WriteString("\n")
	writeField("Priority", fmt.Sprintf("%d", n.Priority))
	writeField("Level", fmt.Sprintf("%d", n.Level))
	writeField("Influence", fmt.Sprintf("%.3f", n.InfluenceScore))
	writeField("Critical path", fmt.Sprintf("%t", n.OnCriticalPath))
	if n.ActualDuration > 0 {
		writeField("Actual", fmt.Sprintf("%.1fs (est %.1fs)", n.ActualDuration, n.Cost.Duration))
	} else {
		writeField("Duration", fmt.Sprintf("%.1fs estimated", n.Cost.Duration))
	}
	writeField("Total cost", fmt.Sprintf("%.2f", n.Cost.TotalCost()))
	if n.ErrorMessage != "" {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %-14s", "Error")))
		b.WriteString(lipgloss.NewStyle().Foreground(colorRed).Render(n.ErrorMessage))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("  Depends on    "))
	b.WriteString(StyleValue.Render(joinSet(n.Dependencies)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("  Dependents    "))
	b.WriteString(StyleValue.Render(joinSet(n.Dependents)))
	b.WriteString("\n")

	return b.String()
}

// joinSet renders a neighbor set as a stable comma-separated list.
func joinSet(set map[string]bool) string {
	if len(set) == 0 {
		return "—"
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ", ")
}
