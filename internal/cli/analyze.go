package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskgraph/pkg/export"
	"github.com/matzehuels/taskgraph/pkg/pipeline"
)

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		asJSON  bool
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [manifest.toml|graph.json]",
		Short: "Analyze a task graph and print the report",
		Long: `Analyze a task graph: topological structure, critical path, bottlenecks,
influence scores, parallelization, health, and cost.

By default a styled summary is printed; --json emits the full report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			ctx := cmd.Context()
			opts := pipeline.Options{Manifest: args[0], Refresh: refresh, Logger: c.Logger}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			g, err := runner.Load(ctx, opts)
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}

			prog := newProgress(c.Logger)
			report, cached, err := runner.AnalyzeWithCacheInfo(ctx, g, opts)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			prog.done(fmt.Sprintf("Analyzed %d tasks", report.Stats.NodeCount))

			var out []byte
			if asJSON {
				if out, err = export.ReportJSON(report); err != nil {
					return err
				}
			} else {
				out = []byte(export.Summary(report))
			}

			if output != "" {
				if err := os.WriteFile(output, out, 0644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				printFile(output)
			} else {
				fmt.Println(string(out))
			}

			printStats(report.Stats.NodeCount, report.Stats.EdgeCount, cached)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full report as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable report caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached report exists")

	return cmd
}
