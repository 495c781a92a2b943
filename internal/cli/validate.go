package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskgraph/pkg/pipeline"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [manifest.toml|graph.json]",
		Short: "Validate a task graph's structural integrity",
		Long: `Validate loads a task graph and checks it for structural problems:
directed cycles, edges referencing missing tasks, and inconsistent
dependency sets. Exits non-zero when any problem is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(true)
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

			ok, problems := g.Validate()
			if !ok {
				printError("%d problem(s) found", len(problems))
				for _, p := range problems {
					printDetail("%s", p)
				}
				return fmt.Errorf("graph is inconsistent")
			}

			stats := g.Stats()
			printSuccess("Graph is valid")
			printStats(stats.NodeCount, stats.EdgeCount, false)
			if skipped, found := g.Metadata["skipped_edges"]; found {
				if n, isInt := skipped.(int); isInt && n > 0 {
					printWarning("%d edge(s) were skipped during build to keep the graph acyclic", n)
				}
			}
			return nil
		},
	}

	return cmd
}
