package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskgraph/pkg/pipeline"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		detailed   bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "export [manifest.toml|graph.json]",
		Short: "Export a task graph as json, dot, svg, or summary",
		Long: `Export loads a task graph, runs the analysis so critical-path and
influence annotations are present, and writes the graph in the requested
format. A single format with no --output goes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			ctx := cmd.Context()
			opts := pipeline.Options{
				Manifest: args[0],
				Formats:  parseFormats(formatsStr),
				Detailed: detailed,
				Logger:   c.Logger,
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			g, err := runner.Load(ctx, opts)
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			report, err := runner.Analyze(ctx, g, opts)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			artifacts, err := runner.Export(ctx, g, report, opts)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			// Single format without -o streams to stdout.
			if len(opts.Formats) == 1 && output == "" {
				_, err := os.Stdout.Write(artifacts[opts.Formats[0]])
				return err
			}

			for _, format := range opts.Formats {
				path := artifactPath(opts.Manifest, output, format, len(opts.Formats) > 1)
				if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printFile(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "dot", "output format(s): json, dot, svg, summary (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "verbose node labels in dot/svg output")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable report caching")

	return cmd
}
