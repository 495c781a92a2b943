package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskgraph/pkg/pipeline"
)

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		detailed   bool
		noCache    bool
		refresh    bool
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "build [manifest.toml]",
		Short: "Build a task graph from a manifest and export it",
		Long: `Build a task graph from a TOML manifest (or a JSON graph document),
run the full analysis, and write the requested artifacts.

With --watch the command keeps running and rebuilds whenever the
manifest changes on disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Manifest: args[0],
				Formats:  parseFormats(formatsStr),
				Detailed: detailed,
				Refresh:  refresh,
				Logger:   c.Logger,
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			if watch {
				return c.watchAndBuild(cmd.Context(), runner, opts, output)
			}
			return c.runBuild(cmd.Context(), runner, opts, output)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, summary (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "verbose node labels in dot/svg output")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable report caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached report exists")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild when the manifest changes")

	return cmd
}

// runBuild executes one pipeline run and writes the artifacts.
func (c *CLI) runBuild(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) error {
	spinner := newSpinner(ctx, fmt.Sprintf("Building %s...", filepath.Base(opts.Manifest)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	printSuccess("Built %s", filepath.Base(opts.Manifest))
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.ReportHit)

	return writeArtifacts(result, opts, output)
}

// watchAndBuild rebuilds on every manifest change until ctx is cancelled.
// Editor write patterns (truncate+write, rename-into-place) produce event
// bursts, so changes are debounced before triggering a rebuild.
func (c *CLI) watchAndBuild(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) error {
	if err := c.runBuild(ctx, runner, opts, output); err != nil {
		printWarning("initial build failed: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: renames replace the inode.
	dir := filepath.Dir(opts.Manifest)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(opts.Manifest)
	printInfo("Watching %s (ctrl-c to stop)", target)

	const debounce = 200 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarning("watch error: %v", err)
		case now := <-ticker.C:
			if pending.IsZero() || now.Sub(pending) < debounce {
				continue
			}
			pending = time.Time{}
			opts.Refresh = true
			if err := c.runBuild(ctx, runner, opts, output); err != nil {
				printWarning("rebuild failed: %v", err)
			}
		}
	}
}

// writeArtifacts writes each produced artifact next to the manifest or to the
// explicit output path.
func writeArtifacts(result *pipeline.Result, opts pipeline.Options, output string) error {
	for _, format := range opts.Formats {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}

		// Summary goes to the terminal, not a file, unless -o is given.
		if format == "summary" && output == "" {
			fmt.Println(string(data))
			continue
		}

		path := artifactPath(opts.Manifest, output, format, len(opts.Formats) > 1)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// artifactPath decides where an artifact lands. A single format with an
// explicit output uses it verbatim; otherwise the format becomes the
// extension.
func artifactPath(manifest, output, format string, multi bool) string {
	ext := "." + format
	if format == "summary" {
		ext = ".txt"
	}

	if output != "" {
		if multi {
			return strings.TrimSuffix(output, filepath.Ext(output)) + ext
		}
		return output
	}

	path := strings.TrimSuffix(manifest, filepath.Ext(manifest)) + ext
	if path == manifest {
		// A .json manifest exporting json would overwrite its own input.
		path = strings.TrimSuffix(manifest, filepath.Ext(manifest)) + ".out" + ext
	}
	return path
}
