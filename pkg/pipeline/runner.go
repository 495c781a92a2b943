package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskgraph/pkg/analyzer"
	"github.com/matzehuels/taskgraph/pkg/builder"
	"github.com/matzehuels/taskgraph/pkg/cache"
	"github.com/matzehuels/taskgraph/pkg/export"
	"github.com/matzehuels/taskgraph/pkg/graphdoc"
	"github.com/matzehuels/taskgraph/pkg/observability"
	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

// Runner executes the pipeline with report caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching via
// [cache.NewNullCache]; a nil logger falls back to [log.Default].
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete build → analyze → export pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, opts.Manifest)
	g, err := r.Load(ctx, opts)
	observability.Pipeline().OnBuildComplete(ctx, opts.Manifest,
		nodeCount(g), edgeCount(g), time.Since(buildStart), err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	logger.Info("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)

	analyzeStart := time.Now()
	observability.Pipeline().OnAnalyzeStart(ctx, g.ID, g.NodeCount())
	report, hit, err := r.AnalyzeWithCacheInfo(ctx, g, opts)
	observability.Pipeline().OnAnalyzeComplete(ctx, g.ID, time.Since(analyzeStart), err)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Report = report
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.CacheInfo.ReportHit = hit

	logger.Info("analyzed graph",
		"health", report.Health.Status,
		"cached", hit,
		"duration", result.Stats.AnalyzeTime)

	exportStart := time.Now()
	observability.Pipeline().OnExportStart(ctx, opts.Formats)
	artifacts, err := r.Export(ctx, g, report, opts)
	observability.Pipeline().OnExportComplete(ctx, opts.Formats, time.Since(exportStart), err)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)

	logger.Info("exported artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Load reads the graph named by the options, building from TOML or decoding
// a JSON graph document depending on the extension.
func (r *Runner) Load(ctx context.Context, opts Options) (*taskgraph.Graph, error) {
	if filepath.Ext(opts.Manifest) == ".json" {
		return graphdoc.ReadFile(opts.Manifest)
	}
	return builder.New(r.logger(opts)).BuildFile(ctx, opts.Manifest)
}

// AnalyzeWithCacheInfo produces the analysis report, serving it from the
// cache when the graph's ID and version match a stored entry.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, g *taskgraph.Graph, opts Options) (analyzer.Report, bool, error) {
	key := cache.ReportKey(g.ID, g.Version())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached analyzer.Report
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "report")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "report")
	}

	report := analyzer.New(g).AnalysisReport()

	if data, err := json.Marshal(report); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLReport); err == nil {
			observability.Cache().OnCacheSet(ctx, "report", len(data))
		}
	}

	return report, false, nil
}

// Analyze is a convenience wrapper that discards the cache hit info.
func (r *Runner) Analyze(ctx context.Context, g *taskgraph.Graph, opts Options) (analyzer.Report, error) {
	report, _, err := r.AnalyzeWithCacheInfo(ctx, g, opts)
	return report, err
}

// Export serializes the graph and report in every requested format.
func (r *Runner) Export(ctx context.Context, g *taskgraph.Graph, report analyzer.Report, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	dotOpts := export.DOTOptions{Detailed: opts.Detailed}

	for _, name := range opts.Formats {
		format, err := export.ParseFormat(name)
		if err != nil {
			return nil, err
		}

		var data []byte
		if format == export.FormatSummary {
			data = []byte(export.Summary(report))
		} else if data, err = export.Graph(ctx, g, format, dotOpts); err != nil {
			return nil, fmt.Errorf("exporting %s: %w", format, err)
		}
		artifacts[name] = data
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func nodeCount(g *taskgraph.Graph) int {
	if g == nil {
		return 0
	}
	return g.NodeCount()
}

func edgeCount(g *taskgraph.Graph) int {
	if g == nil {
		return 0
	}
	return g.EdgeCount()
}
