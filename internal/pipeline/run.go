// Package pipeline provides the high-level orchestration for one suggestion run.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/context-suggester/internal/catalog"
	"github.com/jonathan/context-suggester/internal/config"
	"github.com/jonathan/context-suggester/internal/contextvec"
	"github.com/jonathan/context-suggester/internal/fetch"
	"github.com/jonathan/context-suggester/internal/observability"
	"github.com/jonathan/context-suggester/internal/ranking"
	"github.com/jonathan/context-suggester/internal/rendering"
	"github.com/jonathan/context-suggester/internal/schemas"
	"github.com/jonathan/context-suggester/internal/types"
	"github.com/jonathan/context-suggester/internal/vectorize"
	rootschemas "github.com/jonathan/context-suggester/schemas"
)

const totalSteps = 6

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	// Config must already be merged with defaults and validated.
	Config config.Config
	// Conditions, when set, replaces the weather supplier.
	Conditions *types.Conditions
	// Now is the run clock; nil means time.Now.
	Now          func() time.Time
	TemplatePath string
	// Rules overrides the default inference rules.
	Rules  []vectorize.Rule
	Logger *zap.Logger
	// Out receives progress lines and the verbose console report; nil means os.Stdout.
	Out io.Writer
}

// Result is everything a run produced.
type Result struct {
	Report *types.Report
	Vector contextvec.Vector
	Scored []types.ScoredSuggestion
}

// Run executes one sequential pass: read conditions, build the context vector, load the catalog,
// score, aggregate and write the report artifacts.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	cfg := opts.Config
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	started := now().In(loc)
	lat, lon := cfg.LatLon()

	report := &types.Report{
		RunID:       uuid.New().String(),
		GeneratedAt: started,
		Location:    types.Location{Latitude: lat, Longitude: lon, Timezone: loc.String()},
		Issues:      []types.Issue{},
	}
	logger = logger.With(zap.String("run_id", report.RunID))

	// Step 1: Current conditions
	step(out, 1, "Reading current conditions")
	cond, issue, err := readConditions(ctx, cfg, opts.Conditions, started)
	if err != nil {
		logger.Error("weather supplier failed", zap.Error(err))
		return nil, err
	}
	if issue != nil {
		logger.Warn("using degraded conditions", zap.String("reason", issue.Message))
		report.Issues = append(report.Issues, *issue)
	}
	report.Conditions = cond
	report.Degraded = cond.Degraded

	// Step 2: Context vector
	step(out, 2, "Building context vector")
	vec, err := ContextVector(cfg, cond, started, opts.Rules)
	if err != nil {
		return nil, err
	}
	report.ActiveFeatures = vec.Top(cfg.TopFeatures, cfg.MinActive)
	logger.Debug("context vector built", zap.Int("active", len(vec.Active(cfg.MinActive))))

	// Step 3: Catalog
	step(out, 3, fmt.Sprintf("Loading catalog from %s", cfg.DataDir))
	loaded, err := catalog.LoadDir(cfg.DataDir, &catalog.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	report.Issues = append(report.Issues, loaded.Issues...)

	// Step 4: Scoring
	step(out, 4, fmt.Sprintf("Scoring %d suggestions", len(loaded.Suggestions)))
	engine, err := ranking.NewEngine(cfg.Weights(), cfg.VetoThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring engine: %w", err)
	}
	scored, scoreIssues := engine.ScoreAll(vec, loaded.Suggestions)
	report.Issues = append(report.Issues, scoreIssues...)

	// Step 5: Aggregation
	step(out, 5, "Ranking suggestions")
	report.Results = ranking.Aggregate(scored, cfg.TopN)
	report.Stats = stats(loaded, scored)

	// Step 6: Artifacts
	step(out, 6, fmt.Sprintf("Writing report to %s", cfg.Output))
	if cfg.JSONOutput != "" {
		if err := writeJSON(report, cfg.JSONOutput); err != nil {
			return nil, err
		}
	}
	if err := rendering.WriteReport(report, opts.TemplatePath, cfg.Output); err != nil {
		return nil, err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(out)
		printer.PrintConditions(report.Conditions)
		printer.PrintActiveFeatures(report.ActiveFeatures)
		printer.PrintResults(report.Results)
		printer.PrintIssues(report.Issues)
	}

	logger.Info("run complete",
		zap.Int("loaded", report.Stats.Loaded),
		zap.Int("scored", report.Stats.Scored),
		zap.Int("vetoed", report.Stats.Vetoed),
		zap.Int("issues", len(report.Issues)),
		zap.Bool("degraded", report.Degraded),
	)

	return &Result{Report: report, Vector: vec, Scored: scored}, nil
}

// ContextVector builds the context vector for cond at the given instant, using the configured
// time zone and calendar. nil rules means vectorize.DefaultRules.
func ContextVector(cfg config.Config, cond types.Conditions, at time.Time, rules []vectorize.Rule) (contextvec.Vector, error) {
	loc, err := cfg.Location()
	if err != nil {
		return contextvec.Vector{}, err
	}
	cal, err := cfg.Calendar()
	if err != nil {
		return contextvec.Vector{}, err
	}
	if rules == nil {
		rules = vectorize.DefaultRules()
	}
	vec, err := vectorize.Build(cond, at.In(loc), cal, rules)
	if err != nil {
		return contextvec.Vector{}, fmt.Errorf("context vector assembly failed: %w", err)
	}
	return vec, nil
}

// readConditions returns explicit conditions, fetched conditions, or (when allowed) the degraded
// defaults together with the supplier issue that caused them.
func readConditions(ctx context.Context, cfg config.Config, explicit *types.Conditions, now time.Time) (types.Conditions, *types.Issue, error) {
	if explicit != nil {
		return *explicit, nil, nil
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		return types.Conditions{}, nil, err
	}
	opts := fetch.DefaultOptions()
	opts.Timeout = timeout

	lat, lon := cfg.LatLon()
	client := fetch.NewWeatherClient(cfg.WeatherURL, opts)
	cond, err := client.Current(ctx, lat, lon)
	if err == nil {
		return cond, nil, nil
	}
	if !cfg.AllowDegraded {
		return types.Conditions{}, nil, fmt.Errorf("weather supplier unavailable: %w", err)
	}

	issue := &types.Issue{
		Kind:    types.IssueSupplier,
		Source:  client.BaseURL,
		Message: fmt.Sprintf("weather supplier unavailable, default conditions used: %v", err),
	}
	return types.DegradedConditions(now), issue, nil
}

func stats(loaded *catalog.LoadResult, scored []types.ScoredSuggestion) types.RunStats {
	s := types.RunStats{
		Files:        loaded.Files,
		FilesSkipped: loaded.FilesSkipped,
		Loaded:       len(loaded.Suggestions),
		Rejected:     loaded.Rejected,
		Scored:       len(scored),
	}
	for _, item := range scored {
		if item.Vetoed {
			s.Vetoed++
		}
	}
	return s
}

// writeJSON persists the report as JSON. A report that fails its schema is still written and the
// failure is recorded as an output issue.
func writeJSON(report *types.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	schema, err := schemas.Compile("report.schema.json", rootschemas.Report)
	if err != nil {
		return fmt.Errorf("failed to compile report schema: %w", err)
	}
	if err := schema.ValidateBytes(data); err != nil {
		report.Issues = append(report.Issues, types.Issue{
			Kind:    types.IssueOutput,
			Source:  path,
			Message: err.Error(),
		})
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON report %s: %w", path, err)
	}
	return nil
}

//nolint:errcheck // progress output; errors are not recoverable
func step(out io.Writer, n int, message string) {
	fmt.Fprintf(out, "Step %d/%d: %s...\n", n, totalSteps, message)
}
