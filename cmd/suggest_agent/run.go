package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jonathan/context-suggester/internal/config"
	"github.com/jonathan/context-suggester/internal/observability"
	"github.com/jonathan/context-suggester/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full suggestion pipeline end-to-end",
	Long: `Fetches current conditions, builds the context vector, loads the catalog, scores and ranks every suggestion, and writes the report: fetch -> vectorize -> load -> score -> aggregate -> report.

Configuration can be loaded from a JSON or YAML file using --config. SUGGEST_* environment variables override the file, and command-line flags override both.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath    string
	runLatitude      float64
	runLongitude     float64
	runTimezone      string
	runDataDir       string
	runOutput        string
	runJSONOutput    string
	runTemplate      string
	runTopN          int
	runVetoThreshold float64
	runWeatherURL    string
	runTimeout       string
	runAllowDegraded bool
	runVerbose       bool
	runLogLevel      string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")

	runCommand.Flags().Float64Var(&runLatitude, "lat", 0, "Latitude of the location")
	runCommand.Flags().Float64Var(&runLongitude, "lon", 0, "Longitude of the location")
	runCommand.Flags().StringVar(&runTimezone, "timezone", "", "IANA time zone used for time of day and calendar (default Asia/Tehran)")
	runCommand.Flags().StringVarP(&runDataDir, "data", "d", "", "Catalog directory of *.json files (default data)")
	runCommand.Flags().StringVarP(&runOutput, "out", "o", "", "Path to the text report (default suggestion_output.txt)")
	runCommand.Flags().StringVar(&runJSONOutput, "json-out", "", "Optional path to a JSON report")
	runCommand.Flags().StringVarP(&runTemplate, "template", "t", "", "Path to a report template (default built-in)")
	runCommand.Flags().IntVarP(&runTopN, "top-n", "n", 0, "Suggestions kept per subcategory (default 3)")
	runCommand.Flags().Float64Var(&runVetoThreshold, "veto-threshold", 0, "Activation at which a veto preference applies (default 0.5)")
	runCommand.Flags().StringVar(&runWeatherURL, "weather-url", "", "Weather supplier endpoint")
	runCommand.Flags().StringVar(&runTimeout, "timeout", "", "Weather request timeout (default 10s)")
	runCommand.Flags().BoolVar(&runAllowDegraded, "allow-degraded", false, "Use default conditions when the weather supplier is unreachable")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print the detailed report to the console")
	runCommand.Flags().StringVar(&runLogLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := resolveConfig(runConfigPath, runVerbose, func(c *config.Config) {
		// Only override if the flag was explicitly set
		flags := cmd.Flags()
		if flags.Changed("lat") {
			c.Latitude = &runLatitude
		}
		if flags.Changed("lon") {
			c.Longitude = &runLongitude
		}
		if flags.Changed("timezone") {
			c.Timezone = runTimezone
		}
		if flags.Changed("data") {
			c.DataDir = runDataDir
		}
		if flags.Changed("out") {
			c.Output = runOutput
		}
		if flags.Changed("json-out") {
			c.JSONOutput = runJSONOutput
		}
		if flags.Changed("top-n") {
			c.TopN = runTopN
		}
		if flags.Changed("veto-threshold") {
			c.VetoThreshold = runVetoThreshold
		}
		if flags.Changed("weather-url") {
			c.WeatherURL = runWeatherURL
		}
		if flags.Changed("timeout") {
			c.FetchTimeout = runTimeout
		}
		if flags.Changed("allow-degraded") {
			c.AllowDegraded = runAllowDegraded
		}
		if flags.Changed("verbose") {
			c.Verbose = runVerbose
		}
		if flags.Changed("log-level") {
			c.LogLevel = runLogLevel
		}
	})
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	result, err := pipeline.Run(ctx, pipeline.RunOptions{
		Config:       cfg,
		TemplatePath: runTemplate,
		Logger:       logger,
		Out:          cmd.OutOrStdout(),
	})
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	report := result.Report
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n✅ Report written to %s (%d suggestions scored, %d vetoed, %d issues)\n",
		cfg.Output, report.Stats.Scored, report.Stats.Vetoed, len(report.Issues))
	if report.Degraded {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "⚠ DEGRADED: default conditions were used")
	}
	if cfg.JSONOutput != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "JSON report written to %s\n", cfg.JSONOutput)
	}
	return nil
}
