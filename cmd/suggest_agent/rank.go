package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/context-suggester/internal/config"
	"github.com/jonathan/context-suggester/internal/observability"
	"github.com/jonathan/context-suggester/internal/pipeline"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a catalog against explicit readings",
	Long:  "Runs the scoring and ranking pipeline with the given weather readings instead of the weather supplier, and writes the report.",
	RunE:  runRank,
}

var (
	rankConfigPath    string
	rankTimezone      string
	rankDataDir       string
	rankOutput        string
	rankJSONOutput    string
	rankTemplate      string
	rankTopN          int
	rankVetoThreshold float64
	rankVerbose       bool
	rankReadings      readingFlags
)

func init() {
	rankCmd.Flags().StringVar(&rankConfigPath, "config", "", "Path to a JSON or YAML config file")
	rankCmd.Flags().StringVar(&rankTimezone, "timezone", "", "IANA time zone of the local time")
	rankCmd.Flags().StringVarP(&rankDataDir, "data", "d", "", "Catalog directory of *.json files (default data)")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Path to the text report (default suggestion_output.txt)")
	rankCmd.Flags().StringVar(&rankJSONOutput, "json-out", "", "Optional path to a JSON report")
	rankCmd.Flags().StringVarP(&rankTemplate, "template", "t", "", "Path to a report template (default built-in)")
	rankCmd.Flags().IntVarP(&rankTopN, "top-n", "n", 0, "Suggestions kept per subcategory (default 3)")
	rankCmd.Flags().Float64Var(&rankVetoThreshold, "veto-threshold", 0, "Activation at which a veto preference applies (default 0.5)")
	rankCmd.Flags().BoolVarP(&rankVerbose, "verbose", "v", false, "Print the detailed report to the console")
	rankReadings.register(rankCmd)

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(rankConfigPath, rankVerbose, func(c *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("timezone") {
			c.Timezone = rankTimezone
		}
		if flags.Changed("data") {
			c.DataDir = rankDataDir
		}
		if flags.Changed("out") {
			c.Output = rankOutput
		}
		if flags.Changed("json-out") {
			c.JSONOutput = rankJSONOutput
		}
		if flags.Changed("top-n") {
			c.TopN = rankTopN
		}
		if flags.Changed("veto-threshold") {
			c.VetoThreshold = rankVetoThreshold
		}
		if flags.Changed("verbose") {
			c.Verbose = rankVerbose
		}
	})
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now := time.Now()
	cond, err := rankReadings.conditions(cmd, loc, now)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	result, err := pipeline.Run(context.Background(), pipeline.RunOptions{
		Config:       cfg,
		Conditions:   &cond,
		Now:          func() time.Time { return cond.ObservedAt },
		TemplatePath: rankTemplate,
		Logger:       logger,
		Out:          cmd.OutOrStdout(),
	})
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n✅ Report written to %s (%d suggestions scored, %d vetoed, %d issues)\n",
		cfg.Output, result.Report.Stats.Scored, result.Report.Stats.Vetoed, len(result.Report.Issues))
	return nil
}
