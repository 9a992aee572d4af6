package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/context-suggester/internal/config"
	"github.com/jonathan/context-suggester/internal/features"
	"github.com/jonathan/context-suggester/internal/pipeline"
	"github.com/jonathan/context-suggester/internal/types"
)

var vectorizeCmd = &cobra.Command{
	Use:   "vectorize",
	Short: "Build the context vector from explicit readings",
	Long:  "Builds the context vector for the given weather readings and local time without contacting the weather supplier, and writes it as JSON.",
	RunE:  runVectorize,
}

var (
	vectorizeConfigPath string
	vectorizeTimezone   string
	vectorizeMin        float64
	vectorizeOutput     string
	vectorizeReadings   readingFlags
)

// vectorOutput is the JSON document written by the vectorize command.
type vectorOutput struct {
	Conditions types.Conditions          `json:"conditions"`
	LocalTime  time.Time                 `json:"local_time"`
	Vector     map[features.Key]float64  `json:"vector"`
	Active     []types.FeatureActivation `json:"active"`
}

func init() {
	vectorizeCmd.Flags().StringVar(&vectorizeConfigPath, "config", "", "Path to a JSON or YAML config file")
	vectorizeCmd.Flags().StringVar(&vectorizeTimezone, "timezone", "", "IANA time zone of the local time")
	vectorizeCmd.Flags().Float64Var(&vectorizeMin, "min", 0, "Only list active features strictly above this activation")
	vectorizeCmd.Flags().StringVarP(&vectorizeOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	vectorizeReadings.register(vectorizeCmd)

	rootCmd.AddCommand(vectorizeCmd)
}

func runVectorize(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(vectorizeConfigPath, false, func(c *config.Config) {
		if cmd.Flags().Changed("timezone") {
			c.Timezone = vectorizeTimezone
		}
	})
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	cond, err := vectorizeReadings.conditions(cmd, loc, time.Now())
	if err != nil {
		return err
	}

	vec, err := pipeline.ContextVector(cfg, cond, cond.ObservedAt, nil)
	if err != nil {
		return err
	}

	jsonOutput, err := json.MarshalIndent(vectorOutput{
		Conditions: cond,
		LocalTime:  cond.ObservedAt,
		Vector:     vec.Values(),
		Active:     vec.Active(vectorizeMin),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal context vector to JSON: %w", err)
	}

	if vectorizeOutput == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonOutput))
		return nil
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(vectorizeOutput)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}
	if err := os.WriteFile(vectorizeOutput, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", vectorizeOutput, err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully wrote context vector to %s\n", vectorizeOutput)
	return nil
}
