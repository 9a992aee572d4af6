package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/context-suggester/internal/config"
	"github.com/jonathan/context-suggester/internal/types"
)

// resolveConfig builds the effective configuration: config file, then SUGGEST_* environment, then
// explicitly set flags (applied by override), then defaults for anything still unset.
func resolveConfig(path string, verbose bool, override func(*config.Config)) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loadedCfg, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if verbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", path)
		}
	}

	cfg.ApplyEnv()
	if override != nil {
		override(&cfg)
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// readingFlags are the explicit weather readings accepted by the offline commands.
type readingFlags struct {
	temperature float64
	apparent    float64
	humidity    float64
	wind        float64
	code        int
	at          string
}

func (r *readingFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&r.temperature, "temp", 0, "Air temperature in °C (required)")
	cmd.Flags().Float64Var(&r.apparent, "apparent", 0, "Apparent temperature in °C (defaults to --temp)")
	cmd.Flags().Float64Var(&r.humidity, "humidity", 0, "Relative humidity in % (unknown if not set)")
	cmd.Flags().Float64Var(&r.wind, "wind", 0, "Wind speed in km/h (unknown if not set)")
	cmd.Flags().IntVar(&r.code, "code", types.MissingWeatherCode, "WMO weather code (unknown if not set)")
	cmd.Flags().StringVar(&r.at, "at", "", "Local time as RFC 3339 or 2006-01-02T15:04 (defaults to now)")

	if err := cmd.MarkFlagRequired("temp"); err != nil {
		panic(fmt.Sprintf("failed to mark temp flag as required: %v", err))
	}
}

// conditions converts the flags into readings observed at the returned instant. Unset optional
// readings are NaN.
func (r *readingFlags) conditions(cmd *cobra.Command, loc *time.Location, now time.Time) (types.Conditions, error) {
	at, err := parseAt(r.at, loc, now)
	if err != nil {
		return types.Conditions{}, err
	}

	cond := types.Conditions{
		Temperature:         r.temperature,
		ApparentTemperature: math.NaN(),
		Humidity:            math.NaN(),
		WindSpeed:           math.NaN(),
		WeatherCode:         r.code,
		ObservedAt:          at,
		Source:              "manual",
	}
	if cmd.Flags().Changed("apparent") {
		cond.ApparentTemperature = r.apparent
	}
	if cmd.Flags().Changed("humidity") {
		cond.Humidity = r.humidity
	}
	if cmd.Flags().Changed("wind") {
		cond.WindSpeed = r.wind
	}
	return cond, nil
}

// parseAt accepts RFC 3339 or a zone-less local time interpreted in loc. Empty means now.
func parseAt(value string, loc *time.Location, now time.Time) (time.Time, error) {
	if value == "" {
		return now.In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at value %q: use RFC 3339 or 2006-01-02T15:04", value)
	}
	return t, nil
}
