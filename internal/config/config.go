// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database for the timezone setting

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/context-suggester/internal/features"
	"github.com/jonathan/context-suggester/internal/fetch"
	"github.com/jonathan/context-suggester/internal/vectorize"
)

// EventConfig is one configured calendar observance.
type EventConfig struct {
	Name       string  `json:"name,omitempty" yaml:"name,omitempty"`
	Month      int     `json:"month" yaml:"month" validate:"min=1,max=12"`
	Day        int     `json:"day" yaml:"day" validate:"min=1,max=31"`
	Feature    string  `json:"feature,omitempty" yaml:"feature,omitempty"`
	Activation float64 `json:"activation,omitempty" yaml:"activation,omitempty" validate:"gte=0,lte=1"`
	Holiday    bool    `json:"holiday,omitempty" yaml:"holiday,omitempty"`
}

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Location
	Latitude  *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Timezone  string   `json:"timezone,omitempty" yaml:"timezone,omitempty" validate:"omitempty,timezone"`

	// Paths
	DataDir    string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`       // Catalog directory
	Output     string `json:"output,omitempty" yaml:"output,omitempty"`           // Text report artifact
	JSONOutput string `json:"json_output,omitempty" yaml:"json_output,omitempty"` // Optional JSON report artifact

	// Ranking
	TopN          int                `json:"top_n,omitempty" yaml:"top_n,omitempty" validate:"omitempty,min=1,max=50"`
	VetoThreshold float64            `json:"veto_threshold,omitempty" yaml:"veto_threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	GroupWeights  map[string]float64 `json:"group_weights,omitempty" yaml:"group_weights,omitempty"`
	MinActive     float64            `json:"min_active,omitempty" yaml:"min_active,omitempty" validate:"omitempty,gte=0,lt=1"` // Active-feature summary threshold
	TopFeatures   int                `json:"top_features,omitempty" yaml:"top_features,omitempty" validate:"omitempty,min=1"`

	// Calendar
	WeekendDays []string      `json:"weekend_days,omitempty" yaml:"weekend_days,omitempty"`
	Events      []EventConfig `json:"events,omitempty" yaml:"events,omitempty" validate:"omitempty,dive"`

	// Weather supplier
	WeatherURL    string `json:"weather_url,omitempty" yaml:"weather_url,omitempty" validate:"omitempty,url"`
	FetchTimeout  string `json:"fetch_timeout,omitempty" yaml:"fetch_timeout,omitempty"` // Go duration, e.g. "10s"
	AllowDegraded bool   `json:"allow_degraded,omitempty" yaml:"allow_degraded,omitempty"`

	// Behavior
	Verbose  bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// Defaults returns the built-in configuration: Tehran, a Friday weekend and the standard tables.
func Defaults() Config {
	lat, lon := 35.6892, 51.3890
	return Config{
		Latitude:      &lat,
		Longitude:     &lon,
		Timezone:      "Asia/Tehran",
		DataDir:       "data",
		Output:        "suggestion_output.txt",
		TopN:          3,
		VetoThreshold: 0.5,
		MinActive:     0.5,
		TopFeatures:   5,
		WeekendDays:   []string{"friday"},
		WeatherURL:    fetch.DefaultWeatherURL,
		FetchTimeout:  "10s",
		LogLevel:      "info",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if _, err := c.Weekdays(); err != nil {
		return err
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if err := c.Weights().Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if _, err := c.Calendar(); err != nil {
		return err
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Latitude == nil {
		result.Latitude = defaults.Latitude
	}
	if result.Longitude == nil {
		result.Longitude = defaults.Longitude
	}

	// String fields: use default if empty
	if result.Timezone == "" {
		result.Timezone = defaults.Timezone
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.JSONOutput == "" {
		result.JSONOutput = defaults.JSONOutput
	}
	if result.WeatherURL == "" {
		result.WeatherURL = defaults.WeatherURL
	}
	if result.FetchTimeout == "" {
		result.FetchTimeout = defaults.FetchTimeout
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Numeric fields: use default if zero
	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}
	if result.VetoThreshold == 0 {
		result.VetoThreshold = defaults.VetoThreshold
	}
	if result.MinActive == 0 {
		result.MinActive = defaults.MinActive
	}
	if result.TopFeatures == 0 {
		result.TopFeatures = defaults.TopFeatures
	}

	// Collections: use default if unset
	if len(result.WeekendDays) == 0 {
		result.WeekendDays = defaults.WeekendDays
	}
	if len(result.Events) == 0 {
		result.Events = defaults.Events
	}
	if len(result.GroupWeights) == 0 {
		result.GroupWeights = defaults.GroupWeights
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LatLon returns the configured coordinate, or zero for unset values.
func (c *Config) LatLon() (float64, float64) {
	var lat, lon float64
	if c.Latitude != nil {
		lat = *c.Latitude
	}
	if c.Longitude != nil {
		lon = *c.Longitude
	}
	return lat, lon
}

// Weights returns the default group weight table with the configured overrides applied.
func (c *Config) Weights() features.GroupWeights {
	return features.DefaultGroupWeights().Merge(c.GroupWeights)
}

// Timeout parses FetchTimeout; an empty value means fetch.DefaultTimeout.
func (c *Config) Timeout() (time.Duration, error) {
	if c.FetchTimeout == "" {
		return fetch.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid fetch_timeout %q: %w", c.FetchTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config error: fetch_timeout must be positive")
	}
	return d, nil
}

// Location loads the configured time zone; empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config error: invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Weekdays parses WeekendDays by English day name, case-insensitively.
func (c *Config) Weekdays() ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(c.WeekendDays))
	for _, name := range c.WeekendDays {
		d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("config error: unknown weekend day %q", name)
		}
		days = append(days, d)
	}
	return days, nil
}

// Calendar builds the locale calendar: the default observances plus configured events.
func (c *Config) Calendar() (vectorize.Calendar, error) {
	cal := vectorize.DefaultCalendar()

	weekend, err := c.Weekdays()
	if err != nil {
		return vectorize.Calendar{}, err
	}
	if len(weekend) > 0 {
		cal.Weekend = weekend
	}

	lat, _ := c.LatLon()
	cal.Latitude = lat

	for _, e := range c.Events {
		activation := e.Activation
		if activation == 0 && e.Feature != "" {
			activation = 1
		}
		cal.Events = append(cal.Events, vectorize.EventRule{
			Name:       e.Name,
			Month:      time.Month(e.Month),
			Day:        e.Day,
			Feature:    features.Key(strings.ToLower(strings.TrimSpace(e.Feature))),
			Activation: activation,
			Holiday:    e.Holiday,
		})
	}

	if err := cal.Validate(); err != nil {
		return vectorize.Calendar{}, fmt.Errorf("config error: %w", err)
	}
	return cal, nil
}
