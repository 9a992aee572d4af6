package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/context-suggester/internal/features"
	"github.com/jonathan/context-suggester/internal/fetch"
	"github.com/jonathan/context-suggester/internal/vectorize"
)

func float64Ptr(v float64) *float64 { return &v }

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"latitude": 48.85,
		"longitude": 2.35,
		"timezone": "Europe/Paris",
		"data_dir": "catalog",
		"top_n": 5,
		"weekend_days": ["saturday", "sunday"],
		"group_weights": {"temp": 2},
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.NotNil(t, cfg.Latitude)
	assert.Equal(t, 48.85, *cfg.Latitude)
	assert.Equal(t, 2.35, *cfg.Longitude)
	assert.Equal(t, "Europe/Paris", cfg.Timezone)
	assert.Equal(t, "catalog", cfg.DataDir)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, []string{"saturday", "sunday"}, cfg.WeekendDays)
	assert.Equal(t, 2.0, cfg.GroupWeights["temp"])
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
latitude: -33.87
longitude: 151.21
timezone: Australia/Sydney
veto_threshold: 0.6
allow_degraded: true
events:
  - name: anniversary
    month: 6
    day: 1
    feature: romantic_event
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, -33.87, *cfg.Latitude)
	assert.Equal(t, "Australia/Sydney", cfg.Timezone)
	assert.Equal(t, 0.6, cfg.VetoThreshold)
	assert.True(t, cfg.AllowDegraded)
	require.Len(t, cfg.Events, 1)
	assert.Equal(t, "anniversary", cfg.Events[0].Name)
	assert.Equal(t, 6, cfg.Events[0].Month)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "config.yml", "top_n: [1, 2")

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_Defaults(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantMsg string
	}{
		{"latitude out of range", Config{Latitude: float64Ptr(91)}, "Latitude"},
		{"longitude out of range", Config{Longitude: float64Ptr(-181)}, "Longitude"},
		{"unknown timezone", Config{Timezone: "Mars/Olympus"}, "Timezone"},
		{"negative top n", Config{TopN: -1}, "TopN"},
		{"veto above one", Config{VetoThreshold: 1.5}, "VetoThreshold"},
		{"bad log level", Config{LogLevel: "loud"}, "LogLevel"},
		{"bad weather url", Config{WeatherURL: "not a url"}, "WeatherURL"},
		{"bad event month", Config{Events: []EventConfig{{Month: 13, Day: 1}}}, "Month"},
		{"unknown weekend day", Config{WeekendDays: []string{"caturday"}}, "unknown weekend day"},
		{"bad timeout", Config{FetchTimeout: "soon"}, "invalid fetch_timeout"},
		{"negative timeout", Config{FetchTimeout: "-1s"}, "must be positive"},
		{"unknown weight group", Config{GroupWeights: map[string]float64{"vibes": 1}}, "unknown groups: vibes"},
		{"zero weight", Config{GroupWeights: map[string]float64{"temp": 0}}, "must be positive"},
		{"non-event feature", Config{Events: []EventConfig{{Month: 5, Day: 5, Feature: "mood_happy"}}}, "not an event feature"},
		{"impossible date", Config{Events: []EventConfig{{Month: 2, Day: 30}}}, "invalid day 30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		Latitude: float64Ptr(10),
		DataDir:  "mine",
		TopN:     7,
	}

	merged := cfg.MergeWithDefaults(Defaults())

	// Config values win
	assert.Equal(t, 10.0, *merged.Latitude)
	assert.Equal(t, "mine", merged.DataDir)
	assert.Equal(t, 7, merged.TopN)

	// Defaults fill the rest
	assert.Equal(t, 51.3890, *merged.Longitude)
	assert.Equal(t, "Asia/Tehran", merged.Timezone)
	assert.Equal(t, "suggestion_output.txt", merged.Output)
	assert.Equal(t, 0.5, merged.VetoThreshold)
	assert.Equal(t, []string{"friday"}, merged.WeekendDays)
	assert.Equal(t, fetch.DefaultWeatherURL, merged.WeatherURL)
	assert.Equal(t, "info", merged.LogLevel)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{DataDir: "mine"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "mine", merged.DataDir)
	assert.Nil(t, merged.Latitude)
	assert.Empty(t, merged.Output)
	assert.Zero(t, merged.TopN)
}

func TestWeights(t *testing.T) {
	cfg := &Config{GroupWeights: map[string]float64{"Temp": 2}}
	w := cfg.Weights()

	assert.Equal(t, 2.0, w[features.GroupTemp])
	assert.Equal(t, features.DefaultGroupWeights()[features.GroupMood], w[features.GroupMood])
}

func TestTimeout(t *testing.T) {
	d, err := (&Config{}).Timeout()
	require.NoError(t, err)
	assert.Equal(t, fetch.DefaultTimeout, d)

	d, err = (&Config{FetchTimeout: "2500ms"}).Timeout()
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, d)
}

func TestLocation(t *testing.T) {
	loc, err := (&Config{}).Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = (&Config{Timezone: "Asia/Tehran"}).Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tehran", loc.String())
}

func TestCalendar(t *testing.T) {
	cfg := &Config{
		Latitude:    float64Ptr(-33.87),
		WeekendDays: []string{"Saturday", " sunday "},
		Events: []EventConfig{
			{Name: "anniversary", Month: 6, Day: 1, Feature: "romantic_event"},
			{Name: "bank-holiday", Month: 8, Day: 5, Holiday: true},
		},
	}

	cal, err := cfg.Calendar()
	require.NoError(t, err)

	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, cal.Weekend)
	assert.Equal(t, -33.87, cal.Latitude)

	defaults := len(vectorize.DefaultCalendar().Events)
	require.Len(t, cal.Events, defaults+2)

	added := cal.Events[defaults]
	assert.Equal(t, features.RomanticEvent, added.Feature)
	assert.Equal(t, 1.0, added.Activation)
	assert.Equal(t, time.June, added.Month)

	holiday := cal.Events[defaults+1]
	assert.Empty(t, holiday.Feature)
	assert.Zero(t, holiday.Activation)
	assert.True(t, holiday.Holiday)

	assert.True(t, cal.IsHoliday(time.Date(2024, 8, 5, 12, 0, 0, 0, time.UTC)))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLatitude, "40.7")
	t.Setenv(EnvTopN, "4")
	t.Setenv(EnvWeekendDays, "saturday, sunday,")
	t.Setenv(EnvAllowDegraded, "true")
	t.Setenv(EnvVetoThreshold, "not-a-number")

	cfg := Defaults()
	cfg.ApplyEnv()

	assert.Equal(t, 40.7, *cfg.Latitude)
	assert.Equal(t, 4, cfg.TopN)
	assert.Equal(t, []string{"saturday", "sunday"}, cfg.WeekendDays)
	assert.True(t, cfg.AllowDegraded)
	assert.Equal(t, 0.5, cfg.VetoThreshold) // unparsable value ignored
	assert.Equal(t, "Asia/Tehran", cfg.Timezone)
}
