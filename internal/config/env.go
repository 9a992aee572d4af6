package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnv.
const (
	EnvLatitude      = "SUGGEST_LATITUDE"
	EnvLongitude     = "SUGGEST_LONGITUDE"
	EnvTimezone      = "SUGGEST_TIMEZONE"
	EnvDataDir       = "SUGGEST_DATA_DIR"
	EnvOutput        = "SUGGEST_OUTPUT"
	EnvJSONOutput    = "SUGGEST_JSON_OUTPUT"
	EnvTopN          = "SUGGEST_TOP_N"
	EnvVetoThreshold = "SUGGEST_VETO_THRESHOLD"
	EnvWeekendDays   = "SUGGEST_WEEKEND_DAYS"
	EnvWeatherURL    = "SUGGEST_WEATHER_URL"
	EnvFetchTimeout  = "SUGGEST_FETCH_TIMEOUT"
	EnvAllowDegraded = "SUGGEST_ALLOW_DEGRADED"
	EnvVerbose       = "SUGGEST_VERBOSE"
	EnvLogLevel      = "SUGGEST_LOG_LEVEL"
)

// ApplyEnv overrides fields from SUGGEST_* environment variables. Unparsable values are ignored.
func (c *Config) ApplyEnv() {
	if v, ok := getEnvFloat(EnvLatitude); ok {
		c.Latitude = &v
	}
	if v, ok := getEnvFloat(EnvLongitude); ok {
		c.Longitude = &v
	}
	c.Timezone = getEnvString(EnvTimezone, c.Timezone)
	c.DataDir = getEnvString(EnvDataDir, c.DataDir)
	c.Output = getEnvString(EnvOutput, c.Output)
	c.JSONOutput = getEnvString(EnvJSONOutput, c.JSONOutput)
	c.TopN = getEnvInt(EnvTopN, c.TopN)
	if v, ok := getEnvFloat(EnvVetoThreshold); ok {
		c.VetoThreshold = v
	}
	if days := getEnvString(EnvWeekendDays, ""); days != "" {
		c.WeekendDays = splitList(days)
	}
	c.WeatherURL = getEnvString(EnvWeatherURL, c.WeatherURL)
	c.FetchTimeout = getEnvString(EnvFetchTimeout, c.FetchTimeout)
	c.AllowDegraded = getEnvBool(EnvAllowDegraded, c.AllowDegraded)
	c.Verbose = getEnvBool(EnvVerbose, c.Verbose)
	c.LogLevel = getEnvString(EnvLogLevel, c.LogLevel)
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as a float, reporting whether it was set and valid.
func getEnvFloat(key string) (float64, bool) {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
