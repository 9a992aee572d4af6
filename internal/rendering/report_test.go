package rendering

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/context-suggester/internal/features"
	"github.com/jonathan/context-suggester/internal/types"
)

func sampleReport() *types.Report {
	return &types.Report{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, 3, 15, 19, 0, 0, 0, time.UTC),
		Location:    types.Location{Latitude: 35.6892, Longitude: 51.389, Timezone: "Asia/Tehran"},
		Conditions: types.Conditions{
			Temperature:         15.2,
			ApparentTemperature: 13.1,
			Humidity:            50,
			WindSpeed:           math.NaN(),
			WeatherCode:         61,
			Source:              "open-meteo",
		},
		ActiveFeatures: []types.FeatureActivation{
			{Feature: features.WeatherRain, Group: features.GroupWeather, Value: 1},
		},
		Results: types.GroupedResults{
			TopN: 3,
			Categories: []types.CategoryResult{
				{Name: "Food", Subcategories: []types.SubcategoryResult{
					{Name: "Drinks", Eligible: 1, Items: []types.RankedSuggestion{{
						Rank: 1, ID: "tea", Text: "Hot tea\nby the window", Score: 1.25,
						Contributions: []types.Contribution{
							{Feature: features.WeatherRain, Group: features.GroupWeather, Activation: 1, Preference: 1, Value: 1},
						},
					}}},
					{Name: "Picnic", Empty: true, Vetoed: 2, Items: []types.RankedSuggestion{}},
				}},
			},
		},
		Stats:  types.RunStats{Files: 2, Loaded: 3, Rejected: 1, Scored: 3, Vetoed: 2},
		Issues: []types.Issue{{Kind: types.IssueCatalog, Source: "bad.json", Message: "record rejected"}},
	}
}

func TestRenderReport_DefaultTemplate(t *testing.T) {
	out, err := RenderReport(sampleReport(), "")
	require.NoError(t, err)

	assert.Contains(t, out, "CONTEXT SUGGESTIONS")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "35.6892, 51.3890 (Asia/Tehran)")
	assert.NotContains(t, out, "DEGRADED")

	assert.Contains(t, out, "15.2°C (feels 13.1°C)")
	assert.Contains(t, out, "Wind:         unknown")
	assert.Contains(t, out, "Weather code: 61")
	assert.Contains(t, out, "weather_rain")

	assert.Contains(t, out, "Food > Drinks")
	assert.Contains(t, out, "1. Hot tea by the window  [1.250]")
	assert.Contains(t, out, "fits weather_rain")
	assert.Contains(t, out, "Food > Picnic")
	assert.Contains(t, out, "(no suitable suggestions)")
	assert.Contains(t, out, "(2 vetoed by current conditions)")

	assert.Contains(t, out, "Catalog files: 2 (0 skipped)")
	assert.Contains(t, out, "3 loaded, 1 rejected")
	assert.Contains(t, out, "Issues:        1")
	assert.Contains(t, out, "[catalog] bad.json: record rejected")
}

func TestRenderReport_Degraded(t *testing.T) {
	report := sampleReport()
	report.Degraded = true
	report.Conditions = types.DegradedConditions(report.GeneratedAt)
	report.Conditions.WeatherCode = types.MissingWeatherCode

	out, err := RenderReport(report, "")
	require.NoError(t, err)
	assert.Contains(t, out, "DEGRADED")
	assert.Contains(t, out, "Weather code: unknown")
}

func TestRenderReport_NoResults(t *testing.T) {
	report := sampleReport()
	report.Results = types.GroupedResults{TopN: 3}
	report.ActiveFeatures = nil

	out, err := RenderReport(report, "")
	require.NoError(t, err)
	assert.Contains(t, out, "(no suggestions loaded)")
	assert.Contains(t, out, "(nothing strongly active)")
}

func TestRenderReport_NilReport(t *testing.T) {
	_, err := RenderReport(nil, "")
	require.Error(t, err)

	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestRenderReport_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`{{.RunID}}|{{label "A" "B"}}|{{clean "x\ny"}}`), 0644))

	out, err := RenderReport(sampleReport(), path)
	require.NoError(t, err)
	assert.Equal(t, "run-1|A > B|x y", out)
}

func TestRenderReport_TemplateErrors(t *testing.T) {
	dir := t.TempDir()
	badSyntax := filepath.Join(dir, "bad.tmpl")
	require.NoError(t, os.WriteFile(badSyntax, []byte(`{{.RunID`), 0644))
	badField := filepath.Join(dir, "field.tmpl")
	require.NoError(t, os.WriteFile(badField, []byte(`{{.NoSuchField}}`), 0644))

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{"missing file", filepath.Join(dir, "missing.tmpl"), "template file not found"},
		{"parse failure", badSyntax, "failed to parse template"},
		{"execute failure", badField, "failed to execute template"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenderReport(sampleReport(), tt.path)
			require.Error(t, err)

			var tmplErr *TemplateError
			assert.ErrorAs(t, err, &tmplErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteReport(sampleReport(), "", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Food > Drinks")
}

func TestWriteReport_BadPath(t *testing.T) {
	err := WriteReport(sampleReport(), "", filepath.Join(t.TempDir(), "missing", "out.txt"))
	require.Error(t, err)

	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}
