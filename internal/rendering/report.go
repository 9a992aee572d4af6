package rendering

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/context-suggester/internal/ranking"
	"github.com/jonathan/context-suggester/internal/types"
)

// DefaultTemplate is the built-in plain-text report layout.
//
//go:embed templates/report.txt.tmpl
var DefaultTemplate string

// explainLimit is how many contributing features each line names.
const explainLimit = 3

var funcs = template.FuncMap{
	"clean":   CleanText,
	"label":   ranking.Label,
	"reading": formatReading,
	"code":    formatCode,
	"explain": func(c []types.Contribution) string { return ranking.Explain(c, explainLimit) },
}

// RenderReport renders a report with the template at templatePath, or DefaultTemplate when
// templatePath is empty.
func RenderReport(report *types.Report, templatePath string) (string, error) {
	if report == nil {
		return "", &RenderError{Message: "report is nil"}
	}

	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, report); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}

	return result.String(), nil
}

// WriteReport renders the report and writes it to path.
func WriteReport(report *types.Report, templatePath, path string) error {
	content, err := RenderReport(report, templatePath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return &RenderError{
			Message: fmt.Sprintf("failed to write report: %s", path),
			Cause:   err,
		}
	}
	return nil
}

// parseTemplate reads and parses a report template file
func parseTemplate(templatePath string) (*template.Template, error) {
	content := DefaultTemplate
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &TemplateError{
					Message: fmt.Sprintf("template file not found: %s", templatePath),
					Cause:   err,
				}
			}
			return nil, &TemplateError{
				Message: fmt.Sprintf("failed to read template file: %s", templatePath),
				Cause:   err,
			}
		}
		content = string(raw)
	}

	tmpl, err := template.New("report").Funcs(funcs).Parse(content)
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	return tmpl, nil
}

func formatReading(v float64, unit string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "unknown"
	}
	return fmt.Sprintf("%.1f%s", v, unit)
}

func formatCode(code int) string {
	if code == types.MissingWeatherCode {
		return "unknown"
	}
	return fmt.Sprintf("%d", code)
}
