// Package observability provides logging and formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/context-suggester/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	// pad before styling so escape codes don't count toward the width
	fmt.Fprintf(p.out, "│ %s │\n", titleStyle.Render(fmt.Sprintf("%-*s", boxWidth-4, title)))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func reading(v float64, unit string) string {
	if math.IsNaN(v) {
		return "unknown"
	}
	return fmt.Sprintf("%.1f%s", v, unit)
}

// PrintConditions outputs the weather readings the run is based on.
func (p *Printer) PrintConditions(cond types.Conditions) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Temperature:  %s (feels %s)\n", reading(cond.Temperature, "°C"), reading(cond.ApparentTemperature, "°C")))
	sb.WriteString(fmt.Sprintf("Humidity:     %s\n", reading(cond.Humidity, "%")))
	sb.WriteString(fmt.Sprintf("Wind:         %s\n", reading(cond.WindSpeed, " km/h")))
	if cond.WeatherCode == types.MissingWeatherCode {
		sb.WriteString("Code:         unknown\n")
	} else {
		sb.WriteString(fmt.Sprintf("Code:         %d\n", cond.WeatherCode))
	}
	if !cond.ObservedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Observed:     %s\n", cond.ObservedAt.Format("2006-01-02 15:04 MST")))
	}
	sb.WriteString(fmt.Sprintf("Source:       %s", cond.Source))

	title := "CURRENT CONDITIONS"
	if cond.Degraded {
		title += " (DEGRADED)"
	}
	p.printBox(title, sb.String())
}

// PrintActiveFeatures outputs the strongest context activations as bars.
func (p *Printer) PrintActiveFeatures(active []types.FeatureActivation) {
	if len(active) == 0 {
		p.printBox("ACTIVE CONTEXT", "No feature above threshold")
		return
	}

	var sb strings.Builder
	count := min(len(active), maxItemsToShow*2)
	for i := 0; i < count; i++ {
		a := active[i]
		bar := strings.Repeat("█", int(math.Round(a.Value*10)))
		sb.WriteString(fmt.Sprintf("%-24s %-10s %.2f", a.Feature, bar, a.Value))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(active) > count {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(active)-count))
	}

	p.printBox("ACTIVE CONTEXT", sb.String())
}

// PrintResults outputs each subcategory's ranked suggestions.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResults(results types.GroupedResults) {
	if len(results.Categories) == 0 {
		fmt.Fprintln(p.out, faintStyle.Render("No suggestions loaded."))
		return
	}

	for _, cat := range results.Categories {
		for _, sub := range cat.Subcategories {
			var sb strings.Builder
			if sub.Empty {
				sb.WriteString(faintStyle.Render("(no suitable suggestions)"))
			}
			for i, item := range sub.Items {
				sb.WriteString(fmt.Sprintf("#%d  %s\n", item.Rank, item.Text))
				sb.WriteString(fmt.Sprintf("    Score: %.3f", item.Score))
				if i < len(sub.Items)-1 {
					sb.WriteString("\n")
				}
			}
			if sub.Vetoed > 0 {
				sb.WriteString("\n" + warnStyle.Render(fmt.Sprintf("%d vetoed by current conditions", sub.Vetoed)))
			}
			p.printBox(fmt.Sprintf("%s > %s", cat.Name, sub.Name), sb.String())
		}
	}
}

// PrintIssues outputs the non-fatal problems collected during the run.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintIssues(issues []types.Issue) {
	if len(issues) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO ISSUES")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d issues:\n\n", len(issues)))

	count := min(len(issues), maxItemsToShow)
	for i := 0; i < count; i++ {
		issue := issues[i]
		sb.WriteString(fmt.Sprintf("⚠ %s", issue.Kind))
		if issue.Source != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", issue.Source))
		}
		sb.WriteString(fmt.Sprintf("\n  %s", issue.Message))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(issues) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n\n... and %d more issues", len(issues)-maxItemsToShow))
	}

	p.printBox("ISSUES", sb.String())
}
