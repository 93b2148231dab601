// Package report renders rubric results for terminals and machines.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"distill/internal/rubric"
)

// FileReport pairs a scored file with its rubric report. The embedded report
// keeps "score" a top-level JSON field.
type FileReport struct {
	File string `json:"file"`
	rubric.Report
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	ruleStyle    = lipgloss.NewStyle().Faint(true)
	excellentSty = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warnSty      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorSty     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoSty      = lipgloss.NewStyle().Faint(true)
)

const ruleWidth = 60

// Render returns the human-readable report for one file.
func Render(path string, rep rubric.Report) string {
	var b strings.Builder
	rule := ruleStyle.Render(strings.Repeat("=", ruleWidth))
	thin := ruleStyle.Render(strings.Repeat("-", ruleWidth))

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, titleStyle.Render("Quality report: "+filepath.Base(path)))
	fmt.Fprintln(&b, rule)

	fmt.Fprintf(&b, "%s  grade: %s\n\n",
		scoreStyle(rep.Score).Render(fmt.Sprintf("score: %d/100", rep.Score)),
		string(rep.Grade))

	fmt.Fprintln(&b, titleStyle.Render("Checks"))
	fmt.Fprintln(&b, thin)
	for _, c := range rep.Checks {
		fmt.Fprintf(&b, "  %-14s %3d/100  (weight %d)\n", c.Name, c.Score, c.Weight)
	}
	if rep.Chars > 0 {
		fmt.Fprintf(&b, "  %-14s %d chars, %d lines\n", "size", rep.Chars, rep.Lines)
	}
	fmt.Fprintln(&b)

	if len(rep.Findings) > 0 {
		fmt.Fprintln(&b, titleStyle.Render("Findings"))
		fmt.Fprintln(&b, thin)
		for _, f := range rep.Findings {
			fmt.Fprintf(&b, "  %s %s\n", severityStyle(f.Severity).Render("["+string(f.Severity)+"]"), f.Message)
		}
		fmt.Fprintln(&b)
	} else {
		fmt.Fprintln(&b, excellentSty.Render("No findings."))
		fmt.Fprintln(&b)
	}

	if len(rep.Suggestions) > 0 {
		fmt.Fprintln(&b, titleStyle.Render("Suggestions"))
		fmt.Fprintln(&b, thin)
		for i, s := range rep.Suggestions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
		}
	}
	fmt.Fprintln(&b, rule)
	return b.String()
}

// RenderSummary returns batch statistics across multiple scored files.
func RenderSummary(results []FileReport) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	rule := ruleStyle.Render(strings.Repeat("=", ruleWidth))

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, titleStyle.Render("Summary"))
	fmt.Fprintln(&b, rule)

	minScore, maxScore, total := 101, -1, 0
	dist := map[rubric.Grade]int{}
	for _, r := range results {
		total += r.Score
		if r.Score < minScore {
			minScore = r.Score
		}
		if r.Score > maxScore {
			maxScore = r.Score
		}
		dist[r.Grade]++
	}
	fmt.Fprintf(&b, "files: %d  avg: %.1f  min: %d  max: %d\n",
		len(results), float64(total)/float64(len(results)), minScore, maxScore)

	for _, g := range []rubric.Grade{rubric.GradeExcellent, rubric.GradeGood, rubric.GradeFair, rubric.GradePass, rubric.GradePoor} {
		if n := dist[g]; n > 0 {
			fmt.Fprintf(&b, "  %-10s %s (%d)\n", g, strings.Repeat("#", n), n)
		}
	}
	fmt.Fprintln(&b, rule)
	return b.String()
}

// RenderJSON returns the machine-readable form. Every entry carries an
// integer "score" field.
func RenderJSON(results []FileReport) (string, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling reports: %w", err)
	}
	return string(data), nil
}

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 90:
		return excellentSty
	case score >= 70:
		return warnSty
	default:
		return errorSty
	}
}

func severityStyle(s rubric.Severity) lipgloss.Style {
	switch s {
	case rubric.SeverityError:
		return errorSty
	case rubric.SeverityWarn:
		return warnSty
	default:
		return infoSty
	}
}
