// Package rubric scores generated agent documents against a fixed, weighted
// set of checks. Scoring is a pure function of the document text: no I/O,
// no randomness, identical input always yields an identical Report.
package rubric

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// CheckName identifies one rubric check.
type CheckName string

const (
	CheckStructure    CheckName = "structure"
	CheckSyntax       CheckName = "syntax"
	CheckRichness     CheckName = "richness"
	CheckCompleteness CheckName = "completeness"
)

// Check weights, in percentage points. They sum to 100.
const (
	weightStructure    = 30
	weightSyntax       = 25
	weightRichness     = 25
	weightCompleteness = 20
)

// Severity classifies a finding.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
	SeverityInfo  Severity = "info"
)

// Finding is one textual observation produced by a check.
type Finding struct {
	Check    CheckName `json:"check"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
}

// CheckResult is the outcome of a single weighted check.
type CheckResult struct {
	Name     CheckName `json:"name"`
	Score    int       `json:"score"`  // sub-score in [0,100]
	Weight   int       `json:"weight"` // percentage points of the aggregate
	Findings []Finding `json:"findings,omitempty"`
}

// Grade is the discrete bucket derived from the aggregate score.
type Grade string

const (
	GradeExcellent Grade = "excellent" // >= 90
	GradeGood      Grade = "good"      // >= 80
	GradeFair      Grade = "fair"      // >= 70
	GradePass      Grade = "pass"      // >= 60
	GradePoor      Grade = "poor"
)

// Report is the full scoring result for one document.
type Report struct {
	Score       int           `json:"score"`
	Grade       Grade         `json:"grade"`
	Checks      []CheckResult `json:"checks"`
	Findings    []Finding     `json:"findings"`
	Suggestions []string      `json:"suggestions,omitempty"`
	Chars       int           `json:"chars"`
	Lines       int           `json:"lines"`
}

// Score evaluates a document and returns the aggregate report.
func Score(doc string) Report {
	if strings.TrimSpace(doc) == "" {
		return emptyReport()
	}

	checks := []CheckResult{
		checkStructure(doc),
		checkSyntax(doc),
		checkRichness(doc),
		checkCompleteness(doc),
	}

	var weighted float64
	var findings []Finding
	for _, c := range checks {
		weighted += float64(c.Score) * float64(c.Weight) / 100.0
		findings = append(findings, c.Findings...)
	}
	total := int(math.Round(weighted))
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return Report{
		Score:       total,
		Grade:       GradeFor(total),
		Checks:      checks,
		Findings:    findings,
		Suggestions: suggestions(total, checks),
		Chars:       utf8.RuneCountInString(doc),
		Lines:       strings.Count(doc, "\n") + 1,
	}
}

// emptyReport handles the empty-document edge case: aggregate 0 and a finding
// for each missing required section.
func emptyReport() Report {
	findings := []Finding{
		{Check: CheckRichness, Severity: SeverityError, Message: "document is empty"},
	}
	for _, section := range requiredSections {
		findings = append(findings, Finding{
			Check:    CheckStructure,
			Severity: SeverityError,
			Message:  fmt.Sprintf("missing section: %s", section),
		})
	}
	checks := []CheckResult{
		{Name: CheckStructure, Weight: weightStructure, Findings: findings[1:]},
		{Name: CheckSyntax, Weight: weightSyntax},
		{Name: CheckRichness, Weight: weightRichness, Findings: findings[:1]},
		{Name: CheckCompleteness, Weight: weightCompleteness},
	}
	return Report{
		Score:       0,
		Grade:       GradePoor,
		Checks:      checks,
		Findings:    findings,
		Suggestions: []string{"provide a non-empty document to score"},
	}
}

// GradeFor maps an aggregate score to its bucket.
func GradeFor(score int) Grade {
	switch {
	case score >= 90:
		return GradeExcellent
	case score >= 80:
		return GradeGood
	case score >= 70:
		return GradeFair
	case score >= 60:
		return GradePass
	default:
		return GradePoor
	}
}

func suggestions(total int, checks []CheckResult) []string {
	var out []string
	switch {
	case total >= 90:
		out = append(out, "quality is excellent; ready to use as-is")
	case total >= 80:
		out = append(out, "quality is good; small improvements would push it above 90")
	default:
		out = append(out, "quality needs improvement")
	}
	for _, c := range checks {
		if c.Score >= 80 {
			continue
		}
		switch c.Name {
		case CheckStructure:
			out = append(out, "add the missing sections (核心理念, 思维模型, 人格特质 ...)")
		case CheckSyntax:
			out = append(out, "fix Lisp syntax; make sure parentheses are balanced")
		case CheckRichness:
			out = append(out, "enrich the content: more thinking models, steps and concrete examples")
		case CheckCompleteness:
			out = append(out, "expand thin sections instead of one-line stubs")
		}
	}
	if total < 70 {
		out = append(out, "consider refining the input document and re-running the extraction")
	}
	return out
}
