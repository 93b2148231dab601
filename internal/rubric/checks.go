package rubric

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Required section markers. A missing one is a structural error.
var requiredSections = []string{"核心理念", "思维模型"}

// Recommended section markers. Missing ones only dilute the structure score.
var recommendedSections = []string{
	"目标",
	"人格特质",
	"核心信念",
	"语言武器库",
	"执行流程",
	"质量检验标准",
	"禁忌清单",
}

// Minimum body sizes (meaningful runes, whitespace and parens excluded) for
// sections that are present. Thinner bodies cost completeness points.
var sectionMinBody = []struct {
	name string
	min  int
}{
	{"核心理念", 20},
	{"思维模型", 40},
	{"目标", 15},
	{"核心信念", 25},
}

var (
	defunRe         = regexp.MustCompile(`\(defun\s+\S+`)
	thinkingModelRe = regexp.MustCompile(`\([^)]*(法|思维|模型)`)
	stepRe          = regexp.MustCompile(`第[一二三四五六七八九十]+步`)
	hanCommentRe    = regexp.MustCompile(`;.*\p{Han}`)
)

var placeholderMarkers = []string{"...", "…", "待补充", "TODO"}

var exampleMarkers = []string{"示例", "例如", "案例"}

// checkStructure scores presence of required and recommended section markers.
// Required markers carry 80% of the sub-score, recommended ones the rest.
func checkStructure(doc string) CheckResult {
	res := CheckResult{Name: CheckStructure, Weight: weightStructure}

	reqHit := 0
	for _, section := range requiredSections {
		if strings.Contains(doc, section) {
			reqHit++
			continue
		}
		res.Findings = append(res.Findings, Finding{
			Check:    CheckStructure,
			Severity: SeverityError,
			Message:  fmt.Sprintf("missing section: %s", section),
		})
	}

	recHit := 0
	var missingRec []string
	for _, section := range recommendedSections {
		if strings.Contains(doc, section) {
			recHit++
		} else {
			missingRec = append(missingRec, section)
		}
	}
	if len(missingRec) > 0 {
		res.Findings = append(res.Findings, Finding{
			Check:    CheckStructure,
			Severity: SeverityWarn,
			Message:  fmt.Sprintf("missing %d recommended sections: %s", len(missingRec), strings.Join(missingRec, ", ")),
		})
	}

	res.Score = 80*reqHit/len(requiredSections) + 20*recHit/len(recommendedSections)
	return res
}

// checkSyntax scores delimiter balance and basic Lisp shape. Each unmatched
// parenthesis costs 10 points, so more imbalance always scores lower until
// the floor.
func checkSyntax(doc string) CheckResult {
	res := CheckResult{Name: CheckSyntax, Weight: weightSyntax}
	score := 100

	unmatched, firstBad := scanParens(doc)
	if unmatched > 0 {
		score -= min(100, 10*unmatched)
		res.Findings = append(res.Findings, Finding{
			Check:    CheckSyntax,
			Severity: SeverityError,
			Message:  fmt.Sprintf("unbalanced parentheses at position %d: %d unmatched", firstBad, unmatched),
		})
	}

	if !defunRe.MatchString(doc) {
		score -= 10
		res.Findings = append(res.Findings, Finding{
			Check:    CheckSyntax,
			Severity: SeverityWarn,
			Message:  "no (defun ...) form found",
		})
	}

	if !hanCommentRe.MatchString(doc) {
		res.Findings = append(res.Findings, Finding{
			Check:    CheckSyntax,
			Severity: SeverityInfo,
			Message:  "no annotated Lisp comments (;) found",
		})
	}

	if score < 0 {
		score = 0
	}
	res.Score = score
	return res
}

// scanParens returns the number of unmatched parentheses and the rune
// position of the first unmatched one.
func scanParens(doc string) (unmatched, firstBad int) {
	var openStack []int
	unmatchedClose := 0
	firstClose := -1
	pos := 0
	for _, r := range doc {
		switch r {
		case '(':
			openStack = append(openStack, pos)
		case ')':
			if len(openStack) > 0 {
				openStack = openStack[:len(openStack)-1]
			} else {
				unmatchedClose++
				if firstClose == -1 {
					firstClose = pos
				}
			}
		}
		pos++
	}
	unmatched = unmatchedClose + len(openStack)
	switch {
	case firstClose != -1 && len(openStack) > 0:
		firstBad = min(firstClose, openStack[0])
	case firstClose != -1:
		firstBad = firstClose
	case len(openStack) > 0:
		firstBad = openStack[0]
	}
	return unmatched, firstBad
}

// checkRichness scores content volume and concreteness. Length is measured in
// meaningful runes (parentheses excluded) so that delimiter edits never raise
// this sub-score.
func checkRichness(doc string) CheckResult {
	res := CheckResult{Name: CheckRichness, Weight: weightRichness}

	length := meaningfulRunes(doc, false)
	var score int
	switch {
	case length >= 500:
		score = 100
	case length >= 250:
		score = 70
		res.Findings = append(res.Findings, Finding{
			Check:    CheckRichness,
			Severity: SeverityWarn,
			Message:  fmt.Sprintf("content is short (%d chars); extraction may be incomplete", length),
		})
	default:
		score = 40
		res.Findings = append(res.Findings, Finding{
			Check:    CheckRichness,
			Severity: SeverityError,
			Message:  fmt.Sprintf("content is very short (%d chars)", length),
		})
	}

	for _, marker := range placeholderMarkers {
		if strings.Contains(doc, marker) {
			score -= 15
			res.Findings = append(res.Findings, Finding{
				Check:    CheckRichness,
				Severity: SeverityWarn,
				Message:  fmt.Sprintf("placeholder content present (%q)", marker),
			})
			break
		}
	}

	if n := len(thinkingModelRe.FindAllString(doc, -1)); n < 2 {
		res.Findings = append(res.Findings, Finding{
			Check:    CheckRichness,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("only %d thinking-model forms found (3-5 recommended)", n),
		})
	}
	if n := len(stepRe.FindAllString(doc, -1)); n < 3 {
		res.Findings = append(res.Findings, Finding{
			Check:    CheckRichness,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("only %d execution steps found (3-7 recommended)", n),
		})
	}
	if !containsAny(doc, exampleMarkers) {
		res.Findings = append(res.Findings, Finding{
			Check:    CheckRichness,
			Severity: SeverityInfo,
			Message:  "no examples or cases referenced",
		})
	}

	if score < 0 {
		score = 0
	}
	res.Score = score
	return res
}

// checkCompleteness scores how substantial the present sections are. Absent
// sections are structure's concern and cost nothing here.
func checkCompleteness(doc string) CheckResult {
	res := CheckResult{Name: CheckCompleteness, Weight: weightCompleteness}
	score := 100

	for _, sec := range sectionMinBody {
		idx := strings.Index(doc, sec.name)
		if idx == -1 {
			continue
		}
		body := doc[idx:]
		if end := strings.IndexRune(body, ')'); end != -1 {
			body = body[:end]
		}
		if meaningfulRunes(body, true) < sec.min {
			score -= 15
			res.Findings = append(res.Findings, Finding{
				Check:    CheckCompleteness,
				Severity: SeverityWarn,
				Message:  fmt.Sprintf("section %s looks thin", sec.name),
			})
		}
	}

	if !strings.Contains(doc, "使用指南") && !strings.Contains(doc, "start") {
		res.Findings = append(res.Findings, Finding{
			Check:    CheckCompleteness,
			Severity: SeverityInfo,
			Message:  "no usage guide or start entry point",
		})
	}

	if score < 0 {
		score = 0
	}
	res.Score = score
	return res
}

// meaningfulRunes counts runes excluding parentheses, and optionally
// whitespace, so that delimiter-only edits cannot change length scores.
func meaningfulRunes(s string, skipSpace bool) int {
	n := 0
	for _, r := range s {
		if r == '(' || r == ')' {
			continue
		}
		if skipSpace && unicode.IsSpace(r) {
			continue
		}
		n++
	}
	return n
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
