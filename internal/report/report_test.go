package report

import (
	"encoding/json"
	"strings"
	"testing"

	"distill/internal/rubric"
)

func sampleReport() rubric.Report {
	return rubric.Score("(核心理念 " + strings.Repeat("真", 300) + ")(思维模型 " + strings.Repeat("诚", 300) + ")")
}

func TestRenderContainsScoreAndFindings(t *testing.T) {
	rep := sampleReport()
	out := Render("output/extracted_20240101_120000.lisp", rep)

	if !strings.Contains(out, "extracted_20240101_120000.lisp") {
		t.Error("rendered report missing file name")
	}
	if !strings.Contains(out, "score:") {
		t.Error("rendered report missing score line")
	}
	for _, c := range rep.Checks {
		if !strings.Contains(out, string(c.Name)) {
			t.Errorf("rendered report missing check %s", c.Name)
		}
	}
}

func TestRenderJSONHasIntegerScoreField(t *testing.T) {
	out, err := RenderJSON([]FileReport{{File: "a.lisp", Report: sampleReport()}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed []map[string]any
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(parsed))
	}
	score, ok := parsed[0]["score"].(float64)
	if !ok {
		t.Fatal("missing top-level score field")
	}
	if score != float64(int(score)) {
		t.Fatalf("score %v is not an integer", score)
	}
	if parsed[0]["file"] != "a.lisp" {
		t.Fatal("missing file field")
	}
}

func TestRenderSummary(t *testing.T) {
	rep := sampleReport()
	out := RenderSummary([]FileReport{
		{File: "a.lisp", Report: rep},
		{File: "b.lisp", Report: rep},
	})
	if !strings.Contains(out, "files: 2") {
		t.Errorf("summary missing file count: %q", out)
	}
	if !strings.Contains(out, string(rep.Grade)) {
		t.Error("summary missing grade distribution")
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	if out := RenderSummary(nil); out != "" {
		t.Errorf("expected empty summary, got %q", out)
	}
}
