package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("opening ledger: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := Run{
		Provider:   "openai",
		Model:      "gpt-4o-mini",
		InputPath:  "input/example_input.txt",
		OutputPath: "output/extracted_20240309_120000.lisp",
		Duration:   1500 * time.Millisecond,
		CreatedAt:  time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
	}
	second := Run{
		Provider:   "anthropic",
		Model:      "claude-sonnet-4-20250514",
		InputPath:  "input/example_input.txt",
		OutputPath: "output/extracted_20240309_130000.lisp",
		Cached:     true,
		CreatedAt:  time.Date(2024, 3, 9, 13, 0, 0, 0, time.UTC),
	}
	if err := s.RecordRun(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordRun(ctx, second); err != nil {
		t.Fatal(err)
	}

	runs, err := s.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Provider != "anthropic" {
		t.Fatalf("expected newest run first, got %s", runs[0].Provider)
	}
	if !runs[0].Cached {
		t.Fatal("cached flag lost")
	}
	if runs[1].Duration != 1500*time.Millisecond {
		t.Fatalf("duration mismatch: %v", runs[1].Duration)
	}
	if runs[0].ID == "" {
		t.Fatal("expected generated run ID")
	}
}

func TestRecordAndListChecks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.RecordCheck(ctx, CheckResult{
		ArtifactPath: "output/extracted_20240309_120000.lisp",
		Score:        92,
		Grade:        "excellent",
	}); err != nil {
		t.Fatal(err)
	}

	checks, err := s.RecentChecks(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(checks) != 1 {
		t.Fatalf("expected 1 check, got %d", len(checks))
	}
	if checks[0].Score != 92 || checks[0].Grade != "excellent" {
		t.Fatalf("check result mismatch: %+v", checks[0])
	}
}

func TestRecentLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.RecordRun(ctx, Run{
			Provider:   "openai",
			Model:      "gpt-4o-mini",
			InputPath:  "in.txt",
			OutputPath: "out.lisp",
			CreatedAt:  time.Date(2024, 3, 9, 12, i, 0, 0, time.UTC),
		}); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.RecentRuns(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
}
