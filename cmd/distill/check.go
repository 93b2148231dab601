package main

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"distill/internal/app"
	"distill/internal/history"
	"distill/internal/report"
	"distill/internal/rubric"
)

var (
	checkJSON     bool
	checkMinScore int
	checkLatest   bool
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Score generated agent files against the rubric",
	Long: `Scores one or more generated files against the fixed quality rubric and
prints a report per file. Exits non-zero when any score falls below the
threshold.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "machine-readable JSON output")
	checkCmd.Flags().IntVar(&checkMinScore, "min-score", -1, "fail when any score is below this threshold (default: MIN_SCORE)")
	checkCmd.Flags().BoolVar(&checkLatest, "latest", false, "also score the most recent artifact in the output directory")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	deps, err := app.BuildChecker(app.Options{Debug: debug})
	if err != nil {
		return err
	}
	defer closeDeps(deps)

	files := append([]string{}, args...)
	if checkLatest {
		latest, err := deps.Artifacts.Latest()
		if err != nil {
			return err
		}
		files = append(files, latest)
	}
	if len(files) == 0 {
		_ = cmd.Usage()
		return fmt.Errorf("requires at least one file path (or --latest)")
	}

	results, err := scoreFiles(cmd.Context(), files)
	if err != nil {
		return err
	}

	for _, r := range results {
		if err := deps.History.RecordCheck(cmd.Context(), history.CheckResult{
			ArtifactPath: r.File,
			Score:        r.Score,
			Grade:        string(r.Grade),
		}); err != nil {
			deps.Log.Warn("failed to record check result", "err", err)
		}
	}

	if checkJSON {
		out, err := report.RenderJSON(results)
		if err != nil {
			return err
		}
		fmt.Println(out)
	} else {
		for _, r := range results {
			fmt.Print(report.Render(r.File, r.Report))
		}
		if len(results) > 1 {
			fmt.Print(report.RenderSummary(results))
		}
	}

	threshold := checkMinScore
	if threshold < 0 {
		threshold = deps.Config.MinScore
	}
	below := 0
	for _, r := range results {
		if r.Score < threshold {
			below++
		}
	}
	if below > 0 {
		return fmt.Errorf("%d of %d file(s) scored below threshold %d", below, len(results), threshold)
	}
	return nil
}

// scoreFiles loads and scores every file. An unreadable or non-text file is
// a fatal input error, never a zero score.
func scoreFiles(ctx context.Context, files []string) ([]report.FileReport, error) {
	results := make([]report.FileReport, len(files))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range files {
		g.Go(func() error {
			doc, err := loadDocument(path)
			if err != nil {
				return err
			}
			results[i] = report.FileReport{File: path, Report: rubric.Score(doc)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func loadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not valid UTF-8 text", path)
	}
	return string(data), nil
}
