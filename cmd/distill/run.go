package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"distill/internal/app"
	"distill/internal/extractor"
	"distill/internal/history"
	"distill/internal/report"
	"distill/internal/rubric"
)

var runCmd = &cobra.Command{
	Use:   "run <input-file>",
	Short: "Extract and score in one pass",
	Long: `The end-to-end workflow: extract agent code from the input file, score the
produced artifact and print the quality decision. The exit status reflects
the extraction outcome; a low score is reported but does not fail the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflow,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	input := args[0]
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("input file not found: %s", input)
	}

	deps, err := app.Build(app.Options{Debug: debug})
	if err != nil {
		return err
	}
	defer closeDeps(deps)

	svc := extractor.New(deps.Config, deps.Log, deps.LLM, deps.Cache, deps.History, deps.Artifacts)
	res, err := svc.Run(cmd.Context(), extractor.Options{InputPath: input})
	if err != nil {
		return err
	}

	doc, err := loadDocument(res.OutputPath)
	if err != nil {
		return err
	}
	rep := rubric.Score(doc)
	if err := deps.History.RecordCheck(cmd.Context(), history.CheckResult{
		ArtifactPath: res.OutputPath,
		Score:        rep.Score,
		Grade:        string(rep.Grade),
	}); err != nil {
		deps.Log.Warn("failed to record check result", "err", err)
	}

	fmt.Print(report.Render(res.OutputPath, rep))
	if rep.Score >= deps.Config.MinScore {
		fmt.Printf("quality gate passed (%d >= %d): %s\n", rep.Score, deps.Config.MinScore, res.OutputPath)
	} else {
		fmt.Printf("quality below threshold (%d < %d); review %s or refine the input and re-run\n",
			rep.Score, deps.Config.MinScore, res.OutputPath)
	}
	return nil
}
