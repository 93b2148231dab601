package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"distill/internal/app"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent extraction runs and check results",
	Args:  cobra.NoArgs,
	RunE:  runHistoryCmd,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries to show per section")
	rootCmd.AddCommand(historyCmd)
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	deps, err := app.BuildChecker(app.Options{Debug: debug})
	if err != nil {
		return err
	}
	defer closeDeps(deps)

	if deps.Config.HistoryDB == "" {
		fmt.Println("history is disabled; set HISTORY_DB to enable the ledger")
		return nil
	}

	runs, err := deps.History.RecentRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	checks, err := deps.History.RecentChecks(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 && len(checks) == 0 {
		fmt.Println("no history recorded yet")
		return nil
	}

	if len(runs) > 0 {
		fmt.Println("Extraction runs:")
		for _, r := range runs {
			fmt.Printf("  %s  %-9s %-24s %6dms  cached=%-5v %s\n",
				r.CreatedAt.Local().Format(time.DateTime),
				r.Provider, r.Model, r.Duration.Milliseconds(), r.Cached, r.OutputPath)
		}
	}
	if len(checks) > 0 {
		fmt.Println("Quality checks:")
		for _, c := range checks {
			fmt.Printf("  %s  score=%-3d %-10s %s\n",
				c.CreatedAt.Local().Format(time.DateTime), c.Score, c.Grade, c.ArtifactPath)
		}
	}
	return nil
}
