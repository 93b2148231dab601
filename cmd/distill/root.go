package main

import (
	"github.com/spf13/cobra"

	"distill/internal/app"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "distill",
	Short: "Structured content extraction with a quality gate",
	Long: `Distill turns free-form copywriting into a Lisp-style agent definition
through an LLM provider, then scores the result against a fixed rubric.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func closeDeps(deps app.Deps) {
	if deps.Cache != nil {
		_ = deps.Cache.Close()
	}
	if deps.History != nil {
		_ = deps.History.Close()
	}
}
