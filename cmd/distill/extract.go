package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"distill/internal/app"
	"distill/internal/extractor"
)

var (
	extractInput     string
	extractOutput    string
	extractProvider  string
	extractOverwrite bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract agent code from a text document",
	Long: `Reads a document (file or stdin), renders the extraction prompt, calls the
configured LLM provider and writes the returned Lisp block to the output
directory under a timestamped name.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractInput, "input", "i", "", "input file path (empty or - reads stdin)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output file path (default: auto-generated)")
	extractCmd.Flags().StringVarP(&extractProvider, "provider", "p", "", "LLM provider (openai/anthropic/deepseek, default: PROVIDER)")
	extractCmd.Flags().BoolVar(&extractOverwrite, "overwrite", false, "overwrite an existing output file")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	deps, err := app.Build(app.Options{Debug: debug, Provider: extractProvider})
	if err != nil {
		return err
	}
	defer closeDeps(deps)

	svc := extractor.New(deps.Config, deps.Log, deps.LLM, deps.Cache, deps.History, deps.Artifacts)
	res, err := svc.Run(cmd.Context(), extractor.Options{
		InputPath:  extractInput,
		OutputPath: extractOutput,
		Overwrite:  extractOverwrite,
	})
	if err != nil {
		return err
	}

	fmt.Println(res.OutputPath)
	return nil
}
