package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"distill/internal/cache"
	"distill/internal/config"
	"distill/internal/history"
	"distill/internal/prompt"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment and configuration",
	Long: `Verifies that the environment is ready for an extraction: configuration
parses, the provider has an API key, the prompt template resolves, and the
output directory is writable. Optional services (history ledger, Redis
cache) are probed but never fail the check.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var (
	doctorOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	doctorFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	doctorDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type doctorCheck struct {
	name     string
	required bool
	run      func() (string, error)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	cfg, cfgErr := config.Load()

	checks := []doctorCheck{
		{"configuration", true, func() (string, error) {
			if cfgErr != nil {
				return "", cfgErr
			}
			return fmt.Sprintf("provider=%s model=%s", cfg.Provider, cfg.ResolvedModel()), nil
		}},
		{"api key", true, func() (string, error) {
			key := cfg.APIKey()
			if key == "" {
				return "", fmt.Errorf("no API key set for provider %q", cfg.Provider)
			}
			return maskKey(key), nil
		}},
		{"prompt template", true, func() (string, error) {
			tmpl, err := prompt.Load(cfg.PromptTemplate)
			if err != nil {
				return "", err
			}
			if _, err := prompt.Render(tmpl, "probe"); err != nil {
				return "", err
			}
			if cfg.PromptTemplate == "" {
				return "embedded default", nil
			}
			return cfg.PromptTemplate, nil
		}},
		{"output directory", true, func() (string, error) {
			if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
				return "", err
			}
			return cfg.OutputDir, nil
		}},
		{"history ledger", false, func() (string, error) {
			if cfg.HistoryDB == "" {
				return "disabled", nil
			}
			ledger, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return "", err
			}
			_ = ledger.Close()
			return cfg.HistoryDB, nil
		}},
		{"redis cache", false, func() (string, error) {
			if cfg.CacheProvider != "redis" {
				return "disabled", nil
			}
			c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
			if err != nil {
				return "", err
			}
			_ = c.Close()
			return cfg.RedisAddr, nil
		}},
	}

	failed := 0
	for _, c := range checks {
		detail, err := c.run()
		switch {
		case err == nil:
			fmt.Printf("%s %-18s %s\n", doctorOKStyle.Render("ok  "), c.name, doctorDimStyle.Render(detail))
		case c.required:
			failed++
			fmt.Printf("%s %-18s %v\n", doctorFailStyle.Render("FAIL"), c.name, err)
		default:
			fmt.Printf("%s %-18s %v\n", doctorDimStyle.Render("warn"), c.name, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d required check(s) failed", failed)
	}
	fmt.Println(doctorOKStyle.Render("environment looks good"))
	return nil
}

// maskKey keeps enough of the key to recognize it without leaking it.
func maskKey(key string) string {
	if len(key) <= 12 {
		return "***"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
