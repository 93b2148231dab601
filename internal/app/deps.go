package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"distill/internal/artifact"
	"distill/internal/cache"
	"distill/internal/config"
	"distill/internal/history"
	"distill/internal/llm"
	"distill/internal/logger"
)

// Deps bundles common runtime dependencies for commands.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	LLM       llm.Client
	Cache     cache.Cache
	History   history.Store
	Artifacts *artifact.Store
}

// Options tweaks dependency construction from CLI flags.
type Options struct {
	Debug    bool
	Provider string // overrides the configured LLM provider when set
}

// Build loads env, config, and everything the extract/run commands need.
func Build(opts Options) (Deps, error) {
	deps, err := BuildChecker(opts)
	if err != nil {
		return Deps{}, err
	}

	llmClient, err := buildLLM(deps.Config, deps.Log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	deps.LLM = llmClient
	deps.Cache = buildCache(deps.Config, deps.Log)
	return deps, nil
}

// BuildChecker loads the subset needed by check/history: config, logger,
// artifact store and ledger, but no LLM client or cache.
func BuildChecker(opts Options) (Deps, error) {
	// A .env file is optional for CLI use.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return Deps{}, err
	}
	if opts.Provider != "" {
		cfg.Provider = opts.Provider
	}

	level := cfg.LogLevel
	if opts.Debug {
		level = "debug"
	}
	log := logger.New(level, cfg.LogFormat)

	ledger, err := buildHistory(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize history ledger: %w", err)
	}

	return Deps{
		Config:    cfg,
		Log:       log,
		History:   ledger,
		Artifacts: artifact.NewStore(cfg.OutputDir, cfg.FilenamePrefix, cfg.FilenameSuffix),
	}, nil
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, openai.ChatModel(cfg.ResolvedModel()), cfg.MaxTokens, cfg.Temperature)
		if err != nil {
			return nil, err
		}
		log.Info("using OpenAI client", "model", cfg.ResolvedModel())
		return client, nil
	case "deepseek":
		if cfg.DeepSeekKey == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY is required when PROVIDER=deepseek")
		}
		client, err := llm.NewDeepSeekClient(cfg.DeepSeekKey, cfg.DeepSeekBaseURL, openai.ChatModel(cfg.ResolvedModel()), cfg.MaxTokens, cfg.Temperature)
		if err != nil {
			return nil, err
		}
		log.Info("using DeepSeek client", "model", cfg.ResolvedModel(), "base_url", cfg.DeepSeekBaseURL)
		return client, nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when PROVIDER=anthropic")
		}
		client, err := llm.NewAnthropicClient(cfg.AnthropicKey, anthropic.Model(cfg.ResolvedModel()), cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		log.Info("using Anthropic client", "model", client.Model())
		return client, nil
	default:
		return nil, fmt.Errorf("invalid PROVIDER: %s (valid options: openai, anthropic, deepseek)", cfg.Provider)
	}
}

// buildCache falls back to a no-op cache when Redis is unavailable rather
// than failing the extraction.
func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	if cfg.CacheProvider != "redis" {
		return cache.NewNoOpCache()
	}
	c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Warn("redis unavailable, caching disabled", "addr", cfg.RedisAddr, "err", err)
		return cache.NewNoOpCache()
	}
	log.Info("using Redis extraction cache", "addr", cfg.RedisAddr)
	return c
}

func buildHistory(cfg config.Config, log *slog.Logger) (history.Store, error) {
	if cfg.HistoryDB == "" {
		return history.NewNopStore(), nil
	}
	ledger, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return nil, err
	}
	log.Debug("using SQLite history ledger", "path", cfg.HistoryDB)
	return ledger, nil
}
