package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime configuration. Extend as needed.
type Config struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`

	// LLM
	Provider        string  `env:"PROVIDER" envDefault:"openai" validate:"oneof=openai anthropic deepseek"`
	OpenAIKey       string  `env:"OPENAI_API_KEY"`
	AnthropicKey    string  `env:"ANTHROPIC_API_KEY"`
	DeepSeekKey     string  `env:"DEEPSEEK_API_KEY"`
	DeepSeekBaseURL string  `env:"DEEPSEEK_BASE_URL" envDefault:"https://api.deepseek.com"`
	Model           string  `env:"LLM_MODEL"` // empty means provider default
	MaxTokens       int     `env:"MAX_TOKENS" envDefault:"4096" validate:"gt=0"`
	Temperature     float64 `env:"TEMPERATURE" envDefault:"0.7" validate:"gte=0,lte=2"`
	Retries         int     `env:"LLM_RETRIES" envDefault:"0" validate:"gte=0,lte=5"`

	// Extraction
	PromptTemplate   string `env:"PROMPT_TEMPLATE"` // empty means embedded default
	MinContentLength int    `env:"MIN_CONTENT_LENGTH" envDefault:"100" validate:"gte=0"`

	// Output
	OutputDir      string `env:"OUTPUT_DIR" envDefault:"output"`
	FilenamePrefix string `env:"FILENAME_PREFIX" envDefault:"extracted"`
	FilenameSuffix string `env:"FILENAME_SUFFIX" envDefault:".lisp"`

	// Quality gate
	MinScore int `env:"MIN_SCORE" envDefault:"70" validate:"gte=0,lte=100"`

	// Cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none" validate:"oneof=redis none"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL_SECONDS" envDefault:"86400" validate:"gte=0"`

	// History ledger. Empty disables recording.
	HistoryDB string `env:"HISTORY_DB" envDefault:"distill.db"`
}

var validate = validator.New()

// Load reads configuration from environment variables with defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing env config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ResolvedModel returns the configured model, or the provider's default.
func (c Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case "anthropic":
		return "claude-sonnet-4-20250514"
	case "deepseek":
		return "deepseek-chat"
	default:
		return "gpt-4o-mini"
	}
}

// APIKey returns the key for the configured provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case "anthropic":
		return c.AnthropicKey
	case "deepseek":
		return c.DeepSeekKey
	default:
		return c.OpenAIKey
	}
}
