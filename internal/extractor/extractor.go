// Package extractor runs the extraction round trip: read input, render the
// prompt, call the LLM, and persist the returned agent code.
package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"distill/internal/artifact"
	"distill/internal/cache"
	"distill/internal/config"
	"distill/internal/history"
	"distill/internal/llm"
	"distill/internal/prompt"
	"distill/internal/retry"
)

const (
	backoffBase = 1 * time.Second
	backoffMax  = 30 * time.Second
)

// Service wires the extraction dependencies together.
type Service struct {
	cfg     config.Config
	log     *slog.Logger
	llm     llm.Client
	cache   cache.Cache
	ledger  history.Store
	store   *artifact.Store

	// Stdin is read when no input path is given. Overridable in tests.
	Stdin io.Reader
	now   func() time.Time
}

// Options controls one extraction run.
type Options struct {
	InputPath  string // empty or "-" reads stdin
	OutputPath string // empty derives a timestamped path
	Overwrite  bool
}

// Result describes a finished extraction.
type Result struct {
	OutputPath string
	Cached     bool
	Duration   time.Duration
}

// New builds a Service.
func New(cfg config.Config, log *slog.Logger, client llm.Client, c cache.Cache, ledger history.Store, store *artifact.Store) *Service {
	return &Service{
		cfg:    cfg,
		log:    log,
		llm:    client,
		cache:  c,
		ledger: ledger,
		store:  store,
		Stdin:  os.Stdin,
		now:    time.Now,
	}
}

// Run performs the extraction round trip and returns the artifact path.
func (s *Service) Run(ctx context.Context, opts Options) (Result, error) {
	start := s.now()

	content, err := s.readInput(opts.InputPath)
	if err != nil {
		return Result{}, err
	}
	s.log.Info("input loaded", "chars", utf8.RuneCountInString(content))

	tmpl, err := prompt.Load(s.cfg.PromptTemplate)
	if err != nil {
		return Result{}, err
	}
	rendered, err := prompt.Render(tmpl, content)
	if err != nil {
		return Result{}, err
	}

	key := cache.Key(s.llm.Provider(), s.llm.Model(), rendered)
	response, cached := s.lookupCache(ctx, key)
	if !cached {
		response, err = s.callWithRetry(ctx, rendered)
		if err != nil {
			return Result{}, err
		}
		s.storeCache(ctx, key, response)
	}

	code := prompt.ExtractLispBlock(response)

	var path string
	if opts.OutputPath != "" {
		path, err = s.store.SaveTo(opts.OutputPath, code, opts.Overwrite)
	} else {
		path, err = s.store.Save(code, s.now(), opts.Overwrite)
	}
	if err != nil {
		return Result{}, err
	}

	res := Result{
		OutputPath: path,
		Cached:     cached,
		Duration:   s.now().Sub(start),
	}
	if err := s.ledger.RecordRun(ctx, history.Run{
		Provider:   s.llm.Provider(),
		Model:      s.llm.Model(),
		InputPath:  opts.InputPath,
		OutputPath: path,
		Cached:     cached,
		Duration:   res.Duration,
	}); err != nil {
		s.log.Warn("failed to record extraction run", "err", err)
	}

	s.log.Info("extraction saved", "path", path, "cached", cached, "duration_ms", res.Duration.Milliseconds())
	return res, nil
}

func (s *Service) readInput(path string) (string, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		s.log.Info("reading input from stdin")
		data, err = io.ReadAll(s.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("input is not valid UTF-8 text")
	}

	content := strings.TrimSpace(string(data))
	if n := utf8.RuneCountInString(content); n < s.cfg.MinContentLength {
		return "", fmt.Errorf("input too short: %d chars (minimum %d)", n, s.cfg.MinContentLength)
	}
	return content, nil
}

func (s *Service) lookupCache(ctx context.Context, key string) (string, bool) {
	hit, err := s.cache.GetExtraction(ctx, key)
	if err != nil {
		s.log.Warn("cache lookup failed", "err", err)
		return "", false
	}
	if hit == nil {
		return "", false
	}
	s.log.Info("cache hit", "provider", hit.Provider, "model", hit.Model)
	return hit.Response, true
}

func (s *Service) storeCache(ctx context.Context, key, response string) {
	ext := &cache.Extraction{
		Response:  response,
		Provider:  s.llm.Provider(),
		Model:     s.llm.Model(),
		CreatedAt: s.now().UTC(),
	}
	ttl := time.Duration(s.cfg.CacheTTL) * time.Second
	if err := s.cache.SetExtraction(ctx, key, ext, ttl); err != nil {
		s.log.Warn("failed to cache extraction", "err", err)
	}
}

// callWithRetry performs the LLM request with bounded retries. The default
// configuration makes a single attempt.
func (s *Service) callWithRetry(ctx context.Context, rendered string) (string, error) {
	attempts := s.cfg.Retries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			s.log.Warn("retrying extraction", "attempt", attempt, "err", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retry.ExponentialBackoff(attempt-1, backoffBase, backoffMax)):
			}
		}
		s.log.Info("calling provider", "provider", s.llm.Provider(), "model", s.llm.Model())
		response, err := s.llm.Extract(ctx, rendered)
		if err == nil {
			return response, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("extraction failed after %d attempt(s): %w", attempts, lastErr)
}
