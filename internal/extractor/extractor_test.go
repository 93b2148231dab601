package extractor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"distill/internal/artifact"
	"distill/internal/cache"
	"distill/internal/config"
	"distill/internal/history"
	"distill/internal/llm"
)

func testConfig() config.Config {
	return config.Config{
		MinContentLength: 10,
		CacheTTL:         60,
	}
}

func newService(t *testing.T, cfg config.Config, client llm.Client, c cache.Cache) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	store := artifact.NewStore(dir, "extracted", ".lisp")
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := New(cfg, log, client, c, history.NewNopStore(), store)
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }
	return svc, dir
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunExtractsLispBlock(t *testing.T) {
	client := &llm.MockClient{}
	client.On("Provider").Return("openai")
	client.On("Model").Return("gpt-4o-mini")
	client.On("Extract", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "the input document body")
	})).Return("analysis first\n```lisp\n(defun writer ())\n```\n", nil)

	svc, _ := newService(t, testConfig(), client, cache.NewNoOpCache())
	input := writeInput(t, "the input document body")

	res, err := svc.Run(context.Background(), Options{InputPath: input})
	require.NoError(t, err)
	require.False(t, res.Cached)
	require.Equal(t, "extracted_20240309_120000.lisp", filepath.Base(res.OutputPath))

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	require.Equal(t, "(defun writer ())", string(data))
	client.AssertExpectations(t)
}

func TestRunReadsStdin(t *testing.T) {
	client := &llm.MockClient{}
	client.On("Provider").Return("openai")
	client.On("Model").Return("gpt-4o-mini")
	client.On("Extract", mock.Anything, mock.Anything).Return("(defun writer ())", nil)

	svc, _ := newService(t, testConfig(), client, cache.NewNoOpCache())
	svc.Stdin = strings.NewReader("a document read from standard input")

	res, err := svc.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.FileExists(t, res.OutputPath)
}

func TestRunRejectsShortInput(t *testing.T) {
	client := &llm.MockClient{}
	svc, _ := newService(t, testConfig(), client, cache.NewNoOpCache())
	input := writeInput(t, "short")

	_, err := svc.Run(context.Background(), Options{InputPath: input})
	require.Error(t, err)
	require.Contains(t, err.Error(), "too short")
	client.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestRunRejectsMissingInput(t *testing.T) {
	client := &llm.MockClient{}
	svc, _ := newService(t, testConfig(), client, cache.NewNoOpCache())

	_, err := svc.Run(context.Background(), Options{InputPath: filepath.Join(t.TempDir(), "missing.txt")})
	require.Error(t, err)
}

func TestRunRejectsBinaryInput(t *testing.T) {
	client := &llm.MockClient{}
	svc, _ := newService(t, testConfig(), client, cache.NewNoOpCache())

	path := filepath.Join(t.TempDir(), "input.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88, 0x89}, 0o644))

	_, err := svc.Run(context.Background(), Options{InputPath: path})
	require.Error(t, err)
	require.Contains(t, err.Error(), "UTF-8")
}

func TestRunSurfacesTransportError(t *testing.T) {
	client := &llm.MockClient{}
	client.On("Provider").Return("openai")
	client.On("Model").Return("gpt-4o-mini")
	client.On("Extract", mock.Anything, mock.Anything).Return("", errors.New("connection reset")).Once()

	svc, dir := newService(t, testConfig(), client, cache.NewNoOpCache())
	input := writeInput(t, "the input document body")

	_, err := svc.Run(context.Background(), Options{InputPath: input})
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection reset")

	// No artifact should appear for a failed call.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Empty(t, entries)
}

func TestRunRetriesTransientFailures(t *testing.T) {
	cfg := testConfig()
	cfg.Retries = 1

	client := &llm.MockClient{}
	client.On("Provider").Return("openai")
	client.On("Model").Return("gpt-4o-mini")
	client.On("Extract", mock.Anything, mock.Anything).Return("", errors.New("timeout")).Once()
	client.On("Extract", mock.Anything, mock.Anything).Return("(defun writer ())", nil).Once()

	svc, _ := newService(t, cfg, client, cache.NewNoOpCache())
	input := writeInput(t, "the input document body")

	res, err := svc.Run(context.Background(), Options{InputPath: input})
	require.NoError(t, err)
	require.FileExists(t, res.OutputPath)
	client.AssertExpectations(t)
}

func TestRunUsesCacheHit(t *testing.T) {
	client := &llm.MockClient{}
	client.On("Provider").Return("openai")
	client.On("Model").Return("gpt-4o-mini")

	mockCache := &cache.MockCache{}
	mockCache.On("GetExtraction", mock.Anything, mock.Anything).Return(&cache.Extraction{
		Response: "```lisp\n(defun cached ())\n```",
		Provider: "openai",
		Model:    "gpt-4o-mini",
	}, nil)

	svc, _ := newService(t, testConfig(), client, mockCache)
	input := writeInput(t, "the input document body")

	res, err := svc.Run(context.Background(), Options{InputPath: input})
	require.NoError(t, err)
	require.True(t, res.Cached)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	require.Equal(t, "(defun cached ())", string(data))
	client.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestRunExplicitOutputPath(t *testing.T) {
	client := &llm.MockClient{}
	client.On("Provider").Return("openai")
	client.On("Model").Return("gpt-4o-mini")
	client.On("Extract", mock.Anything, mock.Anything).Return("(defun writer ())", nil)

	svc, _ := newService(t, testConfig(), client, cache.NewNoOpCache())
	input := writeInput(t, "the input document body")
	out := filepath.Join(t.TempDir(), "custom.lisp")

	res, err := svc.Run(context.Background(), Options{InputPath: input, OutputPath: out})
	require.NoError(t, err)
	require.Equal(t, out, res.OutputPath)

	// A second run without --overwrite must refuse to clobber the file.
	_, err = svc.Run(context.Background(), Options{InputPath: input, OutputPath: out})
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}
