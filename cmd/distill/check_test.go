package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func completeDoc() string {
	filler := strings.Repeat("真", 300)
	return "(核心理念 " + filler + ")\n(思维模型 " + filler + ")\n"
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads a text file", func(t *testing.T) {
		path := writeDoc(t, dir, "ok.lisp", "(defun x ())")
		doc, err := loadDocument(path)
		require.NoError(t, err)
		assert.Equal(t, "(defun x ())", doc)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := loadDocument(filepath.Join(dir, "nope.lisp"))
		assert.Error(t, err)
	})

	t.Run("binary content is rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bin.lisp")
		require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0o644))
		_, err := loadDocument(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not valid UTF-8")
	})
}

func TestScoreFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "good.lisp", completeDoc())
	empty := writeDoc(t, dir, "empty.lisp", "")

	results, err := scoreFiles(context.Background(), []string{good, empty})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Result order matches input order regardless of scoring concurrency.
	assert.Equal(t, good, results[0].File)
	assert.Equal(t, empty, results[1].File)
	assert.GreaterOrEqual(t, results[0].Score, 90)
	assert.Equal(t, 0, results[1].Score)
}

func TestScoreFilesUnreadableIsFatal(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "good.lisp", completeDoc())

	_, err := scoreFiles(context.Background(), []string{good, filepath.Join(dir, "missing.lisp")})
	assert.Error(t, err)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "***", maskKey("short"))
	assert.Equal(t, "***", maskKey(""))
	assert.Equal(t, "sk-test-...wxyz", maskKey("sk-test-abcdefghijklmnopqrstuvwxyz"))
}
