// Package artifact persists extraction results as timestamped files and
// resolves the most recent one.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoArtifacts is returned by Latest when the output directory holds
// no matching files.
var ErrNoArtifacts = errors.New("no artifacts found")

// Store writes artifacts into a single output directory using a
// <prefix>_<timestamp><suffix> naming convention.
type Store struct {
	dir    string
	prefix string
	suffix string
}

// NewStore builds a store; the directory is created lazily on first save.
func NewStore(dir, prefix, suffix string) *Store {
	return &Store{dir: dir, prefix: prefix, suffix: suffix}
}

// Dir returns the output directory path.
func (s *Store) Dir() string { return s.dir }

// Save writes content to a timestamped file and returns its path.
// Existing files are never overwritten unless overwrite is set.
func (s *Store) Save(content string, now time.Time, overwrite bool) (string, error) {
	name := fmt.Sprintf("%s_%s%s", s.prefix, now.Format("20060102_150405"), s.suffix)
	return s.SaveTo(filepath.Join(s.dir, name), content, overwrite)
}

// SaveTo writes content to an explicit path, creating parent directories.
func (s *Store) SaveTo(path, content string, overwrite bool) (string, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("output file already exists: %s (use --overwrite)", path)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing output file: %w", err)
	}
	return path, nil
}

// Latest returns the most recently modified artifact in the output directory.
func (s *Store) Latest() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoArtifacts
		}
		return "", fmt.Errorf("reading output directory: %w", err)
	}

	var latest string
	var latestMod time.Time
	for _, e := range entries {
		if e.IsDir() || !s.matches(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = filepath.Join(s.dir, e.Name())
			latestMod = info.ModTime()
		}
	}
	if latest == "" {
		return "", ErrNoArtifacts
	}
	return latest, nil
}

// List returns all artifact paths sorted by directory order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading output directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && s.matches(e.Name()) {
			paths = append(paths, filepath.Join(s.dir, e.Name()))
		}
	}
	return paths, nil
}

func (s *Store) matches(name string) bool {
	return strings.HasPrefix(name, s.prefix+"_") && strings.HasSuffix(name, s.suffix)
}
