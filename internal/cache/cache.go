package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache provides extraction response caching so identical inputs do not
// trigger repeated paid API calls.
type Cache interface {
	// GetExtraction retrieves a cached extraction by key.
	// Returns nil if not found.
	GetExtraction(ctx context.Context, key string) (*Extraction, error)

	// SetExtraction stores an extraction with TTL.
	SetExtraction(ctx context.Context, key string, ext *Extraction, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}

// Extraction is a cached LLM response.
type Extraction struct {
	Response  string    `json:"response"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// Key derives a stable cache key from provider, model and the fully rendered
// prompt. Different providers or models never share entries.
func Key(provider, model, prompt string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
