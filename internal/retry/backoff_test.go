package retry

import (
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	max := 10 * time.Second

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 100 * time.Millisecond},  // base * 2^0 = 100ms
		{1, 200 * time.Millisecond},  // base * 2^1 = 200ms
		{2, 400 * time.Millisecond},  // base * 2^2 = 400ms
		{3, 800 * time.Millisecond},  // base * 2^3 = 800ms
		{4, 1600 * time.Millisecond}, // base * 2^4 = 1600ms
	}

	for _, tt := range tests {
		result := ExponentialBackoff(tt.attempt, base, max)
		if result != tt.expected {
			t.Errorf("attempt %d: got %v, want %v", tt.attempt, result, tt.expected)
		}
	}
}

func TestExponentialBackoffCap(t *testing.T) {
	base := 1 * time.Second
	max := 5 * time.Second

	if got := ExponentialBackoff(10, base, max); got != max {
		t.Errorf("got %v, want cap %v", got, max)
	}
	if got := ExponentialBackoff(64, base, max); got != max {
		t.Errorf("overflow-prone attempt: got %v, want cap %v", got, max)
	}
}
