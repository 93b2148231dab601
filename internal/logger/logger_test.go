package logger

import (
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level  string
		format string
	}{
		{"debug", "text"},
		{"info", "json"},
		{"warn", "text"},
		{"error", "json"},
		{"invalid", "text"}, // Defaults to info
		{"", ""},            // Defaults to info/text
	}

	for _, tt := range tests {
		t.Run(tt.level+"_"+tt.format, func(t *testing.T) {
			log := New(tt.level, tt.format)
			if log == nil {
				t.Fatal("expected non-nil logger")
			}
		})
	}
}
