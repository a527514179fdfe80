package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		hasError bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"0d", 0, false},
		{"1d", 24 * time.Hour, false},
		{"6h", 6 * time.Hour, false},
		{" 15m ", 15 * time.Minute, false},
		{"30s", 30 * time.Second, false},
		{"1w", 0, true},
		{"h", 0, true},
		{"-1h", 0, true},
	}

	for _, tc := range tests {
		val, err := ParseDuration(tc.input)
		if tc.hasError {
			assert.Error(t, err, "Expected error for input: %q", tc.input)
		} else {
			assert.NoError(t, err, "Unexpected error for input: %q", tc.input)
			assert.Equal(t, tc.expected, val, "Mismatch for input: %q", tc.input)
		}
	}
}
