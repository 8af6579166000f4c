package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilter(t *testing.T) {
	tests := []struct {
		name        string
		filter      string
		expectError error
		expected    string
	}{
		{
			name:     "empty filter",
			filter:   "",
			expected: "",
		},
		{
			name:     "whitespace only is kept",
			filter:   "   ",
			expected: "   ",
		},
		{
			name:     "simple department",
			filter:   "eng",
			expected: "eng",
		},
		{
			name:     "surrounding spaces kept",
			filter:   " eng",
			expected: " eng",
		},
		{
			name:     "words that look like SQL are allowed",
			filter:   "Creative Operations",
			expected: "Creative Operations",
		},
		{
			name:     "non-ascii letters",
			filter:   "Ingeniería",
			expected: "Ingeniería",
		},
		{
			name:     "exactly max length",
			filter:   strings.Repeat("a", MaxFilterLength),
			expected: strings.Repeat("a", MaxFilterLength),
		},
		{
			name:        "too long",
			filter:      strings.Repeat("a", MaxFilterLength+1),
			expectError: ErrFilterTooLong,
		},
		{
			name:        "control character",
			filter:      "eng\x00",
			expectError: ErrFilterInvalidChars,
		},
		{
			name:        "newline in the middle",
			filter:      "eng\nsales",
			expectError: ErrFilterInvalidChars,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFilter(tt.filter)
			if tt.expectError != nil {
				require.ErrorIs(t, err, tt.expectError)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeLikePattern(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"eng", "%eng%"},
		{"50%", `%50\%%`},
		{"r_d", `%r\_d%`},
		{`a\b`, `%a\\b%`},
		{"", "%%"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeLikePattern(tt.in))
		})
	}
}
