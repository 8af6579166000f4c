package security

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxFilterLength defines the maximum allowed length for list filters
	MaxFilterLength = 100

	// LikeEscapeChar is the escape character used by SanitizeLikePattern.
	// Queries must declare it with ESCAPE so SQLite honours it too.
	LikeEscapeChar = `\`
)

var (
	// ErrFilterTooLong is returned when a filter exceeds MaxFilterLength runes
	ErrFilterTooLong = errors.New("filter too long")
	// ErrFilterInvalidChars is returned when a filter contains control characters
	ErrFilterInvalidChars = errors.New("filter contains invalid characters")
)

// ValidateFilter rejects values that cannot be a department name. The filter is
// matched as given, surrounding spaces included.
// Queries are always parameterised, so only length and control characters are checked.
func ValidateFilter(filter string) (string, error) {
	if filter == "" {
		return "", nil
	}

	if utf8.RuneCountInString(filter) > MaxFilterLength {
		return "", ErrFilterTooLong
	}

	for _, r := range filter {
		if unicode.IsControl(r) || r == utf8.RuneError {
			return "", ErrFilterInvalidChars
		}
	}

	return filter, nil
}

// SanitizeLikePattern escapes LIKE wildcards so the value matches literally,
// then wraps it for a substring match.
func SanitizeLikePattern(value string) string {
	value = strings.ReplaceAll(value, LikeEscapeChar, LikeEscapeChar+LikeEscapeChar)
	value = strings.ReplaceAll(value, "%", LikeEscapeChar+"%")
	value = strings.ReplaceAll(value, "_", LikeEscapeChar+"_")

	return "%" + value + "%"
}
