package util

import (
	"errors"
	"strings"
	"unicode"
)

// MaxFileNameLength bounds the sanitized name; longer names keep their tail so
// the extension survives.
const MaxFileNameLength = 128

// ErrInvalidFileName is returned for empty or traversal-shaped names.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens separators to '_', drops control characters and
// rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" {
		return "", ErrInvalidFileName
	}
	if runes := []rune(s); len(runes) > MaxFileNameLength {
		s = string(runes[len(runes)-MaxFileNameLength:])
	}
	return s, nil
}
