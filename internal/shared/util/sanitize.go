// Package util holds small helpers shared by the upload surfaces.
package util

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidFileName is returned for names that are empty or try to escape a
// directory.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName keeps the last path element of name, drops control
// characters and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "" || s == "." || strings.Contains(s, "..") {
		return "", ErrInvalidFileName
	}
	return s, nil
}
