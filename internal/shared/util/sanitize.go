package util

import (
	"errors"
	"strings"
)

// ErrBadFileName is returned for empty names and traversal attempts.
var ErrBadFileName = errors.New("invalid file name")

var separatorReplacer = strings.NewReplacer("/", "_", "\\", "_")

// SanitizeFileName turns a caller-supplied name into a safe single path
// segment: separators become underscores, traversal patterns and blank
// names are rejected outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrBadFileName
	}
	cleaned := separatorReplacer.Replace(strings.TrimSpace(name))
	if cleaned == "" {
		return "", ErrBadFileName
	}
	return cleaned, nil
}
