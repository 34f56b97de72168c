package utils

import (
	"regexp"
	"strings"
)

// DefaultArtifactName is used when the customer name yields no usable
// filename characters.
const DefaultArtifactName = "tender"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeChars   = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	dashRun       = regexp.MustCompile(`-+`)
)

// SanitizeName turns free-form text (typically a customer name) into a safe
// download filename component: whitespace collapses to dashes, anything
// outside [a-zA-Z0-9._-] is dropped, and a blank result falls back to
// DefaultArtifactName.
func SanitizeName(name string) string {
	s := strings.TrimSpace(name)
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = unsafeChars.ReplaceAllString(s, "")
	s = dashRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-.")
	if s == "" {
		return DefaultArtifactName
	}
	return s
}

// IsBlank reports whether the string is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
