package util

import (
	"regexp"
	"strings"
)

var (
	slugStrip   = regexp.MustCompile(`[^a-z0-9-]`)
	unsafeChars = regexp.MustCompile(`[\x00\\/:*?"<>|]`)
)

// Slugify derives the title_safe form of a series title: lower-cased with
// every character outside [a-z0-9-] stripped.
func Slugify(title string) string {
	return slugStrip.ReplaceAllString(strings.ToLower(title), "")
}

// SanitizeFilename replaces characters that are unsafe in file names and
// trims leading dots and dashes.
func SanitizeFilename(filename string) string {
	safe := unsafeChars.ReplaceAllString(filename, "-")
	safe = strings.ReplaceAll(safe, "\x00", "-")

	for strings.HasPrefix(safe, ".") || strings.HasPrefix(safe, "-") {
		safe = safe[1:]
	}
	if safe == "" {
		safe = "untitled"
	}
	return safe
}
