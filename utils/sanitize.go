package utils

import (
	"regexp"
	"strings"
)

var (
	htmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
	jsProtocolPattern   = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)on\w+=`)
)

// SanitizeString removes HTML tags and script-related patterns from user input.
func SanitizeString(input string) string {
	out := htmlTagPattern.ReplaceAllString(input, "")
	out = jsProtocolPattern.ReplaceAllString(out, "")
	out = eventHandlerPattern.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// SanitizeAndLimit sanitizes input and truncates it to maxLength runes.
func SanitizeAndLimit(input string, maxLength int) string {
	out := SanitizeString(input)
	runes := []rune(out)
	if len(runes) > maxLength {
		return string(runes[:maxLength])
	}
	return out
}
