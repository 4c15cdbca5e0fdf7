package transcript

import (
	"regexp"
	"strings"
)

// Bracketed segments like [inaudible] or [crosstalk] are annotation
// placeholders, not speech.
var placeholderPattern = regexp.MustCompile(`\[.*?\]`)

// Clean removes bracketed placeholder segments from a transcription.
func Clean(text string) string {
	return strings.TrimSpace(placeholderPattern.ReplaceAllString(text, ""))
}
