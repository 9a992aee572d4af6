package rendering

import (
	"strings"
	"unicode"
)

// CleanText flattens catalog text onto one line: control characters and runs of whitespace
// become a single space.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text))

	space := false
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			space = true
			continue
		}
		if space && result.Len() > 0 {
			result.WriteByte(' ')
		}
		space = false
		result.WriteRune(r)
	}

	return result.String()
}
