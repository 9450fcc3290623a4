package moderation

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// maxSanitizeRounds bounds entity decoding of nested encodings such as "&amp;lt;".
const maxSanitizeRounds = 8

// Sanitize strips markup, collapses whitespace runs to single spaces and trims the ends.
// Entities are decoded before stripping, so encoded tags are removed like literal ones.
// Every free-text field goes through it before persistence.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	clean := text
	for i := 0; i < maxSanitizeRounds; i++ {
		next := stripOnce(clean)
		if next == clean {
			break
		}
		clean = next
	}
	return strings.Join(strings.Fields(clean), " ")
}

func stripOnce(text string) string {
	decoded := text
	for i := 0; i < maxSanitizeRounds; i++ {
		next := html.UnescapeString(decoded)
		if next == decoded {
			break
		}
		decoded = next
	}
	return html.UnescapeString(stripPolicy.Sanitize(decoded))
}

// SanitizePtr sanitizes an optional value; blank results become nil.
func SanitizePtr(text *string) *string {
	if text == nil {
		return nil
	}
	clean := Sanitize(*text)
	if clean == "" {
		return nil
	}
	return &clean
}
