// Package language decides whether screened text is English.
package language

import (
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

// minChars is the minimum combined text length for a meaningful detection.
// Anything shorter fails the gate outright.
const minChars = 50

// IsEnglish reports whether the text is detected as English. Text shorter
// than minChars characters is never considered English.
func IsEnglish(text string) bool {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minChars {
		return false
	}

	info := whatlanggo.Detect(text)
	return info.Lang == whatlanggo.Eng
}
