package match

import "strings"

// KeywordSet holds the three configured keyword categories. Required keywords
// all have to be found for an applicant to pass, optional keywords are
// diagnostic only, and at least one related keyword has to match.
type KeywordSet struct {
	Required []string
	Optional []string
	Related  []string
}

// ParseList turns a free-text block into an ordered list of trimmed,
// non-empty keywords, one per line.
func ParseList(text string) []string {
	var list []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			list = append(list, line)
		}
	}
	return list
}
