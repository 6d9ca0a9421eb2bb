// Package employers detects applicants whose employment history includes a
// company from the disallowed reference list.
package employers

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// maxParsed caps how many employer names are read out of the experience field.
const maxParsed = 2

// minNameLength filters out colon-line left-hand sides too short to be a
// company name.
const minNameLength = 2

var wordTokens = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// LoadList reads one company name per line, trimmed, empty lines skipped.
func LoadList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var list []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			list = append(list, line)
		}
	}
	return list, scanner.Err()
}

// ParseExperience extracts up to two employer names from the free-text
// experience field. A semicolon-separated value splits directly into names;
// otherwise lines shaped like "Company : Title" contribute the text before
// the colon.
func ParseExperience(text string) []string {
	text = strings.TrimSpace(text)
	var found []string

	if strings.Contains(text, ";") {
		for _, part := range strings.Split(text, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			found = append(found, part)
			if len(found) == maxParsed {
				break
			}
		}
		return found
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		lhs, _, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		lhs = strings.TrimSpace(lhs)
		if len(lhs) > minNameLength {
			found = append(found, lhs)
			if len(found) == maxParsed {
				break
			}
		}
	}

	return found
}

// AnyListed reports whether any of the parsed employer names appears verbatim
// in the disallowed list.
func AnyListed(names, disallowed []string) bool {
	for _, name := range names {
		for _, phrase := range disallowed {
			if name == phrase {
				return true
			}
		}
	}
	return false
}

// CountListedMatches scans the resume text for the disallowed phrases. Both
// sides are tokenized into lowercased word runs and a phrase matches when its
// token sequence appears contiguously in the text. Returns the number of
// distinct matched phrases and the phrases themselves.
func CountListedMatches(text string, disallowed []string) (int, []string) {
	textTokens := tokenize(text)

	seen := make(map[string]bool)
	var matched []string
	for _, phrase := range disallowed {
		if seen[phrase] {
			continue
		}
		if phraseInTokens(tokenize(phrase), textTokens) {
			seen[phrase] = true
			matched = append(matched, phrase)
		}
	}

	return len(matched), matched
}

func tokenize(text string) []string {
	return wordTokens.FindAllString(strings.ToLower(text), -1)
}

func phraseInTokens(phrase, text []string) bool {
	n := len(phrase)
	if n == 0 {
		return false
	}
	for i := 0; i+n <= len(text); i++ {
		if equalTokens(text[i:i+n], phrase) {
			return true
		}
	}
	return false
}

func equalTokens(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
