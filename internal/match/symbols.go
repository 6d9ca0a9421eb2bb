package match

import "regexp"

// Symbol labels used as keys in the symbol match map.
const (
	SymbolDollar  = "$"
	SymbolPercent = "%"
)

var (
	// dollarPattern matches a real monetary amount: $ followed by 1-3
	// digits, optional comma-grouped triples and an optional decimal part.
	dollarPattern = regexp.MustCompile(`\$\d{1,3}(,\d{3})*(\.\d+)?`)
	// percentPattern matches digits with an optional decimal part followed
	// by a literal percent sign.
	percentPattern = regexp.MustCompile(`\d+(\.\d+)?%`)
)

// FoundSymbols checks the enabled symbol patterns against the resume and
// answer text independently and records which sources matched. Symbols that
// match nowhere are absent from the map.
func FoundSymbols(resumeText, answersText string, checkDollar, checkPercent bool) map[string][]string {
	found := make(map[string][]string)

	if checkDollar {
		if places := symbolPlaces(dollarPattern, resumeText, answersText); len(places) > 0 {
			found[SymbolDollar] = places
		}
	}

	if checkPercent {
		if places := symbolPlaces(percentPattern, resumeText, answersText); len(places) > 0 {
			found[SymbolPercent] = places
		}
	}

	return found
}

func symbolPlaces(pattern *regexp.Regexp, resumeText, answersText string) []string {
	var places []string
	if pattern.MatchString(resumeText) {
		places = append(places, LocationResume)
	}
	if pattern.MatchString(answersText) {
		places = append(places, LocationAnswers)
	}
	return places
}
