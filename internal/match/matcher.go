package match

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Source location labels recorded for every match.
const (
	LocationResume  = "pdf"
	LocationAnswers = "answers"
)

// DefaultThreshold is the minimum cosine similarity for a keyword to count
// as found.
const DefaultThreshold = 0.7

var matcherTokens = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Matcher finds keywords in resume and answer text by embedding similarity.
type Matcher struct {
	embedder  Embedder
	threshold float64
	logger    *zap.Logger
}

// NewMatcher creates a matcher around the given embedder. A non-positive
// threshold falls back to DefaultThreshold.
func NewMatcher(embedder Embedder, threshold float64, logger *zap.Logger) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Matcher{
		embedder:  embedder,
		threshold: threshold,
		logger:    logger,
	}
}

// FoundWithLocations reports, for every keyword, the sources it was found in.
// The boolean result is true when every keyword was found in at least one
// source. Keywords that match nowhere are absent from the map.
func (m *Matcher) FoundWithLocations(ctx context.Context, resumeText, answersText string, keywords []string) (map[string][]string, bool, error) {
	resumeTokens, err := m.embedTokens(ctx, resumeText)
	if err != nil {
		return nil, false, err
	}
	answerTokens, err := m.embedTokens(ctx, answersText)
	if err != nil {
		return nil, false, err
	}

	found := make(map[string][]string)
	allFound := true
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}

		vector, err := m.embedKeyword(ctx, keyword)
		if err != nil {
			return nil, false, err
		}

		var places []string
		if m.anyTokenMatches(resumeTokens, keyword, vector) {
			places = append(places, LocationResume)
		}
		if m.anyTokenMatches(answerTokens, keyword, vector) {
			places = append(places, LocationAnswers)
		}

		if len(places) > 0 {
			found[keyword] = places
		} else {
			allFound = false
		}
	}

	return found, allFound, nil
}

// AnyMatch reports whether any keyword is found in the combined resume and
// answer text, stopping at the first hit.
func (m *Matcher) AnyMatch(ctx context.Context, resumeText, answersText string, keywords []string) (bool, error) {
	combined := resumeText
	if answersText != "" {
		combined += " " + answersText
	}

	tokens, err := m.embedTokens(ctx, combined)
	if err != nil {
		return false, err
	}

	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}

		vector, err := m.embedKeyword(ctx, keyword)
		if err != nil {
			return false, err
		}
		if m.anyTokenMatches(tokens, keyword, vector) {
			return true, nil
		}
	}

	return false, nil
}

type embeddedToken struct {
	text   string
	vector []float32
}

// embedTokens embeds the unique lowercased word tokens of a text.
func (m *Matcher) embedTokens(ctx context.Context, text string) ([]embeddedToken, error) {
	tokens := uniqueTokens(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	vectors, err := m.embedder.Embed(ctx, tokens)
	if err != nil {
		return nil, err
	}

	embedded := make([]embeddedToken, len(tokens))
	for i, token := range tokens {
		embedded[i] = embeddedToken{text: token, vector: vectors[i]}
	}
	return embedded, nil
}

func (m *Matcher) embedKeyword(ctx context.Context, keyword string) ([]float32, error) {
	vectors, err := m.embedder.Embed(ctx, []string{strings.ToLower(keyword)})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// anyTokenMatches reports whether any token scores at or above the threshold
// against the keyword vector. A token equal to the lowercased keyword matches
// outright.
func (m *Matcher) anyTokenMatches(tokens []embeddedToken, keyword string, vector []float32) bool {
	lowered := strings.ToLower(keyword)
	for _, token := range tokens {
		if token.text == lowered {
			return true
		}
		if cosine(token.vector, vector) >= m.threshold {
			return true
		}
	}
	return false
}

func uniqueTokens(text string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, token := range matcherTokens.FindAllString(strings.ToLower(text), -1) {
		if !seen[token] {
			seen[token] = true
			tokens = append(tokens, token)
		}
	}
	return tokens
}
