package screening

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hireloop/screener/internal/applicant"
	"github.com/hireloop/screener/internal/employers"
	"github.com/hireloop/screener/internal/extract"
	"github.com/hireloop/screener/internal/language"
	"github.com/hireloop/screener/internal/match"
)

// minMatchesForTextScan is how many distinct disallowed employers have to
// appear in the resume text before the fallback scan rejects.
const minMatchesForTextScan = 2

// DefaultMinAnswerWords is the word count below which an answer counts as
// short.
const DefaultMinAnswerWords = 20

// shortAnswerLimit is how many short answers it takes to fail the quality
// gate.
const shortAnswerLimit = 2

type resumeExistsGate struct {
	dir string
}

// NewResumeExists creates the gate requiring the resume file to exist under
// the resume folder.
func NewResumeExists(dir string) Gate {
	return &resumeExistsGate{dir: dir}
}

func (g *resumeExistsGate) Name() string { return "resume_exists" }

func (g *resumeExistsGate) Stage() string { return StageResumeExists }

func (g *resumeExistsGate) Check(_ context.Context, ev *Evaluation) (bool, error) {
	path := filepath.Join(g.dir, ev.Details.Download)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false, nil
	}

	ev.ResumePath = path
	return true, nil
}

type extractTextGate struct{}

// NewExtractText creates the gate extracting the resume's plain text.
// Unsupported formats and extraction failures drop the applicant.
func NewExtractText() Gate {
	return &extractTextGate{}
}

func (g *extractTextGate) Name() string { return "extract_text" }

func (g *extractTextGate) Stage() string { return "" }

func (g *extractTextGate) Check(_ context.Context, ev *Evaluation) (bool, error) {
	text, err := extract.Text(ev.ResumePath)
	if err != nil {
		return false, err
	}

	ev.ResumeText = text
	return true, nil
}

type englishGate struct{}

// NewEnglish creates the gate requiring the combined resume and answer text
// to be detected as English.
func NewEnglish() Gate {
	return &englishGate{}
}

func (g *englishGate) Name() string { return "english" }

func (g *englishGate) Stage() string { return StageEnglish }

func (g *englishGate) Check(_ context.Context, ev *Evaluation) (bool, error) {
	combined := ev.ResumeText
	if ev.AnswersText != "" {
		combined += " " + ev.AnswersText
	}
	return language.IsEnglish(combined), nil
}

type answerQualityGate struct {
	minWords       int
	excludeAnswers bool
}

// NewAnswerQuality creates the gate rejecting applicants with two or more
// short answers. It auto-passes when answers are excluded from evaluation.
func NewAnswerQuality(minWords int, excludeAnswers bool) Gate {
	if minWords <= 0 {
		minWords = DefaultMinAnswerWords
	}
	return &answerQualityGate{minWords: minWords, excludeAnswers: excludeAnswers}
}

func (g *answerQualityGate) Name() string { return "answer_quality" }

func (g *answerQualityGate) Stage() string { return StageAnswerQuality }

func (g *answerQualityGate) Check(_ context.Context, ev *Evaluation) (bool, error) {
	if g.excludeAnswers {
		return true, nil
	}
	return !applicant.HasShortAnswers(ev.Units, g.minWords, shortAnswerLimit), nil
}

type employersGate struct {
	disallowed []string
}

// NewEmployers creates the gate rejecting applicants with a disallowed
// employer. Employer names parsed out of the experience field reject on a
// single exact match; when nothing parses, the resume text is scanned and
// rejection requires two distinct matches.
func NewEmployers(disallowed []string) Gate {
	return &employersGate{disallowed: disallowed}
}

func (g *employersGate) Name() string { return "employers" }

func (g *employersGate) Stage() string { return StageEmployers }

func (g *employersGate) Check(_ context.Context, ev *Evaluation) (bool, error) {
	if len(g.disallowed) == 0 {
		return true, nil
	}

	parsed := employers.ParseExperience(ev.Details.Experience)
	if len(parsed) > 0 {
		return !employers.AnyListed(parsed, g.disallowed), nil
	}

	count, _ := employers.CountListedMatches(ev.ResumeText, g.disallowed)
	return count < minMatchesForTextScan, nil
}

type symbolsGate struct {
	checkDollar  bool
	checkPercent bool
}

// NewSymbols creates the gate requiring the enabled currency/percentage
// patterns to appear somewhere in the evaluated text.
func NewSymbols(checkDollar, checkPercent bool) Gate {
	return &symbolsGate{checkDollar: checkDollar, checkPercent: checkPercent}
}

func (g *symbolsGate) Name() string { return "symbols" }

func (g *symbolsGate) Stage() string { return "" }

func (g *symbolsGate) Check(_ context.Context, ev *Evaluation) (bool, error) {
	found := match.FoundSymbols(ev.ResumeText, ev.AnswersText, g.checkDollar, g.checkPercent)
	ev.FoundSymbols = found

	if g.checkDollar {
		if _, ok := found[match.SymbolDollar]; !ok {
			return false, nil
		}
	}
	if g.checkPercent {
		if _, ok := found[match.SymbolPercent]; !ok {
			return false, nil
		}
	}
	return true, nil
}

type requiredKeywordsGate struct {
	matcher  *match.Matcher
	keywords []string
}

// NewRequiredKeywords creates the gate requiring every configured keyword to
// be found in at least one source.
func NewRequiredKeywords(matcher *match.Matcher, keywords []string) Gate {
	return &requiredKeywordsGate{matcher: matcher, keywords: keywords}
}

func (g *requiredKeywordsGate) Name() string { return "required_keywords" }

func (g *requiredKeywordsGate) Stage() string { return "" }

func (g *requiredKeywordsGate) Check(ctx context.Context, ev *Evaluation) (bool, error) {
	found, allFound, err := g.matcher.FoundWithLocations(ctx, ev.ResumeText, ev.AnswersText, g.keywords)
	if err != nil {
		return false, err
	}

	ev.FoundRequired = found
	return allFound, nil
}

type optionalKeywordsGate struct {
	matcher  *match.Matcher
	keywords []string
}

// NewOptionalKeywords creates the diagnostic-only step recording where the
// optional keywords were found. It never drops an applicant.
func NewOptionalKeywords(matcher *match.Matcher, keywords []string) Gate {
	return &optionalKeywordsGate{matcher: matcher, keywords: keywords}
}

func (g *optionalKeywordsGate) Name() string { return "optional_keywords" }

func (g *optionalKeywordsGate) Stage() string { return "" }

func (g *optionalKeywordsGate) Check(ctx context.Context, ev *Evaluation) (bool, error) {
	found, _, err := g.matcher.FoundWithLocations(ctx, ev.ResumeText, ev.AnswersText, g.keywords)
	if err != nil {
		return false, err
	}

	ev.FoundOptional = found
	return true, nil
}

type relatedKeywordsGate struct {
	matcher  *match.Matcher
	keywords []string
}

// NewRelatedKeywords creates the final gate requiring at least one related
// keyword match.
func NewRelatedKeywords(matcher *match.Matcher, keywords []string) Gate {
	return &relatedKeywordsGate{matcher: matcher, keywords: keywords}
}

func (g *relatedKeywordsGate) Name() string { return "related_keywords" }

func (g *relatedKeywordsGate) Stage() string { return StageKeywords }

func (g *relatedKeywordsGate) Check(ctx context.Context, ev *Evaluation) (bool, error) {
	return g.matcher.AnyMatch(ctx, ev.ResumeText, ev.AnswersText, g.keywords)
}

// DefaultGates assembles the standard gate order.
func DefaultGates(resumeDir string, disallowed []string, matcher *match.Matcher, keywords match.KeywordSet, checkDollar, checkPercent, excludeAnswers bool, minAnswerWords int) []Gate {
	return []Gate{
		NewResumeExists(resumeDir),
		NewExtractText(),
		NewEnglish(),
		NewAnswerQuality(minAnswerWords, excludeAnswers),
		NewEmployers(disallowed),
		NewSymbols(checkDollar, checkPercent),
		NewRequiredKeywords(matcher, keywords.Required),
		NewOptionalKeywords(matcher, keywords.Optional),
		NewRelatedKeywords(matcher, keywords.Related),
	}
}
