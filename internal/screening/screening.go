// Package screening runs applicants through the ordered pass/fail gates and
// tracks how many survive each stage.
package screening

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/hireloop/screener/internal/applicant"
	"github.com/hireloop/screener/internal/logger"
)

// answersPreviewLimit caps the answers snippet included in debug logs.
const answersPreviewLimit = 120

// Funnel stage names, in pipeline order. Stages without a name here
// (extraction, symbols, required keywords) drop applicants but have no
// counter of their own.
const (
	StageResumeExists  = "resume_exists"
	StageEnglish       = "english"
	StageAnswerQuality = "answer_quality"
	StageEmployers     = "no_disallowed_employer"
	StageKeywords      = "keyword_match"
	StagePassed        = "passed"
)

// stageOrder fixes the reporting order of the funnel.
var stageOrder = []string{
	StageResumeExists,
	StageEnglish,
	StageAnswerQuality,
	StageEmployers,
	StageKeywords,
	StagePassed,
}

// ErrNoResumeColumn is returned when the normalized input has no resume
// filename column at all. No applicant could ever pass, so the run halts.
var ErrNoResumeColumn = errors.New("input has no resume filename column after normalization")

// Gate is a single screening step applied to one applicant.
type Gate interface {
	Name() string
	// Stage names the funnel counter incremented when the gate passes,
	// empty for gates that only drop.
	Stage() string
	Check(ctx context.Context, ev *Evaluation) (bool, error)
}

// Evaluation carries one applicant through the gates, accumulating the
// extracted resume text, the filtered answers and the match diagnostics.
type Evaluation struct {
	Record  *applicant.Record
	Details *applicant.Details

	ResumePath  string
	ResumeText  string
	AnswersText string
	Units       []applicant.QAUnit

	FoundSymbols  map[string][]string
	FoundRequired map[string][]string
	FoundOptional map[string][]string
}

// StageCount is one funnel entry.
type StageCount struct {
	Stage string
	Count int
}

// Result is the outcome of a pipeline run: the passing applicants with
// diagnostic columns attached, plus the stage funnel.
type Result struct {
	Passed *applicant.Records
	Funnel []StageCount
}

// Pipeline evaluates applicants sequentially through its gates.
type Pipeline struct {
	gates          []Gate
	excludeAnswers bool
	logger         *zap.Logger
}

// New creates a pipeline. When excludeAnswers is set, the consolidated
// answers never contribute to any gate and only resume text is evaluated.
func New(gates []Gate, excludeAnswers bool, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		gates:          gates,
		excludeAnswers: excludeAnswers,
		logger:         logger,
	}
}

// Run evaluates every record in order. Row-level problems drop the applicant
// and never abort the run; the only fatal condition is a missing resume
// filename column.
func (p *Pipeline) Run(ctx context.Context, records *applicant.Records) (*Result, error) {
	if !records.HasColumn(applicant.ColDownload) {
		return nil, ErrNoResumeColumn
	}

	counts := make(map[string]int, len(stageOrder))

	passed := &applicant.Records{Header: append([]string(nil), records.Header...)}
	passed.AddColumn(applicant.ColFoundSymbols)
	passed.AddColumn(applicant.ColFoundRequired)
	passed.AddColumn(applicant.ColFoundOptional)

	for _, record := range records.Items {
		details, err := record.Details()
		if err != nil {
			p.logger.Warn("skipping unreadable row", zap.Error(err))
			continue
		}

		if details.Download == "" {
			continue
		}

		ev := &Evaluation{Record: record, Details: details}
		p.prepareAnswers(ev)

		if !p.runGates(ctx, ev, counts) {
			continue
		}

		counts[StagePassed]++
		attachDiagnostics(record, ev)
		passed.Items = append(passed.Items, record)
	}

	funnel := make([]StageCount, 0, len(stageOrder))
	for _, stage := range stageOrder {
		funnel = append(funnel, StageCount{Stage: stage, Count: counts[stage]})
		p.logger.Info("screening stage",
			zap.String("stage", stage),
			zap.Int("survived", counts[stage]),
		)
	}

	return &Result{Passed: passed, Funnel: funnel}, nil
}

func (p *Pipeline) runGates(ctx context.Context, ev *Evaluation, counts map[string]int) bool {
	for _, gate := range p.gates {
		ok, err := gate.Check(ctx, ev)
		if err != nil {
			p.logger.Warn("gate error, dropping applicant",
				zap.String("gate", gate.Name()),
				zap.String("applicant_id", ev.Details.ID),
				zap.String("resume", ev.Details.Download),
				zap.Error(err),
			)
			return false
		}
		if !ok {
			p.logger.Debug("applicant dropped",
				zap.String("gate", gate.Name()),
				zap.String("applicant_id", ev.Details.ID),
				zap.String("resume", ev.Details.Download),
			)
			return false
		}
		if stage := gate.Stage(); stage != "" {
			counts[stage]++
		}
	}
	return true
}

// prepareAnswers parses the consolidated blob once; every downstream gate
// consumes the parsed units or the filtered blob.
func (p *Pipeline) prepareAnswers(ev *Evaluation) {
	if p.excludeAnswers {
		return
	}
	ev.Units = applicant.ParseQA(ev.Details.Answers)
	ev.AnswersText = applicant.JoinQA(applicant.FilterIgnorable(ev.Units))

	p.logger.Debug("prepared answers",
		zap.String("applicant_id", ev.Details.ID),
		zap.Int("units", len(ev.Units)),
		zap.String("preview", logger.TruncateForLog(ev.AnswersText, answersPreviewLimit)),
	)
}

func attachDiagnostics(record *applicant.Record, ev *Evaluation) {
	symbols := make(map[string]string, len(ev.FoundSymbols))
	for symbol, places := range ev.FoundSymbols {
		symbols[symbol] = strings.Join(places, ", ")
	}

	record.Set(applicant.ColFoundSymbols, marshalDiagnostic(symbols))
	record.Set(applicant.ColFoundRequired, marshalDiagnostic(orEmpty(ev.FoundRequired)))
	record.Set(applicant.ColFoundOptional, marshalDiagnostic(orEmpty(ev.FoundOptional)))
}

func orEmpty(m map[string][]string) map[string][]string {
	if m == nil {
		return map[string][]string{}
	}
	return m
}

// marshalDiagnostic encodes a diagnostic map as JSON. Map keys are emitted in
// sorted order, which keeps the exported columns stable across runs.
func marshalDiagnostic(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
