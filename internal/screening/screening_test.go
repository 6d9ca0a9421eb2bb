package screening

import (
	"context"
	"errors"
	"testing"

	"github.com/hireloop/screener/internal/applicant"
)

// stubGate passes or drops based on a per-applicant decision function.
type stubGate struct {
	name   string
	stage  string
	decide func(ev *Evaluation) (bool, error)
}

func (g *stubGate) Name() string  { return g.name }
func (g *stubGate) Stage() string { return g.stage }

func (g *stubGate) Check(_ context.Context, ev *Evaluation) (bool, error) {
	if g.decide == nil {
		return true, nil
	}
	return g.decide(ev)
}

func passAll() func(*Evaluation) (bool, error) {
	return func(*Evaluation) (bool, error) { return true, nil }
}

func newRecords(downloads ...string) *applicant.Records {
	records := &applicant.Records{Header: []string{applicant.ColID, applicant.ColDownload, applicant.ColAnswers}}
	for i, download := range downloads {
		records.Items = append(records.Items, &applicant.Record{Values: map[string]string{
			applicant.ColID:       string(rune('1' + i)),
			applicant.ColDownload: download,
			applicant.ColAnswers:  "",
		}})
	}
	return records
}

func TestRunFailsWithoutResumeColumn(t *testing.T) {
	records := &applicant.Records{Header: []string{applicant.ColID}}

	pipeline := New(nil, false, nil)

	_, err := pipeline.Run(context.Background(), records)
	if !errors.Is(err, ErrNoResumeColumn) {
		t.Fatalf("expected ErrNoResumeColumn, got %v", err)
	}
}

func TestRunSkipsRecordsWithoutResumeFilename(t *testing.T) {
	records := newRecords("alice.pdf", "", "carol.pdf")

	gates := []Gate{&stubGate{name: "exists", stage: StageResumeExists, decide: passAll()}}
	pipeline := New(gates, false, nil)

	result, err := pipeline.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("running pipeline: %v", err)
	}

	if result.Passed.Len() != 2 {
		t.Fatalf("expected 2 passing applicants, got %d", result.Passed.Len())
	}
	if count := funnelCount(result, StageResumeExists); count != 2 {
		t.Fatalf("expected stage count 2, got %d", count)
	}
}

func TestRunFunnelIsMonotonic(t *testing.T) {
	records := newRecords("a.pdf", "b.pdf", "c.pdf", "d.pdf")

	gates := []Gate{
		&stubGate{name: "exists", stage: StageResumeExists, decide: passAll()},
		&stubGate{name: "english", stage: StageEnglish, decide: func(ev *Evaluation) (bool, error) {
			return ev.Details.Download != "d.pdf", nil
		}},
		&stubGate{name: "quality", stage: StageAnswerQuality, decide: passAll()},
		&stubGate{name: "employers", stage: StageEmployers, decide: func(ev *Evaluation) (bool, error) {
			return ev.Details.Download != "c.pdf", nil
		}},
		&stubGate{name: "keywords", stage: StageKeywords, decide: passAll()},
	}

	pipeline := New(gates, false, nil)

	result, err := pipeline.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("running pipeline: %v", err)
	}

	wantOrder := []string{StageResumeExists, StageEnglish, StageAnswerQuality, StageEmployers, StageKeywords, StagePassed}
	if len(result.Funnel) != len(wantOrder) {
		t.Fatalf("expected %d funnel entries, got %d", len(wantOrder), len(result.Funnel))
	}

	previous := result.Funnel[0].Count
	for i, entry := range result.Funnel {
		if entry.Stage != wantOrder[i] {
			t.Fatalf("funnel entry %d: expected stage %q, got %q", i, wantOrder[i], entry.Stage)
		}
		if entry.Count > previous {
			t.Fatalf("funnel not monotonic: %v", result.Funnel)
		}
		previous = entry.Count
	}

	if funnelCount(result, StageResumeExists) != 4 {
		t.Fatalf("expected 4 at the first stage, got %v", result.Funnel)
	}
	if funnelCount(result, StageEnglish) != 3 {
		t.Fatalf("expected 3 after the english stage, got %v", result.Funnel)
	}
	if funnelCount(result, StagePassed) != 2 {
		t.Fatalf("expected 2 passed, got %v", result.Funnel)
	}
}

func TestRunGateErrorDropsApplicant(t *testing.T) {
	records := newRecords("a.pdf", "b.pdf")

	gates := []Gate{
		&stubGate{name: "broken", stage: StageResumeExists, decide: func(ev *Evaluation) (bool, error) {
			if ev.Details.Download == "a.pdf" {
				return false, errors.New("boom")
			}
			return true, nil
		}},
	}

	pipeline := New(gates, false, nil)

	result, err := pipeline.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("expected gate errors not to abort the run, got %v", err)
	}
	if result.Passed.Len() != 1 {
		t.Fatalf("expected 1 passing applicant, got %d", result.Passed.Len())
	}
}

func TestRunAttachesDiagnostics(t *testing.T) {
	records := newRecords("a.pdf")

	gates := []Gate{
		&stubGate{name: "probe", stage: "", decide: func(ev *Evaluation) (bool, error) {
			ev.FoundSymbols = map[string][]string{"$": {"pdf", "answers"}}
			ev.FoundRequired = map[string][]string{"sql": {"pdf"}}
			return true, nil
		}},
	}

	pipeline := New(gates, false, nil)

	result, err := pipeline.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("running pipeline: %v", err)
	}

	for _, col := range []string{applicant.ColFoundSymbols, applicant.ColFoundRequired, applicant.ColFoundOptional} {
		if !result.Passed.HasColumn(col) {
			t.Fatalf("expected diagnostic column %q, header: %v", col, result.Passed.Header)
		}
	}

	rec := result.Passed.Items[0]
	if got := rec.Get(applicant.ColFoundSymbols); got != `{"$":"pdf, answers"}` {
		t.Fatalf("unexpected symbols diagnostic: %q", got)
	}
	if got := rec.Get(applicant.ColFoundRequired); got != `{"sql":["pdf"]}` {
		t.Fatalf("unexpected required diagnostic: %q", got)
	}
	if got := rec.Get(applicant.ColFoundOptional); got != `{}` {
		t.Fatalf("expected empty object for absent diagnostics, got %q", got)
	}
}

func TestRunParsesAnswersOnce(t *testing.T) {
	records := &applicant.Records{
		Header: []string{applicant.ColID, applicant.ColDownload, applicant.ColAnswers},
		Items: []*applicant.Record{{Values: map[string]string{
			applicant.ColID:       "1",
			applicant.ColDownload: "a.pdf",
			applicant.ColAnswers: "---------- Question 1: Why us?\n" +
				"---------- Answer 1: Because the team ships.\n" +
				"---------- Question 2: Do you have a visa?\n" +
				"---------- Answer 2: Yes.",
		}}},
	}

	var seen *Evaluation
	gates := []Gate{
		&stubGate{name: "probe", decide: func(ev *Evaluation) (bool, error) {
			seen = ev
			return true, nil
		}},
	}

	pipeline := New(gates, false, nil)

	if _, err := pipeline.Run(context.Background(), records); err != nil {
		t.Fatalf("running pipeline: %v", err)
	}

	if seen == nil {
		t.Fatalf("probe gate never ran")
	}
	if len(seen.Units) != 2 {
		t.Fatalf("expected 2 parsed units, got %d", len(seen.Units))
	}
	// The ignorable visa question is filtered out of the evaluated blob.
	want := "Question: Why us?\nAnswer: Because the team ships."
	if seen.AnswersText != want {
		t.Fatalf("unexpected answers text: %q", seen.AnswersText)
	}
}

func TestRunExcludeAnswersSkipsParsing(t *testing.T) {
	records := newRecords("a.pdf")
	records.Items[0].Set(applicant.ColAnswers, "---------- Question 1: Why?\n---------- Answer 1: Because.")

	var seen *Evaluation
	gates := []Gate{
		&stubGate{name: "probe", decide: func(ev *Evaluation) (bool, error) {
			seen = ev
			return true, nil
		}},
	}

	pipeline := New(gates, true, nil)

	if _, err := pipeline.Run(context.Background(), records); err != nil {
		t.Fatalf("running pipeline: %v", err)
	}

	if seen.AnswersText != "" || seen.Units != nil {
		t.Fatalf("expected answers excluded from evaluation, got %q", seen.AnswersText)
	}
}

func funnelCount(result *Result, stage string) int {
	for _, entry := range result.Funnel {
		if entry.Stage == stage {
			return entry.Count
		}
	}
	return -1
}
