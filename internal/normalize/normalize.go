// Package normalize maps heterogeneous applicant spreadsheet schemas onto the
// canonical row shape. Upload forms export wildly different headers for the
// same data, so everything downstream depends on this step.
package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hireloop/screener/internal/applicant"
	"github.com/hireloop/screener/internal/tabular"
)

// renames maps known header spellings (compared case-insensitively) onto
// canonical column names.
var renames = map[string]string{
	"name":          applicant.ColName,
	"email":         applicant.ColEmail,
	"creation time": applicant.ColCreatedAt,
	"job title":     applicant.ColJob,
	"experiences":   applicant.ColExperience,
}

var firstNumber = regexp.MustCompile(`\d+`)

// noNumberOrder sorts question/answer columns without an embedded number after
// every numbered one.
const noNumberOrder = 999

// Table rewrites the table in place into the canonical shape: trimmed header
// names, guaranteed id and answers columns, known columns renamed, the resume
// filename column renamed to download, and dynamic question/answer column
// pairs merged into the consolidated answers blob. Running it on an already
// canonical table is a no-op.
func Table(t *tabular.Table, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	trimHeader(t)

	if !t.HasColumn(applicant.ColID) {
		t.AddColumn(applicant.ColID)
	}

	renameKnown(t, log)
	renameResume(t, log)
	unifyAnswersCase(t)

	questionCols, answerCols := dynamicColumns(t)

	if !t.HasColumn(applicant.ColAnswers) {
		t.AddColumn(applicant.ColAnswers)
	}

	mergeQA(t, questionCols, answerCols)
	dropColumns(t, append(questionCols, answerCols...))

	if len(questionCols)+len(answerCols) > 0 {
		log.Debug("merged dynamic question/answer columns",
			zap.Strings("question_columns", questionCols),
			zap.Strings("answer_columns", answerCols),
		)
	}
}

func trimHeader(t *tabular.Table) {
	for i, col := range t.Header {
		trimmed := strings.TrimSpace(col)
		if trimmed != col {
			renameColumn(t, i, trimmed)
		}
	}
}

func renameKnown(t *tabular.Table, log *zap.Logger) {
	for i, col := range t.Header {
		target, ok := renames[strings.ToLower(col)]
		if !ok || col == target {
			continue
		}
		log.Debug("renaming column", zap.String("from", col), zap.String("to", target))
		renameColumn(t, i, target)
	}
}

// renameResume renames the first column whose name contains "resume" to
// download. Later matches are left untouched so the outcome is deterministic
// for a given header order, and nothing is renamed when a download column
// already exists.
func renameResume(t *tabular.Table, log *zap.Logger) {
	if t.HasColumn(applicant.ColDownload) {
		return
	}
	for i, col := range t.Header {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "resume") && lower != applicant.ColDownload {
			log.Debug("renaming resume column", zap.String("from", col))
			renameColumn(t, i, applicant.ColDownload)
			return
		}
	}
}

func unifyAnswersCase(t *tabular.Table) {
	for i, col := range t.Header {
		if strings.EqualFold(col, applicant.ColAnswers) && col != applicant.ColAnswers {
			renameColumn(t, i, applicant.ColAnswers)
		}
	}
}

// dynamicColumns returns the question and answer columns sorted by the first
// number embedded in their name.
func dynamicColumns(t *tabular.Table) (questions, answers []string) {
	for _, col := range t.Header {
		lower := strings.ToLower(col)
		switch {
		case lower == applicant.ColAnswers:
		case strings.HasPrefix(lower, "question"):
			questions = append(questions, col)
		case strings.HasPrefix(lower, "answer"):
			answers = append(answers, col)
		}
	}

	sortByNumber(questions)
	sortByNumber(answers)
	return questions, answers
}

func sortByNumber(cols []string) {
	sort.SliceStable(cols, func(i, j int) bool {
		return columnOrder(cols[i]) < columnOrder(cols[j])
	})
}

func columnOrder(col string) int {
	match := firstNumber.FindString(col)
	if match == "" {
		return noNumberOrder
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return noNumberOrder
	}
	return n
}

// mergeQA pairs question and answer columns by position and appends the
// labeled segments to each row's answers blob.
func mergeQA(t *tabular.Table, questionCols, answerCols []string) {
	pairs := len(questionCols)
	if len(answerCols) > pairs {
		pairs = len(answerCols)
	}
	if pairs == 0 {
		return
	}

	for _, row := range t.Rows {
		var lines []string
		for i := 0; i < pairs; i++ {
			qLabel, qText := pairSide(row, questionCols, i, "Question")
			aLabel, aText := pairSide(row, answerCols, i, "Answer")

			if qText == "" && aText == "" {
				continue
			}
			lines = append(lines, applicant.Separator+" "+qLabel+": "+qText)
			lines = append(lines, applicant.Separator+" "+aLabel+": "+aText)
		}

		combined := strings.TrimSpace(strings.Join(lines, "\n"))
		if combined == "" {
			continue
		}

		if existing := row[applicant.ColAnswers]; existing != "" {
			row[applicant.ColAnswers] = existing + "\n" + combined
		} else {
			row[applicant.ColAnswers] = combined
		}
	}
}

func pairSide(row map[string]string, cols []string, i int, fallback string) (label, text string) {
	if i >= len(cols) {
		return fallback, ""
	}
	return cols[i], strings.TrimSpace(row[cols[i]])
}

func renameColumn(t *tabular.Table, idx int, to string) {
	from := t.Header[idx]
	t.Header[idx] = to
	for _, row := range t.Rows {
		value, ok := row[from]
		if !ok {
			continue
		}
		delete(row, from)
		row[to] = value
	}
}

func dropColumns(t *tabular.Table, cols []string) {
	if len(cols) == 0 {
		return
	}

	drop := make(map[string]bool, len(cols))
	for _, col := range cols {
		drop[col] = true
	}

	header := t.Header[:0]
	for _, col := range t.Header {
		if !drop[col] {
			header = append(header, col)
		}
	}
	t.Header = header

	for _, row := range t.Rows {
		for col := range drop {
			delete(row, col)
		}
	}
}
