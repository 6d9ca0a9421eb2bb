package applicant

import (
	"strings"
)

// Separator delimits labeled segments inside the consolidated answers blob.
const Separator = "----------"

// QAUnit is one question/answer pair parsed out of the answers blob.
type QAUnit struct {
	Question string
	Answer   string
}

var ignorablePrefixes = []string{"do you ", "are you ", "have you ", "did you "}

// Ignorable reports whether the question is a checklist or yes/no style
// question that should not count towards answer quality.
func (u QAUnit) Ignorable() bool {
	q := strings.ToLower(u.Question)
	if strings.Contains(q, "check all that apply") {
		return true
	}
	for _, prefix := range ignorablePrefixes {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return strings.Contains(q, "how many")
}

// ParseQA splits the consolidated answers blob into an ordered QAUnit
// sequence. Segments are delimited by the separator token and carry a
// "<label>: <content>" shape. A "Question N" label stores the content as the
// pending question, an "Answer N" label closes the pending pair, and any other
// labeled segment is an implicit pair with the label as the question text.
// Segments without a label are dropped.
func ParseQA(blob string) []QAUnit {
	var units []QAUnit
	pending := ""

	for _, segment := range strings.Split(blob, Separator) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		label, content, ok := strings.Cut(segment, ":")
		if !ok {
			continue
		}
		label = strings.TrimSpace(label)
		content = strings.TrimSpace(content)

		lower := strings.ToLower(label)
		switch {
		case strings.HasPrefix(lower, "question "):
			pending = content
		case strings.HasPrefix(lower, "answer "):
			units = append(units, QAUnit{Question: pending, Answer: content})
			pending = ""
		default:
			units = append(units, QAUnit{Question: label, Answer: content})
		}
	}

	return units
}

// FilterIgnorable returns only the units worth keeping: complete pairs whose
// question is not ignorable.
func FilterIgnorable(units []QAUnit) []QAUnit {
	kept := make([]QAUnit, 0, len(units))
	for _, unit := range units {
		if unit.Question == "" || unit.Ignorable() {
			continue
		}
		kept = append(kept, unit)
	}
	return kept
}

// JoinQA rebuilds an answers blob from units with uniform labels.
func JoinQA(units []QAUnit) string {
	lines := make([]string, 0, len(units)*2)
	for _, unit := range units {
		lines = append(lines, "Question: "+unit.Question)
		lines = append(lines, "Answer: "+unit.Answer)
	}
	return strings.Join(lines, "\n")
}

// HasShortAnswers reports whether at least limit non-ignorable answers contain
// fewer than minWords whitespace-delimited words. It exits early once the
// limit is reached.
func HasShortAnswers(units []QAUnit, minWords, limit int) bool {
	if limit <= 0 {
		return false
	}

	short := 0
	for _, unit := range units {
		if unit.Ignorable() {
			continue
		}
		if len(strings.Fields(unit.Answer)) < minWords {
			short++
			if short >= limit {
				return true
			}
		}
	}
	return false
}
