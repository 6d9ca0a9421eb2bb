package applicant

import (
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/hireloop/screener/internal/tabular"
)

// Canonical column names produced by schema normalization.
const (
	ColID         = "id"
	ColName       = "name"
	ColEmail      = "email"
	ColCreatedAt  = "created_at"
	ColJob        = "job"
	ColExperience = "experience"
	ColDownload   = "download"
	ColAnswers    = "answers"
)

// Diagnostic columns appended to records that pass every screening gate.
const (
	ColFoundSymbols  = "found_symbols"
	ColFoundRequired = "found_required"
	ColFoundOptional = "found_optional"
)

// Record is one canonical applicant row. Values keeps every column of the
// source row, including pass-through columns the screener never interprets.
type Record struct {
	Values map[string]string
}

// Details is the typed view of the canonical columns.
type Details struct {
	ID         string `mapstructure:"id"`
	Name       string `mapstructure:"name"`
	Email      string `mapstructure:"email"`
	CreatedAt  string `mapstructure:"created_at"`
	Job        string `mapstructure:"job"`
	Experience string `mapstructure:"experience"`
	Download   string `mapstructure:"download"`
	Answers    string `mapstructure:"answers"`
}

// Records is an ordered applicant collection sharing one header.
type Records struct {
	Header []string
	Items  []*Record
}

// FromTable converts a normalized table into an applicant collection.
func FromTable(t *tabular.Table) *Records {
	records := &Records{Header: append([]string(nil), t.Header...)}
	for _, row := range t.Rows {
		values := make(map[string]string, len(row))
		for col, val := range row {
			values[col] = val
		}
		records.Items = append(records.Items, &Record{Values: values})
	}
	return records
}

// ToTable converts the collection back into a table for export.
func (r *Records) ToTable() *tabular.Table {
	t := &tabular.Table{Header: append([]string(nil), r.Header...)}
	for _, item := range r.Items {
		row := make(map[string]string, len(t.Header))
		for _, col := range t.Header {
			row[col] = item.Values[col]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func (r *Records) Len() int {
	return len(r.Items)
}

// HasColumn reports whether the shared header contains the column.
func (r *Records) HasColumn(name string) bool {
	for _, col := range r.Header {
		if col == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the shared header if missing.
func (r *Records) AddColumn(name string) {
	if !r.HasColumn(name) {
		r.Header = append(r.Header, name)
	}
}

// Get returns the raw value of a column, empty string when absent.
func (rec *Record) Get(col string) string {
	return rec.Values[col]
}

// Set stores a value. The owning collection's header is not touched; callers
// adding new columns must also call Records.AddColumn.
func (rec *Record) Set(col, value string) {
	if rec.Values == nil {
		rec.Values = make(map[string]string)
	}
	rec.Values[col] = value
}

// Details decodes the canonical columns into the typed view. String values are
// trimmed so downstream checks never see stray whitespace.
func (rec *Record) Details() (*Details, error) {
	var details Details
	if err := mapstructure.Decode(rec.Values, &details); err != nil {
		return nil, err
	}

	details.ID = strings.TrimSpace(details.ID)
	details.Name = strings.TrimSpace(details.Name)
	details.Email = strings.TrimSpace(details.Email)
	details.Job = strings.TrimSpace(details.Job)
	details.Download = strings.TrimSpace(details.Download)
	details.Experience = strings.TrimSpace(details.Experience)

	return &details, nil
}
