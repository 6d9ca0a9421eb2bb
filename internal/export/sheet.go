// Package export shapes passing applicants for delivery and appends them to
// a Google Sheets worksheet.
package export

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/hireloop/screener/internal/applicant"
)

// maxSheetColumns caps how many columns a shaped row carries to the sheet.
const maxSheetColumns = 8

// droppedColumns never appear in the sheet: the resume filename and the
// screening diagnostics are working data, not reviewer material.
var droppedColumns = map[string]bool{
	applicant.ColDownload:      true,
	applicant.ColExperience:    true,
	applicant.ColFoundSymbols:  true,
	applicant.ColFoundRequired: true,
	applicant.ColFoundOptional: true,
}

// ShapeHeader selects and orders the columns exported to the sheet: working
// columns dropped, id pinned first and answers pinned last when present, at
// most maxSheetColumns in total.
func ShapeHeader(header []string) []string {
	var middle []string
	hasID := false
	hasAnswers := false
	for _, col := range header {
		switch {
		case droppedColumns[col]:
		case col == applicant.ColID:
			hasID = true
		case col == applicant.ColAnswers:
			hasAnswers = true
		default:
			middle = append(middle, col)
		}
	}

	budget := maxSheetColumns
	if hasID {
		budget--
	}
	if hasAnswers {
		budget--
	}
	if len(middle) > budget {
		middle = middle[:budget]
	}

	shaped := make([]string, 0, maxSheetColumns)
	if hasID {
		shaped = append(shaped, applicant.ColID)
	}
	shaped = append(shaped, middle...)
	if hasAnswers {
		shaped = append(shaped, applicant.ColAnswers)
	}
	return shaped
}

// SheetRows shapes the passing records into sheet rows matching ShapeHeader's
// column order.
func SheetRows(recs *applicant.Records) ([]string, [][]string) {
	header := ShapeHeader(recs.Header)

	rows := make([][]string, 0, recs.Len())
	for _, rec := range recs.Items {
		row := make([]string, len(header))
		for i, col := range header {
			row[i] = rec.Get(col)
		}
		rows = append(rows, row)
	}
	return header, rows
}

// SheetAppender delivers shaped rows to a spreadsheet worksheet.
type SheetAppender interface {
	Append(ctx context.Context, worksheet string, header []string, rows [][]string) error
}

// GoogleSheets appends rows to a Google spreadsheet using a service account.
type GoogleSheets struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewGoogleSheets builds a sheets client from service account credentials
// JSON.
func NewGoogleSheets(ctx context.Context, credsJSON []byte, spreadsheetID string) (*GoogleSheets, error) {
	cfg, err := google.JWTConfigFromJSON(credsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing sheets credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &GoogleSheets{service: service, spreadsheetID: spreadsheetID}, nil
}

// Append makes sure the worksheet exists (creating it with a header row when
// missing) and appends the rows after the current data.
func (g *GoogleSheets) Append(ctx context.Context, worksheet string, header []string, rows [][]string) error {
	created, err := g.ensureWorksheet(ctx, worksheet)
	if err != nil {
		return err
	}

	values := make([][]any, 0, len(rows)+1)
	if created {
		values = append(values, toAny(header))
	}
	for _, row := range rows {
		values = append(values, toAny(row))
	}

	_, err = g.service.Spreadsheets.Values.
		Append(g.spreadsheetID, fmt.Sprintf("'%s'!A1", worksheet), &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending to worksheet %q: %w", worksheet, err)
	}
	return nil
}

func (g *GoogleSheets) ensureWorksheet(ctx context.Context, worksheet string) (bool, error) {
	spreadsheet, err := g.service.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("reading spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == worksheet {
			return false, nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: worksheet,
					GridProperties: &sheets.GridProperties{
						RowCount:    100,
						ColumnCount: maxSheetColumns,
					},
				},
			},
		}},
	}
	if _, err := g.service.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return false, fmt.Errorf("creating worksheet %q: %w", worksheet, err)
	}
	return true, nil
}

func toAny(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
