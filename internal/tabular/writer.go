package tabular

import (
	"encoding/csv"
	"os"
)

// WriteCSV writes the table to path, header first, rows in order.
func WriteCSV(path string, t *Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(t.Header); err != nil {
		return err
	}

	for _, row := range t.Rows {
		record := make([]string, len(t.Header))
		for i, col := range t.Header {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
