package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spektr-org/healthviz/engine"
)

// ============================================================================
// TABLE OUTPUT — derived aggregates as Sheets-ready CSV
// ============================================================================

// WriteTableCSV writes the column labels and rows of a table.
// A nil or column-less table writes a single "No data" row.
func WriteTableCSV(w io.Writer, table *engine.TableData) error {
	cw := csv.NewWriter(w)

	if table == nil || len(table.Columns) == 0 {
		cw.Write([]string{"Result", "No data"})
		cw.Flush()
		return cw.Error()
	}

	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
	}
	cw.Write(headers)
	for _, row := range table.Rows {
		cw.Write(row)
	}
	if row := summaryRow(table); row != nil {
		cw.Write(row)
	}

	cw.Flush()
	return cw.Error()
}

// summaryRow lays the summary out under the table columns, or returns nil.
func summaryRow(table *engine.TableData) []string {
	if table.Summary == nil {
		return nil
	}
	row := make([]string, len(table.Columns))
	row[0] = table.Summary.Label
	for i, c := range table.Columns[1:] {
		row[i+1] = table.Summary.Values[c.Key]
	}
	return row
}

// maxLoggedRows caps the table rows logged per chart.
const maxLoggedRows = 12

// tableLines renders a table as " | " separated lines for the log. Rows past
// limit collapse into one "... n more rows" line; the summary always prints.
func tableLines(table *engine.TableData, limit int) []string {
	if table == nil || len(table.Columns) == 0 {
		return []string{"no data"}
	}

	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
	}
	lines := []string{strings.Join(headers, " | ")}

	rows := table.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for _, row := range rows {
		lines = append(lines, strings.Join(row, " | "))
	}
	if hidden := len(table.Rows) - len(rows); hidden > 0 {
		lines = append(lines, fmt.Sprintf("... %s more rows", engine.FormatInt(hidden)))
	}
	if row := summaryRow(table); row != nil {
		lines = append(lines, strings.Join(row, " | "))
	}
	return lines
}

func saveTable(path string, table *engine.TableData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pipeline: create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteTableCSV(f, table); err != nil {
		return fmt.Errorf("pipeline: write %s: %w", path, err)
	}
	return f.Close()
}

// tableFile names the CSV written next to a chart image.
func tableFile(image string) string {
	return strings.TrimSuffix(image, ".png") + ".csv"
}
