package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// TABLE BUILDER — Tabulates the derived aggregate behind each chart
// ============================================================================
// Tables are diagnostic output: the runner logs them next to the artifact.
// ============================================================================

// BuildGroupTable tabulates grouped means (bar) or category counts (pie).
func BuildGroupTable(spec ChartSpec, groups []Group) *TableData {
	groupKey := spec.GroupBy
	if groupKey == "" {
		groupKey = spec.Category
	}

	columns := []Column{{Key: "group", Label: LabelForDimension(groupKey), Type: "text", Align: "left"}}
	if spec.Kind == KindGroupedBar {
		for j, m := range spec.Measures {
			columns = append(columns, Column{Key: m, Label: seriesLabel(spec, j), Type: "number", Align: "right"})
		}
	}
	columns = append(columns, Column{Key: "count", Label: "Count", Type: "number", Align: "center"})

	rows := make([][]string, 0, len(groups))
	var totalCount int
	for _, g := range groups {
		row := []string{g.Label}
		if spec.Kind == KindGroupedBar {
			for _, v := range g.Values {
				row = append(row, formatNumber(v))
			}
		}
		row = append(row, FormatInt(g.Count))
		rows = append(rows, row)
		totalCount += g.Count
	}

	return &TableData{
		Title:   spec.Title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  fmt.Sprintf("Total (%d groups)", len(groups)),
			Values: map[string]string{"count": FormatInt(totalCount)},
		},
	}
}

// BuildMatrixTable tabulates a square matrix labelled by keys.
func BuildMatrixTable(spec ChartSpec, keys []string, matrix [][]float64) *TableData {
	columns := make([]Column, 0, len(keys)+1)
	columns = append(columns, Column{Key: "column", Label: "", Type: "text", Align: "left"})
	for _, k := range keys {
		columns = append(columns, Column{Key: k, Label: k, Type: "number", Align: "right"})
	}

	rows := make([][]string, 0, len(matrix))
	for i, line := range matrix {
		row := make([]string, 0, len(line)+1)
		row = append(row, keys[i])
		for _, v := range line {
			row = append(row, formatNumber(v))
		}
		rows = append(rows, row)
	}

	return &TableData{Title: spec.Title, Columns: columns, Rows: rows}
}

// BuildMeasureTable summarizes the measures plotted by a point chart.
func BuildMeasureTable(spec ChartSpec, view RecordView) *TableData {
	columns := []Column{
		{Key: "measure", Label: "Measure", Type: "text", Align: "left"},
		{Key: "mean", Label: "Mean", Type: "number", Align: "right"},
	}

	rows := make([][]string, 0, len(spec.Measures))
	for _, m := range spec.Measures {
		rows = append(rows, []string{m, formatNumber(AvgMeasure(view, m))})
	}

	return &TableData{
		Title:   spec.Title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  "Points",
			Values: map[string]string{"mean": FormatInt(view.Len())},
		},
	}
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}
