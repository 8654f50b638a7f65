package engine

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================================
// TEXT BUILDER — One-line descriptions of a Result
// ============================================================================

// Describe summarizes what a chart shows, for log output.
func Describe(r *Result) string {
	if r == nil || r.ChartConfig == nil {
		return "no chart"
	}
	c := r.ChartConfig

	var what string
	switch c.ChartType {
	case KindScatter, KindBubble:
		what = fmt.Sprintf("%s points", FormatInt(pointCount(c)))
	case KindGroupedBar:
		what = fmt.Sprintf("%d groups × %d series", len(c.Categories), len(c.Series))
	case KindHeatmap:
		what = fmt.Sprintf("%d×%d matrix, %d undefined cells", len(c.Matrix), len(c.Matrix), nanCells(c.Matrix))
	case KindPie:
		what = describeSlices(c)
	default:
		what = c.ChartType
	}

	return fmt.Sprintf("%s: %s (%s rows, %s excluded)",
		r.Name, what, FormatInt(r.Rows), FormatInt(r.Excluded))
}

func pointCount(c *ChartConfig) int {
	if len(c.Series) == 0 {
		return 0
	}
	return len(c.Series[0].Data)
}

func nanCells(m [][]float64) int {
	var n int
	for _, row := range m {
		for _, v := range row {
			if math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

func describeSlices(c *ChartConfig) string {
	if len(c.Series) == 0 || len(c.Series[0].Data) == 0 {
		return "no slices"
	}
	parts := make([]string, 0, len(c.Series[0].Data))
	for _, p := range c.Series[0].Data {
		parts = append(parts, fmt.Sprintf("%s %.1f%%", p.Label, p.Percent))
	}
	return strings.Join(parts, ", ")
}
