package engine

// ============================================================================
// CHART BUILDER — Produces ChartConfig from ChartSpec + derived data
// ============================================================================
// Builders receive a view that already passed the complete-case filter.
// They never fail; empty input produces a config with empty series.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

func newConfig(spec ChartSpec, chartType string) *ChartConfig {
	return &ChartConfig{
		ChartType: chartType,
		Title:     spec.Title,
		XAxis:     spec.XAxis,
		YAxis:     spec.YAxis,
		ShowGrid:  chartType != KindPie && chartType != KindHeatmap,
	}
}

// BuildScatter plots Measures[0] against Measures[1], one point per record
// in view order.
func BuildScatter(spec ChartSpec, view RecordView) *ChartConfig {
	x, y := spec.Measures[0], spec.Measures[1]

	points := make([]ChartPoint, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		points = append(points, ChartPoint{
			X: view.Measure(i, x),
			Y: view.Measure(i, y),
		})
	}

	config := newConfig(spec, KindScatter)
	config.Series = []ChartSeries{{Name: seriesLabel(spec, 1), Data: points}}
	config.Colors = assignColors(1)
	config.Series[0].Color = config.Colors[0]
	return config
}

// BuildBubble is a scatter whose marker area is Measures[2] / scale.
func BuildBubble(spec ChartSpec, view RecordView, scale, alpha float64) *ChartConfig {
	x, y, size := spec.Measures[0], spec.Measures[1], spec.Measures[2]

	points := make([]ChartPoint, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		points = append(points, ChartPoint{
			X:    view.Measure(i, x),
			Y:    view.Measure(i, y),
			Size: view.Measure(i, size) / scale,
		})
	}

	config := newConfig(spec, KindBubble)
	config.Series = []ChartSeries{{Name: seriesLabel(spec, 2), Data: points}}
	config.Colors = assignColors(1)
	config.Series[0].Color = config.Colors[0]
	config.Alpha = alpha
	return config
}

// BuildGroupedBar produces one series per measure and one category per group.
func BuildGroupedBar(spec ChartSpec, groups []Group, barWidth float64) *ChartConfig {
	categories := make([]string, 0, len(groups))
	for _, g := range groups {
		categories = append(categories, g.Label)
	}

	series := make([]ChartSeries, 0, len(spec.Measures))
	for j := range spec.Measures {
		points := make([]ChartPoint, 0, len(groups))
		for _, g := range groups {
			points = append(points, ChartPoint{Label: g.Label, Value: g.Values[j]})
		}
		series = append(series, ChartSeries{
			Name:  seriesLabel(spec, j),
			Data:  points,
			Color: defaultColors[j%len(defaultColors)],
		})
	}

	config := newConfig(spec, KindGroupedBar)
	config.Series = series
	config.Categories = categories
	config.Colors = assignColors(len(series))
	config.ShowLegend = true
	config.BarWidth = barWidth
	return config
}

// BuildHeatmap wraps a square matrix whose rows and columns follow Measures.
func BuildHeatmap(spec ChartSpec, matrix [][]float64) *ChartConfig {
	config := newConfig(spec, KindHeatmap)
	config.Categories = append([]string{}, spec.Measures...)
	config.Matrix = matrix
	return config
}

// BuildPie turns category counts into slices with their share of the total.
func BuildPie(spec ChartSpec, groups []Group, startAngle float64) *ChartConfig {
	var total int
	for _, g := range groups {
		total += g.Count
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		p := ChartPoint{Label: g.Label, Value: float64(g.Count)}
		if total > 0 {
			p.Percent = float64(g.Count) / float64(total) * 100
		}
		points = append(points, p)
	}

	config := newConfig(spec, KindPie)
	config.Series = []ChartSeries{{Name: spec.Title, Data: points}}
	config.Colors = assignColors(len(points))
	config.ShowLegend = true
	config.StartAngle = startAngle
	return config
}

// ============================================================================
// HELPERS
// ============================================================================

// seriesLabel returns the display label of measure i.
func seriesLabel(spec ChartSpec, i int) string {
	if i < len(spec.Labels) && spec.Labels[i] != "" {
		return spec.Labels[i]
	}
	if i < len(spec.Measures) {
		return LabelForDimension(spec.Measures[i])
	}
	return "Value"
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
