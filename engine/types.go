package engine

// ============================================================================
// HEALTHVIZ ENGINE TYPES — Record set, chart specs, render-ready output
// ============================================================================
// The engine derives chart inputs from a RecordView. It never touches the
// filesystem; rendering lives in the render package.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// A measure key that is absent from Measures is a null for that row.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// CHART SPEC — What a generator computes
// ============================================================================

// Chart kinds understood by Execute and the renderer.
const (
	KindScatter    = "scatter"
	KindGroupedBar = "grouped_bar"
	KindHeatmap    = "heatmap"
	KindBubble     = "bubble"
	KindPie        = "pie"
)

// ChartSpec defines what the engine should compute for one chart.
//
// Measures are interpreted per kind:
//
//	scatter:     [x, y]
//	grouped_bar: [series...] averaged per GroupBy value
//	heatmap:     ordered columns of the correlation matrix
//	bubble:      [x, y, size]
//	pie:         unused; the categorizer registered for Category names its source
type ChartSpec struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Title    string   `json:"title"`
	XAxis    string   `json:"xAxis,omitempty"`
	YAxis    string   `json:"yAxis,omitempty"`
	Measures []string `json:"measures"`
	Labels   []string `json:"labels,omitempty"` // series labels, parallel to Measures
	GroupBy  string   `json:"groupBy,omitempty"`
	SortBy   string   `json:"sortBy,omitempty"`
	Category string   `json:"category,omitempty"` // derived dimension key for pie
	File     string   `json:"file"`
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output for one ChartSpec.
type Result struct {
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	ChartConfig *ChartConfig `json:"chartConfig"`
	TableData   *TableData   `json:"tableData,omitempty"`

	// Rows considered and rows dropped by the complete-case filter.
	Rows     int `json:"rows"`
	Excluded int `json:"excluded"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
// Values holds one aggregate per requested measure, in request order.
type Group struct {
	Key    string     `json:"key"`
	Label  string     `json:"label"`
	Value  float64    `json:"value"`
	Values []float64  `json:"values,omitempty"`
	Count  int        `json:"count"`
	View   RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Categories []string      `json:"categories,omitempty"` // bar groups, heatmap labels
	Matrix     [][]float64   `json:"matrix,omitempty"`     // heatmap cells, Matrix[row][col]
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`

	// Display constants carried from the engine options.
	Alpha      float64 `json:"alpha,omitempty"`
	BarWidth   float64 `json:"barWidth,omitempty"`   // fraction of one category slot
	StartAngle float64 `json:"startAngle,omitempty"` // degrees, counter-clockwise from 3 o'clock
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
// Categorical charts use Label/Value; point charts use X/Y and Size.
type ChartPoint struct {
	Label   string  `json:"label,omitempty"`
	Value   float64 `json:"value"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Size    float64 `json:"size,omitempty"`    // marker area for bubbles
	Percent float64 `json:"percent,omitempty"` // share of total for pie slices
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData describes the derived aggregate behind a chart.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
