package render

import (
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/healthviz/engine"
)

// ============================================================================
// POINT CHARTS — scatter and bubble via go-chart
// ============================================================================

const dotRadius = 3.0

// markerRadius converts a marker area in points² to a radius in pixels.
func markerRadius(area float64) float64 {
	if area <= 0 || math.IsNaN(area) {
		return 0
	}
	return math.Sqrt(area/math.Pi) * chart.DefaultDPI / 72
}

func renderPoints(cfg *engine.ChartConfig, w io.Writer, opts Options) error {
	var points []engine.ChartPoint
	if len(cfg.Series) > 0 {
		points = cfg.Series[0].Data
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	radii := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
		radii[i] = dotRadius
		if cfg.ChartType == engine.KindBubble {
			radii[i] = markerRadius(p.Size)
		}
	}

	dot := seriesColor(cfg, 0)
	if cfg.Alpha > 0 && cfg.Alpha < 1 {
		dot = dot.WithAlpha(uint8(math.Round(cfg.Alpha * 255)))
	}

	name := ""
	if len(cfg.Series) > 0 {
		name = cfg.Series[0].Name
	}

	series := chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    dotRadius,
			DotColor:    dot,
			DotWidthProvider: func(_, _ chart.Range, i int, _, _ float64) float64 {
				return radii[i]
			},
			DotColorProvider: func(_, _ chart.Range, _ int, _, _ float64) drawing.Color {
				return dot
			},
		},
	}

	ch := chart.Chart{
		Title:      cfg.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 24, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  cfg.XAxis,
			Range: axisRange(xs, 0),
		},
		YAxis: chart.YAxis{
			Name:  cfg.YAxis,
			Range: axisRange(ys, 0.05),
		},
		Series: []chart.Series{series},
	}
	if cfg.ShowGrid {
		ch.XAxis.GridMajorStyle = gridStyle()
		ch.YAxis.GridMajorStyle = gridStyle()
	}

	return ch.Render(chart.PNG, w)
}

// axisRange returns a fixed range around values so go-chart never sees an
// empty, zero-width or infinite domain. NaN and ±Inf are ignored. pad widens
// the range by a share of its span.
func axisRange(values []float64, pad float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	n := 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		n++
	}

	switch {
	case n == 0:
		return &chart.ContinuousRange{Min: 0, Max: 1}
	case lo == hi:
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	span := (hi - lo) * pad
	return &chart.ContinuousRange{Min: lo - span, Max: hi + span}
}

func gridStyle() chart.Style {
	return chart.Style{
		StrokeColor: chart.ColorLightGray,
		StrokeWidth: 1,
	}
}
