package render

import (
	"fmt"
	"io"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/spektr-org/healthviz/engine"
)

// ============================================================================
// PIE CHART — drawn directly on the go-chart raster renderer
// ============================================================================
// chart.PieChart always starts at three o'clock and runs clockwise, so the
// slices are laid out here: counter-clockwise from StartAngle, category
// labels outside the circle, percentages inside.
// ============================================================================

const (
	titleBand      = 48
	titleFontSize  = 14.0
	labelFontSize  = 11.0
	radiusShare    = 0.36
	percentRadius  = 0.6
	labelRadius    = 1.1
	sliceEdgeWidth = 1.0
)

func renderPie(cfg *engine.ChartConfig, w io.Writer, opts Options) error {
	r, err := chart.PNG(opts.Width, opts.Height)
	if err != nil {
		return err
	}
	r.SetDPI(chart.DefaultDPI)

	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	chart.Draw.Box(r, chart.Box{Right: opts.Width, Bottom: opts.Height}, chart.Style{
		FillColor:   chart.ColorWhite,
		StrokeColor: chart.ColorWhite,
		StrokeWidth: 1,
	})

	if cfg.Title != "" {
		chart.Draw.TextWithin(r, cfg.Title, chart.Box{Top: 12, Right: opts.Width, Bottom: titleBand}, chart.Style{
			Font:                font,
			FontSize:            titleFontSize,
			FontColor:           chart.ColorBlack,
			TextHorizontalAlign: chart.TextHorizontalAlignCenter,
		})
	}

	var points []engine.ChartPoint
	if len(cfg.Series) > 0 {
		points = cfg.Series[0].Data
	}

	var total float64
	for _, p := range points {
		if p.Value > 0 {
			total += p.Value
		}
	}
	if total > 0 {
		drawSlices(r, cfg, points, total, font, opts)
	}

	return r.Save(w)
}

func drawSlices(r chart.Renderer, cfg *engine.ChartConfig, points []engine.ChartPoint, total float64, font *truetype.Font, opts Options) {
	plotHeight := opts.Height - titleBand
	cx := opts.Width / 2
	cy := titleBand + plotHeight/2
	radius := float64(minInt(opts.Width, plotHeight)) * radiusShare

	// angles are in degrees, counter-clockwise from three o'clock
	start := cfg.StartAngle
	for i, p := range points {
		if p.Value <= 0 {
			continue
		}
		sweep := 360 * p.Value / total

		r.SetFillColor(sliceColor(cfg, i))
		r.SetStrokeColor(chart.ColorWhite)
		r.SetStrokeWidth(sliceEdgeWidth)
		r.MoveTo(cx, cy)
		// the raster renderer measures angles clockwise with y pointing down
		r.ArcTo(cx, cy, radius, radius, -radians(start), -radians(sweep))
		r.LineTo(cx, cy)
		r.Close()
		r.FillStroke()
		r.ResetStyle()

		mid := radians(start + sweep/2)
		label := chart.Style{Font: font, FontSize: labelFontSize, FontColor: chart.ColorBlack}
		drawLabel(r, p.Label, cx, cy, radius*labelRadius, mid, label, true)
		drawLabel(r, fmt.Sprintf("%.1f%%", p.Percent), cx, cy, radius*percentRadius, mid, label, false)

		start += sweep
	}
}

// drawLabel places text at distance dist from the center along angle theta.
// Outer labels hang away from the circle; inner ones are centered.
func drawLabel(r chart.Renderer, text string, cx, cy int, dist, theta float64, style chart.Style, outer bool) {
	if text == "" {
		return
	}
	x := cx + int(math.Round(dist*math.Cos(theta)))
	y := cy - int(math.Round(dist*math.Sin(theta)))

	box := chart.Draw.MeasureText(r, text, style)
	switch {
	case !outer:
		x -= box.Width() / 2
	case math.Cos(theta) < -1e-9:
		x -= box.Width()
	case math.Abs(math.Cos(theta)) <= 1e-9:
		x -= box.Width() / 2
	}
	y += box.Height() / 2

	chart.Draw.Text(r, text, x, y, style)
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
