package render

import (
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/healthviz/engine"
)

// ============================================================================
// CORRELATION HEATMAP — gonum/plot HeatMap plus a vertical color bar
// ============================================================================

var nanCellColor = color.NRGBA{R: 190, G: 190, B: 190, A: 255}

const (
	colorBarWidth  = 90
	colorBarMargin = 56
	paletteSize    = 255
)

// matrixGrid adapts a square matrix to plotter.GridXYZ. Row 0 of the matrix
// is drawn at the top, so grid rows run bottom-up.
type matrixGrid struct {
	m [][]float64
}

func (g matrixGrid) Dims() (c, r int) { return len(g.m), len(g.m) }

func (g matrixGrid) Z(c, r int) float64 {
	row := g.m[len(g.m)-1-r]
	if c >= len(row) {
		return math.NaN()
	}
	return row[c]
}

func (g matrixGrid) X(c int) float64 { return float64(c) }
func (g matrixGrid) Y(r int) float64 { return float64(r) }

func renderHeatmap(cfg *engine.ChartConfig, w io.Writer, opts Options) error {
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	p := newPlot(cfg.Title, cfg.XAxis, cfg.YAxis)

	if k := len(cfg.Matrix); k > 0 {
		hm := plotter.NewHeatMap(matrixGrid{m: cfg.Matrix}, cmap.Palette(paletteSize))
		hm.Min, hm.Max = -1, 1
		hm.NaN = nanCellColor
		p.Add(hm)

		labels := cfg.Categories
		xTicks := make([]plot.Tick, k)
		yTicks := make([]plot.Tick, k)
		for i := 0; i < k; i++ {
			xTicks[i] = plot.Tick{Value: float64(i), Label: labelAt(labels, i)}
			yTicks[i] = plot.Tick{Value: float64(i), Label: labelAt(labels, k-1-i)}
		}
		p.X.Tick.Marker = plot.ConstantTicks(xTicks)
		p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
		p.X.Tick.Label.Rotation = math.Pi / 2
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	bar := plot.New()
	bar.HideX()
	bar.Add(&plotter.ColorBar{ColorMap: cmap, Vertical: true})

	img, c := newCanvas(opts)
	barArea := pixels(colorBarWidth)
	p.Draw(draw.Crop(c, 0, -barArea, 0, 0))
	bar.Draw(draw.Crop(c, c.Max.X-c.Min.X-barArea, 0, pixels(colorBarMargin), -pixels(colorBarMargin)))
	return writePNG(img, w)
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}
