package render

import (
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/healthviz/engine"
)

// ============================================================================
// GROUPED BARS — gonum/plot with bar widths in data units
// ============================================================================
// plotter.BarChart sizes bars in vg.Length, so the bar width would depend on
// the image size. groupedBars works on the category axis instead: category i
// sits at x=i and bar j of k is centered at i + (j - (k-1)/2) * width.
// ============================================================================

type groupedBars struct {
	values [][]float64 // [series][category]
	colors []color.Color
	width  float64
}

func newGroupedBars(cfg *engine.ChartConfig) *groupedBars {
	width := cfg.BarWidth
	if width <= 0 || width > 1 {
		width = engine.DefaultBarWidth
	}

	b := &groupedBars{width: width}
	for j, s := range cfg.Series {
		row := make([]float64, len(cfg.Categories))
		for i := range row {
			row[i] = math.NaN()
			if i < len(s.Data) {
				row[i] = s.Data[i].Value
			}
		}
		b.values = append(b.values, row)
		b.colors = append(b.colors, nrgba(seriesColor(cfg, j)))
	}
	return b
}

// center returns the x position of bar j in category i.
func (b *groupedBars) center(i, j int) float64 {
	k := float64(len(b.values))
	return float64(i) + (float64(j)-(k-1)/2)*b.width
}

// Plot implements plot.Plotter.
func (b *groupedBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for j, row := range b.values {
		for i, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			mid := b.center(i, j)
			x0, x1 := trX(mid-b.width/2), trX(mid+b.width/2)
			y0, y1 := trY(0), trY(v)
			pts := []vg.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}}
			c.FillPolygon(b.colors[j], c.ClipPolygonXY(pts))
		}
	}
}

// DataRange implements plot.DataRanger.
func (b *groupedBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	n := 0
	if len(b.values) > 0 {
		n = len(b.values[0])
	}
	xmin, xmax = -0.5, float64(n)-0.5
	for j, row := range b.values {
		for i, v := range row {
			xmin = math.Min(xmin, b.center(i, j)-b.width/2)
			xmax = math.Max(xmax, b.center(i, j)+b.width/2)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			ymin = math.Min(ymin, v)
			ymax = math.Max(ymax, v)
		}
	}
	return xmin, xmax, ymin, ymax
}

// swatch is the legend entry of one series.
type swatch struct{ color color.Color }

// Thumbnail implements plot.Thumbnailer.
func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, c.ClipPolygonY(pts))
}

func renderBars(cfg *engine.ChartConfig, w io.Writer, opts Options) error {
	p := newPlot(cfg.Title, cfg.XAxis, cfg.YAxis)

	if cfg.ShowGrid {
		grid := plotter.NewGrid()
		grid.Vertical.Color = nil
		p.Add(grid)
	}

	bars := newGroupedBars(cfg)
	if len(cfg.Categories) > 0 {
		p.NominalX(cfg.Categories...)
		p.Add(bars)
	}

	if cfg.ShowLegend {
		p.Legend.Top = true
		for j, s := range cfg.Series {
			p.Legend.Add(s.Name, swatch{color: bars.colors[j]})
		}
	}

	img, c := newCanvas(opts)
	p.Draw(c)
	return writePNG(img, w)
}
