package render

import (
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ============================================================================
// GONUM CANVAS — shared by the bar and heatmap renderers
// ============================================================================

// pixels converts an image size in pixels to a vg.Length at the canvas DPI.
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / vg.Length(vgimg.DefaultDPI)
}

// newCanvas creates a white raster canvas of the requested pixel size.
func newCanvas(opts Options) (*vgimg.Canvas, draw.Canvas) {
	img := vgimg.NewWith(
		vgimg.UseWH(pixels(opts.Width), pixels(opts.Height)),
		vgimg.UseDPI(vgimg.DefaultDPI),
	)
	return img, draw.New(img)
}

func writePNG(img *vgimg.Canvas, w io.Writer) error {
	_, err := vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return err
}

// newPlot creates a plot with the shared title style.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Title.Padding = vg.Points(8)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}
