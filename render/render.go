// Package render turns an engine.ChartConfig into a PNG image.
//
// Point charts and pies are drawn with go-chart; grouped bars and the
// correlation heatmap are drawn with gonum/plot.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/healthviz/engine"
)

// ============================================================================
// RENDER OPTIONS
// ============================================================================

// Default image size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

var (
	ErrNilConfig   = errors.New("render: nil chart config")
	ErrUnsupported = errors.New("render: unsupported chart type")
)

// Options controls the output image.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions returns an 800×600 image.
func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Height: DefaultHeight}
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// ============================================================================
// ENTRY POINTS
// ============================================================================

// Save renders cfg and writes it to path, replacing any existing file.
// Nothing is written when rendering fails.
func Save(cfg *engine.ChartConfig, path string, opts Options) error {
	var buf bytes.Buffer
	if err := Render(cfg, &buf, opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return nil
}

// Render writes cfg as a PNG to w.
func Render(cfg *engine.ChartConfig, w io.Writer, opts Options) error {
	if cfg == nil {
		return ErrNilConfig
	}
	opts = opts.withDefaults()

	var err error
	switch cfg.ChartType {
	case engine.KindScatter, engine.KindBubble:
		err = renderPoints(cfg, w, opts)
	case engine.KindPie:
		err = renderPie(cfg, w, opts)
	case engine.KindGroupedBar:
		err = renderBars(cfg, w, opts)
	case engine.KindHeatmap:
		err = renderHeatmap(cfg, w, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupported, cfg.ChartType)
	}
	if err != nil {
		return fmt.Errorf("render: %s: %w", cfg.ChartType, err)
	}
	return nil
}

// ============================================================================
// COLORS
// ============================================================================

var fallbackColor = drawing.ColorFromHex("4F46E5")

// seriesColor picks the color of series i: its own, then the palette.
func seriesColor(cfg *engine.ChartConfig, i int) drawing.Color {
	hex := ""
	if i < len(cfg.Series) {
		hex = cfg.Series[i].Color
	}
	if hex == "" && i < len(cfg.Colors) {
		hex = cfg.Colors[i]
	}
	return parseHex(hex)
}

// sliceColor picks the color of pie slice i from the palette.
func sliceColor(cfg *engine.ChartConfig, i int) drawing.Color {
	if len(cfg.Colors) == 0 {
		return fallbackColor
	}
	return parseHex(cfg.Colors[i%len(cfg.Colors)])
}

func parseHex(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 3 && len(hex) != 6 {
		return fallbackColor
	}
	return drawing.ColorFromHex(hex)
}

// nrgba converts a go-chart color for use with gonum/plot.
func nrgba(c drawing.Color) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
