package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Defaults for the visual constants carried into ChartConfig.
const (
	DefaultBubbleScale   = 10.0 // calories per unit of marker area
	DefaultBubbleAlpha   = 0.4
	DefaultPieStartAngle = 90.0 // degrees
	DefaultBarWidth      = 0.35 // fraction of a category slot
)

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	BubbleScale   float64
	BubbleAlpha   float64
	PieStartAngle float64
	BarWidth      float64
	Categorizers  map[string]Categorizer // derived dimension key → bucketing rule
}

// Categorizer buckets a numeric value into a named category.
// Order lists every category the rule can produce, used for tie-breaking.
type Categorizer struct {
	Source string
	Bucket func(float64) string
	Order  []string
}

// WithBubbleScale sets the divisor from the size measure to marker area.
// Non-positive values are ignored.
func WithBubbleScale(scale float64) Option {
	return func(c *config) {
		if scale > 0 {
			c.BubbleScale = scale
		}
	}
}

// WithBubbleAlpha sets marker opacity in [0, 1].
func WithBubbleAlpha(alpha float64) Option {
	return func(c *config) {
		if alpha >= 0 && alpha <= 1 {
			c.BubbleAlpha = alpha
		}
	}
}

// WithPieStartAngle sets where the first pie slice starts, in degrees
// counter-clockwise from 3 o'clock.
func WithPieStartAngle(deg float64) Option {
	return func(c *config) {
		c.PieStartAngle = deg
	}
}

// WithBarWidth sets the grouped bar width as a fraction of a category slot.
func WithBarWidth(width float64) Option {
	return func(c *config) {
		if width > 0 && width <= 1 {
			c.BarWidth = width
		}
	}
}

// WithCategorizer registers a derived dimension computed from a measure.
func WithCategorizer(key string, cat Categorizer) Option {
	return func(c *config) {
		c.Categorizers[key] = cat
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		BubbleScale:   DefaultBubbleScale,
		BubbleAlpha:   DefaultBubbleAlpha,
		PieStartAngle: DefaultPieStartAngle,
		BarWidth:      DefaultBarWidth,
		Categorizers: map[string]Categorizer{
			BMICategoryKey: {Source: "bmi", Bucket: BMICategory, Order: BMICategories},
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
