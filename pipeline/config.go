package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/healthviz/engine"
	"github.com/spektr-org/healthviz/render"
)

// ============================================================================
// RUN CONFIGURATION
// ============================================================================
// Every field has a default, so the pipeline runs without a config file.
// An optional YAML file overrides any subset of them.
// ============================================================================

// DefaultConfigFile is looked up in the working directory.
const DefaultConfigFile = "healthviz.yaml"

// Config holds paths, image size and the visual constants of one run.
type Config struct {
	Dataset   string `yaml:"dataset"`
	DataDir   string `yaml:"data_dir"`
	OutputDir string `yaml:"output_dir"`

	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	BubbleScale   float64 `yaml:"bubble_scale"`
	BubbleAlpha   float64 `yaml:"bubble_alpha"`
	PieStartAngle float64 `yaml:"pie_start_angle"`
	BarWidth      float64 `yaml:"bar_width"`

	// FailFast stops the run at the first chart that fails.
	FailFast bool `yaml:"fail_fast"`

	// WriteTables saves each chart's derived aggregate as <chart>.csv
	// next to its image.
	WriteTables bool `yaml:"write_tables"`

	// Filters keeps only rows whose dimension value is listed,
	// e.g. {gender: [Female]}. Applied before every chart.
	Filters map[string][]string `yaml:"filters"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() Config {
	return Config{
		Dataset:       filepath.Join("data", "health_fitness_tracking_365days.csv"),
		DataDir:       "data",
		OutputDir:     "charts",
		Width:         render.DefaultWidth,
		Height:        render.DefaultHeight,
		BubbleScale:   engine.DefaultBubbleScale,
		BubbleAlpha:   engine.DefaultBubbleAlpha,
		PieStartAngle: engine.DefaultPieStartAngle,
		BarWidth:      engine.DefaultBarWidth,
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("pipeline: read %s: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("pipeline: %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Dataset) == "":
		return errors.New("dataset path is empty")
	case strings.TrimSpace(c.OutputDir) == "":
		return errors.New("output_dir is empty")
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("image size %dx%d must be positive", c.Width, c.Height)
	case c.BubbleScale <= 0:
		return fmt.Errorf("bubble_scale %v must be positive", c.BubbleScale)
	case c.BubbleAlpha < 0 || c.BubbleAlpha > 1:
		return fmt.Errorf("bubble_alpha %v must be within [0, 1]", c.BubbleAlpha)
	case c.BarWidth <= 0 || c.BarWidth > 1:
		return fmt.Errorf("bar_width %v must be within (0, 1]", c.BarWidth)
	}
	return nil
}

// EngineOptions maps the visual constants onto engine options.
func (c Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithBubbleScale(c.BubbleScale),
		engine.WithBubbleAlpha(c.BubbleAlpha),
		engine.WithPieStartAngle(c.PieStartAngle),
		engine.WithBarWidth(c.BarWidth),
	}
}

// RenderOptions returns the image size.
func (c Config) RenderOptions() render.Options {
	return render.Options{Width: c.Width, Height: c.Height}
}
