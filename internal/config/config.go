// Package config loads the server configuration from an optional YAML file,
// layered over compiled-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/draftforge/cad-tools-mcp/internal/geom"
	"github.com/draftforge/cad-tools-mcp/internal/render"
)

// ToleranceConfig holds the numeric comparison tolerances. Zero or negative
// fields fall back to the built-in defaults.
type ToleranceConfig struct {
	// Position is the absolute coordinate tolerance in drawing units.
	Position float64 `yaml:"position"`

	// AngleDegrees is the allowed deviation from a right angle.
	AngleDegrees float64 `yaml:"angle_degrees"`

	// RelativeLength is the allowed relative deviation between side lengths.
	RelativeLength float64 `yaml:"relative_length"`

	// MinSide is the shortest side length still treated as a real edge.
	MinSide float64 `yaml:"min_side"`
}

// RenderConfig holds the raster output defaults.
type RenderConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Margin     int    `yaml:"margin"`
	Background string `yaml:"background"`
}

// Config is the full server configuration.
type Config struct {
	Tolerance ToleranceConfig `yaml:"tolerance"`
	Render    RenderConfig    `yaml:"render"`

	// DefaultLayerColor is the color assigned to layers created without an
	// explicit color.
	DefaultLayerColor string `yaml:"default_layer_color"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Tolerance: ToleranceConfig{
			Position:       geom.DefaultPosTol,
			AngleDegrees:   geom.DefaultAngleTol,
			RelativeLength: geom.DefaultRelLenTol,
			MinSide:        geom.DefaultMinSide,
		},
		Render: RenderConfig{
			Width:      render.DefaultWidth,
			Margin:     render.DefaultMargin,
			Background: "black",
		},
		DefaultLayerColor: "white",
	}
}

// Load reads the configuration from path, layered over the defaults. An
// empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.normalized(), nil
}

// normalized replaces zero or out-of-range values with their defaults.
func (c Config) normalized() Config {
	def := Default()
	if c.Tolerance.Position <= 0 {
		c.Tolerance.Position = def.Tolerance.Position
	}
	if c.Tolerance.AngleDegrees <= 0 {
		c.Tolerance.AngleDegrees = def.Tolerance.AngleDegrees
	}
	if c.Tolerance.RelativeLength <= 0 {
		c.Tolerance.RelativeLength = def.Tolerance.RelativeLength
	}
	if c.Tolerance.MinSide <= 0 {
		c.Tolerance.MinSide = def.Tolerance.MinSide
	}
	if c.Render.Width <= 0 {
		c.Render.Width = def.Render.Width
	}
	if c.Render.Margin <= 0 {
		c.Render.Margin = def.Render.Margin
	}
	if c.Render.Background == "" {
		c.Render.Background = def.Render.Background
	}
	if c.DefaultLayerColor == "" {
		c.DefaultLayerColor = def.DefaultLayerColor
	}
	return c
}

// GeomTolerance converts the configured tolerances into the geometry
// package's form.
func (c Config) GeomTolerance() geom.Tolerance {
	return geom.Tolerance{
		Pos:      c.Tolerance.Position,
		AngleDeg: c.Tolerance.AngleDegrees,
		RelLen:   c.Tolerance.RelativeLength,
		MinSide:  c.Tolerance.MinSide,
	}
}

// RenderOptions converts the configured raster defaults into render options.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		Width:      c.Render.Width,
		Height:     c.Render.Height,
		Margin:     c.Render.Margin,
		Background: c.Render.Background,
	}
}
