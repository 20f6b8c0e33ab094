package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/freefall/internal/dynamo"
)

const (
	DefaultDPI        = 150
	DefaultFormat     = "png"
	DefaultTheme      = "minimal"
	DefaultIntegrator = "rk4"
	DefaultDt         = 0.001
)

type Config struct {
	Height     float64 `yaml:"height"`
	Mass       float64 `yaml:"mass"`
	Samples    int     `yaml:"samples"`
	Tolerance  float64 `yaml:"tolerance"`
	OutputDir  string  `yaml:"output_dir"`
	Format     string  `yaml:"format"`
	DPI        int     `yaml:"dpi"`
	SaveFigure bool    `yaml:"save_figure"`
	ShowChart  bool    `yaml:"show_chart"`
	Theme      string  `yaml:"theme"`
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
}

// DefaultConfig leaves Height unset; a run must supply it.
func DefaultConfig() *Config {
	return &Config{
		Mass:       dynamo.DefaultMass,
		Samples:    dynamo.DefaultSamples,
		Tolerance:  dynamo.ConservationTolerance,
		OutputDir:  ".",
		Format:     DefaultFormat,
		DPI:        DefaultDPI,
		SaveFigure: true,
		ShowChart:  true,
		Theme:      DefaultTheme,
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Scenario() dynamo.Scenario {
	return dynamo.Scenario{Height: c.Height, Mass: c.Mass}
}

func (c *Config) Validate() error {
	if err := c.Scenario().Validate(); err != nil {
		return err
	}
	if c.Samples < 2 {
		return fmt.Errorf("samples=%d: %w", c.Samples, dynamo.ErrTooFewSamples)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	switch c.Format {
	case "png", "svg":
	default:
		return fmt.Errorf("unsupported figure format %q (png, svg)", c.Format)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	return nil
}
