package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/physics"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
)

type Config struct {
	Body     BodyConfig     `yaml:"body"`
	Dt       float64        `yaml:"dt"`
	Duration float64        `yaml:"duration"`
	Strikes  []StrikeConfig `yaml:"strikes,omitempty"`
	Drags    []DragConfig   `yaml:"drags,omitempty"`
}

type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type BodyConfig struct {
	Center        Vec     `yaml:"center"`
	Radii         Vec     `yaml:"radii"`
	Rings         int     `yaml:"rings"`
	RingPoints    []int   `yaml:"ring_points,flow"`
	Stiffness     float64 `yaml:"stiffness"`
	Damping       float64 `yaml:"damping"`
	TearThreshold float64 `yaml:"tear_threshold"`
	Pressure      float64 `yaml:"pressure"`
	Iterations    int     `yaml:"iterations"`
	Compliance    float64 `yaml:"compliance"`
	Jitter        float64 `yaml:"jitter"`
	Creep         float64 `yaml:"creep"`
	Seed          int64   `yaml:"seed"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	PinCenter     bool    `yaml:"pin_center"`
}

// StrikeConfig schedules a strike at simulated time At (seconds).
type StrikeConfig struct {
	At     float64 `yaml:"at"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Force  float64 `yaml:"force"`
	Radius float64 `yaml:"radius"`
}

// DragConfig schedules a drag applied every step in [At, At+For).
type DragConfig struct {
	At    float64 `yaml:"at"`
	For   float64 `yaml:"for"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	DX    float64 `yaml:"dx"`
	DY    float64 `yaml:"dy"`
	Force float64 `yaml:"force"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Body: BodyConfig{
			Center:        Vec{p.CenterX, p.CenterY},
			Radii:         Vec{p.RadiusX, p.RadiusY},
			Rings:         p.Rings,
			RingPoints:    append([]int(nil), p.RingPoints...),
			Stiffness:     p.Stiffness,
			Damping:       p.Damping,
			TearThreshold: p.TearThreshold,
			Pressure:      p.Pressure,
			Iterations:    p.Iterations,
			Compliance:    p.Compliance,
			Jitter:        p.Jitter,
			Creep:         p.Creep,
			Seed:          p.Seed,
			Width:         p.Width,
			Height:        p.Height,
		},
		Dt:       DefaultDt,
		Duration: DefaultDuration,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

// Validate rejects documents the body would otherwise silently clamp.
func (c *Config) Validate() error {
	b := c.Body
	checks := []struct {
		ok    bool
		param string
		value float64
		want  string
	}{
		{c.Dt > 0 && c.Dt <= physics.MaxDt, "dt", c.Dt, fmt.Sprintf("in (0, %.4f]", physics.MaxDt)},
		{c.Duration > 0, "duration", c.Duration, "> 0"},
		{b.Radii.X > 0, "body.radii.x", b.Radii.X, "> 0"},
		{b.Radii.Y > 0, "body.radii.y", b.Radii.Y, "> 0"},
		{b.Rings >= 1, "body.rings", float64(b.Rings), ">= 1"},
		{b.Stiffness >= 0, "body.stiffness", b.Stiffness, ">= 0"},
		{b.Damping >= 0, "body.damping", b.Damping, ">= 0"},
		{b.TearThreshold > 0 && b.TearThreshold <= 1, "body.tear_threshold", b.TearThreshold, "in (0, 1]"},
		{b.Pressure >= 0 && b.Pressure <= 1, "body.pressure", b.Pressure, "in [0, 1]"},
		{b.Iterations >= 0, "body.iterations", float64(b.Iterations), ">= 0"},
		{b.Compliance >= 0, "body.compliance", b.Compliance, ">= 0"},
		{b.Jitter >= 0 && b.Jitter <= 0.25, "body.jitter", b.Jitter, "in [0, 0.25]"},
		{b.Creep >= 0 && b.Creep <= 1, "body.creep", b.Creep, "in [0, 1]"},
		{b.Width > 0, "body.width", b.Width, "> 0"},
		{b.Height > 0, "body.height", b.Height, "> 0"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig,
				&dynamo.BoundsError{Param: chk.param, Value: chk.value, Want: chk.want})
		}
	}
	for i, n := range b.RingPoints {
		if n < 3 {
			return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig,
				&dynamo.BoundsError{Param: fmt.Sprintf("body.ring_points[%d]", i), Value: float64(n), Want: ">= 3"})
		}
	}
	for i, s := range c.Strikes {
		if s.Force <= 0 || s.Radius <= 0 || s.At < 0 {
			return fmt.Errorf("%w: strike %d needs at >= 0, force > 0 and radius > 0", dynamo.ErrInvalidConfig, i)
		}
	}
	for i, d := range c.Drags {
		if d.Force <= 0 || d.For <= 0 || d.At < 0 {
			return fmt.Errorf("%w: drag %d needs at >= 0, for > 0 and force > 0", dynamo.ErrInvalidConfig, i)
		}
	}
	return nil
}

func (c *Config) BodyParams() physics.Params {
	b := c.Body
	return physics.Params{
		CenterX:       b.Center.X,
		CenterY:       b.Center.Y,
		RadiusX:       b.Radii.X,
		RadiusY:       b.Radii.Y,
		Rings:         b.Rings,
		RingPoints:    append([]int(nil), b.RingPoints...),
		Mass:          1,
		Stiffness:     b.Stiffness,
		Damping:       b.Damping,
		TearThreshold: b.TearThreshold,
		Pressure:      b.Pressure,
		Iterations:    b.Iterations,
		Compliance:    b.Compliance,
		Jitter:        b.Jitter,
		Creep:         b.Creep,
		Seed:          b.Seed,
		Width:         b.Width,
		Height:        b.Height,
		PinCenter:     b.PinCenter,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Body.RingPoints = append([]int(nil), c.Body.RingPoints...)
	out.Strikes = append([]StrikeConfig(nil), c.Strikes...)
	out.Drags = append([]DragConfig(nil), c.Drags...)
	return &out
}

// Steps is the number of fixed steps needed to cover Duration.
func (c *Config) Steps() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(c.Duration/c.Dt + 0.5)
}
