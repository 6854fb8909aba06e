package config

import (
	"fmt"

	"github.com/san-kum/fleshsim/internal/dynamo"
)

var _ dynamo.Configurable = (*Config)(nil)

// GetParams exposes the tunable body fields under the same names the live
// body accepts, plus the build-time ones.
func (c *Config) GetParams() map[string]float64 {
	b := c.Body
	return map[string]float64{
		"stiffness":      b.Stiffness,
		"damping":        b.Damping,
		"tear_threshold": b.TearThreshold,
		"pressure":       b.Pressure,
		"iterations":     float64(b.Iterations),
		"compliance":     b.Compliance,
		"jitter":         b.Jitter,
		"creep":          b.Creep,
		"seed":           float64(b.Seed),
		"radius_x":       b.Radii.X,
		"radius_y":       b.Radii.Y,
		"dt":             c.Dt,
		"duration":       c.Duration,
	}
}

// SetParam overrides one field. Range checking is left to Validate so a
// scenario can set several fields before the document is checked.
func (c *Config) SetParam(name string, value float64) error {
	if !dynamo.IsFinite(value) {
		return &dynamo.BoundsError{Param: name, Value: value, Want: "a finite value"}
	}
	b := &c.Body
	switch name {
	case "stiffness":
		b.Stiffness = value
	case "damping":
		b.Damping = value
	case "tear_threshold":
		b.TearThreshold = value
	case "pressure":
		b.Pressure = value
	case "iterations":
		b.Iterations = int(value)
	case "compliance":
		b.Compliance = value
	case "jitter":
		b.Jitter = value
	case "creep":
		b.Creep = value
	case "seed":
		b.Seed = int64(value)
	case "radius_x":
		b.Radii.X = value
	case "radius_y":
		b.Radii.Y = value
	case "dt":
		c.Dt = value
	case "duration":
		c.Duration = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}

// ApplyParams sets every entry of params, stopping at the first unknown name.
func (c *Config) ApplyParams(params map[string]float64) error {
	for name, v := range params {
		if err := c.SetParam(name, v); err != nil {
			return err
		}
	}
	return nil
}
