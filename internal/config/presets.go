package config

import "sort"

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"soft": func() *Config {
		c := DefaultConfig()
		c.Body.Stiffness = 0.5
		c.Body.Damping = 1.5
		c.Body.Pressure = 0.2
		c.Body.Iterations = 4
		return c
	}(),
	"brittle": func() *Config {
		c := DefaultConfig()
		c.Body.Stiffness = 1.2
		c.Body.TearThreshold = 0.5
		c.Strikes = []StrikeConfig{{At: 0.5, X: 400, Y: 300, Force: 3, Radius: 50}}
		return c
	}(),
	"dense": func() *Config {
		c := DefaultConfig()
		c.Body.Rings = 5
		c.Body.RingPoints = []int{8, 14, 20, 26, 32}
		c.Body.Iterations = 12
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
