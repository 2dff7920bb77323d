package config

import "sort"

var Presets = map[string]func(*Config){
	// Search window around the known end-value peak.
	"peak": func(c *Config) {
		c.Duration = 30
		c.Dt = 0.01
		c.Tf = 3.3
		c.Search.Start, c.Search.End = 3, 4
	},
	// Short horizon used for step-size comparisons.
	"short": func(c *Config) {
		c.Duration = 2
		c.Dt = 0.01
		c.Tf = 1
	},
	// Constant supply over the whole horizon.
	"fed": func(c *Config) {
		c.Duration = 30
		c.Tf = 30
	},
	"fine": func(c *Config) {
		c.Duration = 30
		c.Dt = 0.001
		c.Tf = 3.3
	},
	// Sweep over the whole horizon on the trajectory maximum.
	"timegraph": func(c *Config) {
		c.Duration = 10
		c.Sweep.Start, c.Sweep.End = 0, 10
		c.Sweep.Samples = 50
		c.Sweep.Objective = "max"
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
