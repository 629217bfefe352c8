package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/padsim/internal/filter"
)

func subjects(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Subject%d", i+1)
	}
	return out
}

func angleRange(from, to, step float64) []float64 {
	var out []float64
	for a := from; a <= to; a += step {
		out = append(out, a)
	}
	return out
}

func preset(mod func(c *Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

var Presets = map[string]*Config{
	"baseline": preset(func(c *Config) {
		c.Subjects = subjects(10)
		c.Angles = []float64{-90, 10, 30, 45, 60, 90}
	}),
	"single": preset(func(c *Config) {
		c.Subjects = []string{"Subject1"}
		c.Angles = angleRange(0, 90, 15)
		c.ResetEachAngle = false
	}),
	"wide": preset(func(c *Config) {
		c.Subjects = subjects(10)
		c.Params.MovementThreshold = 2.5
	}),
	"strict": preset(func(c *Config) {
		c.Subjects = subjects(10)
		c.Params = filter.Params{
			MovementThreshold: 0.75,
			ProbMin:           0.1,
			TopN:              2,
			Floor:             filter.DefaultFloor,
		}
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
