package config

import "sort"

// Presets are named drops with a height and mass; everything else takes the
// defaults.
var Presets = map[string]*Config{
	"table":   {Height: 0.8, Mass: 0.5},
	"balcony": {Height: 10.0, Mass: 1.0},
	"tower":   {Height: 56.0, Mass: 0.45},
	"cliff":   {Height: 120.0, Mass: 70.0},
	"feather": {Height: 1.5, Mass: 0.005},
}

// GetPreset returns a full config for the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Height = p.Height
	cfg.Mass = p.Mass
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
