package config

// Presets are the named interaction profiles surfaced by the CLI and demo.
var Presets = map[string]*Config{
	"magnetic-hover": {
		TargetFPS: 60,
		Force: ForceConfig{
			Model: "magnetic", Strength: 0.3, Radius: 200, MaxDisplacement: 10,
			Stiffness: 120, DampingRatio: 1.0, Mass: 1,
		},
		Monitor: MonitorConfig{UpdateIntervalMs: 1000, AutoOptimize: true},
	},
	"gentle-spring": {
		TargetFPS: 60,
		Force: ForceConfig{
			Model: "spring", Stiffness: 60, DampingRatio: 1.2, Mass: 1,
		},
		Monitor: MonitorConfig{UpdateIntervalMs: 1000, AutoOptimize: true},
	},
	"snappy-spring": {
		TargetFPS: 60,
		Force: ForceConfig{
			Model: "spring", Stiffness: 300, DampingRatio: 0.7, Mass: 1,
		},
		Monitor: MonitorConfig{UpdateIntervalMs: 1000, AutoOptimize: true},
	},
	"repel-guard": {
		TargetFPS: 60,
		Force: ForceConfig{
			Model: "repel", Strength: 0.5, Radius: 150,
			Stiffness: 120, DampingRatio: 1.0, Mass: 1,
		},
		Monitor: MonitorConfig{UpdateIntervalMs: 1000, AutoOptimize: true},
	},
	"tilt-card": {
		TargetFPS: 60,
		Force: ForceConfig{
			Model: "magnetic", Strength: 0.4, Radius: 250, MaxDisplacement: 16,
			Stiffness: 150, DampingRatio: 0.9, Mass: 1,
			AffectsScale: true, AffectsRotation: true, ScaleAmplitude: 0.08,
		},
		Monitor: MonitorConfig{UpdateIntervalMs: 1000, AutoOptimize: true},
	},
}

// GetPreset returns a copy of the named preset, or nil when unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
