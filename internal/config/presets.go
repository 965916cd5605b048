package config

// Presets are named mass-ratio scenarios. Each power of 100 in the mass
// ratio buys one more digit of pi in the collision count.
var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"equal": {
		Mass0: "1", Mass1: "1", Velocity1: "-1",
	},
	"digits2": {
		Mass0: "1", Mass1: "100", Velocity1: "-1",
	},
	"digits3": {
		Mass0: "1", Mass1: "10000", Velocity1: "-1",
	},
	"digits4": {
		Mass0: "1", Mass1: "1000000", Velocity1: "-1",
		DenominatorCap: 1_000_000_000_000,
		MaxSteps:       50_000_000,
	},
}

// GetPreset returns a full config for the named preset, with unset fields
// filled from defaults.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Mass0 = p.Mass0
	cfg.Mass1 = p.Mass1
	cfg.Velocity1 = p.Velocity1
	if p.TimeStep != "" {
		cfg.TimeStep = p.TimeStep
	}
	if p.DenominatorCap != 0 {
		cfg.DenominatorCap = p.DenominatorCap
	}
	if p.SimplifyInterval != 0 {
		cfg.SimplifyInterval = p.SimplifyInterval
	}
	if p.MaxSteps != 0 {
		cfg.MaxSteps = p.MaxSteps
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
