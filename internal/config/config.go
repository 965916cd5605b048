// Package config loads and validates simulation configuration. Exact
// quantities are carried as strings ("1/100", "10000") so yaml files can
// express them without going through floating point.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/CDE90/pi-blocks-simulation/internal/rational"
	"github.com/CDE90/pi-blocks-simulation/internal/sim"
)

const (
	DefaultMaxSteps    = 5_000_000
	DefaultSampleEvery = 100
)

type Config struct {
	Mass0     string `yaml:"mass0"`
	Mass1     string `yaml:"mass1"`
	Velocity1 string `yaml:"velocity1"`
	Position0 string `yaml:"position0"`
	Position1 string `yaml:"position1"`
	Size0     string `yaml:"size0"`
	Size1     string `yaml:"size1"`

	TimeStep         string `yaml:"time_step"`
	SimplifyInterval int    `yaml:"simplify_interval"`
	DenominatorCap   int64  `yaml:"denominator_cap"`
	StepsPerFrame    int    `yaml:"steps_per_frame"`

	MaxSteps    int `yaml:"max_steps"`
	SampleEvery int `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Mass0:            "1",
		Mass1:            "10000",
		Velocity1:        "-5",
		Position0:        "150",
		Position1:        "600",
		Size0:            "30",
		Size1:            "60",
		TimeStep:         "1/100",
		SimplifyInterval: sim.DefaultSimplifyInterval,
		DenominatorCap:   sim.DefaultDenominatorCap,
		StepsPerFrame:    sim.DefaultStepsPerFrame,
		MaxSteps:         DefaultMaxSteps,
		SampleEvery:      DefaultSampleEvery,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// Params parses the exact quantities and assembles simulation parameters.
// Positivity of masses, sizes and the time step is enforced by sim.New and
// physics.NewBlock; this only rejects unparseable values.
func (c *Config) Params() (sim.Params, error) {
	var p sim.Params
	var err error

	fields := []struct {
		name string
		src  string
		dst  *rational.Rational
	}{
		{"mass0", c.Mass0, &p.Mass0},
		{"mass1", c.Mass1, &p.Mass1},
		{"velocity1", c.Velocity1, &p.Velocity1},
		{"position0", c.Position0, &p.Position0},
		{"position1", c.Position1, &p.Position1},
		{"size0", c.Size0, &p.Size0},
		{"size1", c.Size1, &p.Size1},
		{"time_step", c.TimeStep, &p.TimeStep},
	}
	for _, f := range fields {
		*f.dst, err = rational.Parse(f.src)
		if err != nil {
			return sim.Params{}, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	p.SimplifyInterval = c.SimplifyInterval
	p.DenominatorCap = c.DenominatorCap
	p.StepsPerFrame = c.StepsPerFrame

	return p, nil
}
