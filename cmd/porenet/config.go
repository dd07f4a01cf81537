package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-porenet/pkg/network"
	"github.com/dd0wney/cluso-porenet/pkg/transport"
	"github.com/dd0wney/cluso-porenet/pkg/validation"
)

// NetworkConfig describes the cubic lattice to simulate on
type NetworkConfig struct {
	Shape   [3]int  `yaml:"shape"`
	Spacing float64 `yaml:"spacing"`
	Jitter  float64 `yaml:"jitter"`
	Seed    int64   `yaml:"seed"`
}

// BoundaryConfig names the inlet/outlet faces and the values pinned there
type BoundaryConfig struct {
	Inlet          string  `yaml:"inlet"`
	Outlet         string  `yaml:"outlet"`
	InletValue     float64 `yaml:"inlet_value"`
	OutletValue    float64 `yaml:"outlet_value"`
	InletPressure  float64 `yaml:"inlet_pressure"`
	OutletPressure float64 `yaml:"outlet_pressure"`
}

// OutputConfig selects where retained snapshots go
type OutputConfig struct {
	File        string `yaml:"file"`
	PostgresURL string `yaml:"postgres_url"`
}

// RunConfig is the YAML configuration surface of the demo
type RunConfig struct {
	Scenario      string             `yaml:"scenario"`
	Phase         string             `yaml:"phase"`
	Interpolation string             `yaml:"interpolation"`
	Network       NetworkConfig      `yaml:"network"`
	Boundary      BoundaryConfig     `yaml:"boundary"`
	Settings      transport.Settings `yaml:"settings"`
	Output        OutputConfig       `yaml:"output"`
}

// DefaultRunConfig returns the transient Fickian diffusion demo on a
// 10x10x10 water-filled lattice.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Scenario:      "fickian",
		Phase:         "water",
		Interpolation: "powerlaw",
		Network: NetworkConfig{
			Shape:   [3]int{10, 10, 10},
			Spacing: 1e-4,
			Jitter:  0.2,
			Seed:    42,
		},
		Boundary: BoundaryConfig{
			Inlet:          network.LabelLeft,
			Outlet:         network.LabelRight,
			InletValue:     1.0,
			OutletValue:    0.0,
			InletPressure:  200.0,
			OutletPressure: 0.0,
		},
		Settings: transport.DefaultSettings(),
	}
}

// LoadRunConfig reads a YAML config file over the defaults. An empty
// path returns the defaults unchanged.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

var faceLabels = []string{
	network.LabelLeft, network.LabelRight,
	network.LabelFront, network.LabelBack,
	network.LabelBottom, network.LabelTop,
}

// Validate checks everything the solver's own settings validation does
// not cover: the lattice, the faces and the scenario wiring.
func (c RunConfig) Validate() error {
	cv := validation.NewConfigValidator("RunConfig").
		OneOf("Scenario", c.Scenario, []string{"fickian", "advection"}).
		OneOf("Phase", c.Phase, []string{"water", "air"}).
		Positive("Network.Shape[0]", c.Network.Shape[0]).
		Positive("Network.Shape[1]", c.Network.Shape[1]).
		Positive("Network.Shape[2]", c.Network.Shape[2]).
		PositiveFloat("Network.Spacing", c.Network.Spacing).
		RangeFloat("Network.Jitter", c.Network.Jitter, 0, 0.9).
		OneOf("Boundary.Inlet", c.Boundary.Inlet, faceLabels).
		OneOf("Boundary.Outlet", c.Boundary.Outlet, faceLabels).
		Custom("Boundary", func() error {
			if c.Boundary.Inlet == c.Boundary.Outlet {
				return fmt.Errorf("inlet and outlet are both %q", c.Boundary.Inlet)
			}
			return nil
		}).
		When(c.Scenario == "advection", func(cv *validation.ConfigValidator) {
			cv.OneOf("Interpolation", c.Interpolation,
				[]string{"upwind", "hybrid", "powerlaw", "exponential"})
			cv.GreaterThan("Boundary.InletPressure", c.Boundary.InletPressure,
				"Boundary.OutletPressure", c.Boundary.OutletPressure)
		})
	if err := cv.Validate(); err != nil {
		return err
	}
	return c.Settings.Validate()
}
