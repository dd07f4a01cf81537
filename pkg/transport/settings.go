package transport

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Integration scheme names recognized by Settings.Scheme.
const (
	SchemeSteady        = "steady"
	SchemeImplicit      = "implicit"
	SchemeCrankNicolson = "cranknicolson"
)

// Solver backend families recognized by SolverSettings.Family.
const (
	FamilyDirect = "direct"
	FamilyCG     = "cg"
)

// SolverSettings configures the linear solve backend. Pass-through knobs
// with no effect on the transport model itself.
type SolverSettings struct {
	Family         string  `yaml:"family" validate:"oneof=direct cg"`
	Tolerance      float64 `yaml:"tolerance" validate:"gt=0"`
	MaxIterations  int     `yaml:"max_iterations" validate:"gt=0"`
	Preconditioner string  `yaml:"preconditioner" validate:"oneof=none jacobi"`
}

// Settings is the configuration surface of a transport run.
type Settings struct {
	Scheme   string  `yaml:"t_scheme" validate:"oneof=steady implicit cranknicolson"`
	TInitial float64 `yaml:"t_initial"`
	TFinal   float64 `yaml:"t_final"`
	TStep    float64 `yaml:"t_step"`
	TOutput  float64 `yaml:"t_output"`
	// TOutputTimes, when non-empty, replaces the TOutput interval with an
	// explicit list of report times.
	TOutputTimes []float64 `yaml:"t_output_times"`
	TTolerance   float64   `yaml:"t_tolerance" validate:"gt=0"`
	// TPrecision is the decimal rounding applied to stored time keys so
	// snapshots are never duplicated by floating-point drift.
	TPrecision int `yaml:"t_precision" validate:"gte=0,lte=15"`

	// Conductance names the phase property holding the edge conductance.
	Conductance string `yaml:"conductance" validate:"required"`
	// Quantity names the solved field published to the phase.
	Quantity string `yaml:"quantity" validate:"required"`

	CacheA bool `yaml:"cache_a"`
	CacheB bool `yaml:"cache_b"`

	Solver SolverSettings `yaml:"solver"`
}

// DefaultSettings returns the settings used when a knob is not configured.
func DefaultSettings() Settings {
	return Settings{
		Scheme:      SchemeImplicit,
		TInitial:    0,
		TFinal:      10,
		TStep:       0.1,
		TOutput:     1,
		TTolerance:  1e-6,
		TPrecision:  12,
		Conductance: "throat.diffusive_conductance",
		Quantity:    "pore.concentration",
		CacheA:      true,
		CacheB:      true,
		Solver: SolverSettings{
			Family:         FamilyDirect,
			Tolerance:      1e-8,
			MaxIterations:  5000,
			Preconditioner: "jacobi",
		},
	}
}

var settingsValidator = validator.New()

// Validate checks the settings eagerly, before any assembly work starts.
func (s Settings) Validate() error {
	if err := settingsValidator.Struct(s); err != nil {
		return &SolveError{Op: "Settings", Context: err.Error(), Cause: ErrConfiguration}
	}

	if s.Scheme != SchemeSteady {
		if s.TFinal <= s.TInitial {
			return configError("Settings", fmt.Sprintf("t_final %g must exceed t_initial %g", s.TFinal, s.TInitial))
		}
		if s.TStep <= 0 {
			return configError("Settings", fmt.Sprintf("t_step %g must be positive", s.TStep))
		}
		if len(s.TOutputTimes) == 0 && s.TOutput <= 0 {
			return configError("Settings", "either t_output or t_output_times is required")
		}
	}
	return nil
}
