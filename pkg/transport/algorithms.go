package transport

import (
	"github.com/dd0wney/cluso-porenet/pkg/network"
	"github.com/dd0wney/cluso-porenet/pkg/phase"
)

// FickianDiffusion creates a solver for diffusive transport. The
// diffusive conductance is computed from the geometry and phase
// diffusivity and written back to the phase.
func FickianDiffusion(net *network.Network, ph *phase.Phase, settings Settings) (*Solver, error) {
	gd, err := DiffusiveConductance(net, ph)
	if err != nil {
		return nil, err
	}
	if err := ph.SetField(phase.KeyDiffusiveConductance, gd); err != nil {
		return nil, &SolveError{Op: "FickianDiffusion", Cause: err}
	}

	settings.Conductance = phase.KeyDiffusiveConductance
	if settings.Quantity == "" {
		settings.Quantity = phase.KeyPoreConcentration
	}
	return New(net, ph, settings), nil
}

// StokesFlow creates a steady solver for the pressure field. The
// hydraulic conductance is computed from the geometry and phase
// viscosity and written back to the phase; the solved pressure is
// published under pore.pressure for dependent advective solves.
func StokesFlow(net *network.Network, ph *phase.Phase, settings Settings) (*Solver, error) {
	gh, err := HydraulicConductance(net, ph)
	if err != nil {
		return nil, err
	}
	if err := ph.SetField(phase.KeyHydraulicConductance, gh); err != nil {
		return nil, &SolveError{Op: "StokesFlow", Cause: err}
	}

	settings.Scheme = SchemeSteady
	settings.Conductance = phase.KeyHydraulicConductance
	if settings.Quantity == "" {
		settings.Quantity = phase.KeyPorePressure
	}
	return New(net, ph, settings), nil
}

// AdvectionDiffusion creates a solver for combined advective-diffusive
// transport. The phase must already carry a solved pore.pressure field
// (from StokesFlow); the directional conductance pairs are computed with
// the given interpolation scheme.
func AdvectionDiffusion(net *network.Network, ph *phase.Phase, settings Settings, scheme Scheme) (*Solver, error) {
	if !ph.Has(phase.KeyDiffusiveConductance) {
		gd, err := DiffusiveConductance(net, ph)
		if err != nil {
			return nil, err
		}
		if err := ph.SetField(phase.KeyDiffusiveConductance, gd); err != nil {
			return nil, &SolveError{Op: "AdvectionDiffusion", Cause: err}
		}
	}
	if !ph.Has(phase.KeyHydraulicConductance) {
		gh, err := HydraulicConductance(net, ph)
		if err != nil {
			return nil, err
		}
		if err := ph.SetField(phase.KeyHydraulicConductance, gh); err != nil {
			return nil, &SolveError{Op: "AdvectionDiffusion", Cause: err}
		}
	}

	pairs, err := AdvectionDiffusionConductance(net, ph, scheme)
	if err != nil {
		return nil, err
	}

	settings.Conductance = phase.KeyAdDifConductance
	if settings.Quantity == "" {
		settings.Quantity = phase.KeyPoreConcentration
	}
	// Advective systems are non-symmetric; CG assumes symmetry
	if settings.Solver.Family == FamilyCG {
		settings.Solver.Family = FamilyDirect
	}

	solver := New(net, ph, settings)
	if err := solver.SetConductancePairs(pairs); err != nil {
		return nil, err
	}
	return solver, nil
}
