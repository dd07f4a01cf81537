package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dd0wney/cluso-porenet/pkg/logging"
	"github.com/dd0wney/cluso-porenet/pkg/network"
	"github.com/dd0wney/cluso-porenet/pkg/phase"
	"github.com/dd0wney/cluso-porenet/pkg/results"
	"github.com/dd0wney/cluso-porenet/pkg/transport"
)

func main() {
	configPath := flag.String("config", "", "YAML run configuration file")
	scenario := flag.String("scenario", "", "Scenario override: fickian or advection")
	outFile := flag.String("out", "", "Snapshot file override")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	cfg, err := LoadRunConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *scenario != "" {
		cfg.Scenario = *scenario
	}
	if *outFile != "" {
		cfg.Output.File = *outFile
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	level := logging.InfoLevel
	if *verbose {
		level = logging.DebugLevel
	}
	logger := logging.NewJSONLogger(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("🚀 Pore network transport demo starting...")
	log.Printf("📐 Lattice %v, spacing %g m, phase %s", cfg.Network.Shape, cfg.Network.Spacing, cfg.Phase)

	net, ph, err := buildDomain(cfg)
	if err != nil {
		log.Fatalf("Failed to build network: %v", err)
	}
	log.Printf("✅ Network ready: %d pores, %d throats", net.NumPores(), net.NumThroats())

	var set *results.Set
	switch cfg.Scenario {
	case "fickian":
		set, err = runFickian(ctx, cfg, net, ph, logger)
	case "advection":
		set, err = runAdvection(ctx, cfg, net, ph, logger)
	}
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	printSummary(set)

	if cfg.Output.File != "" {
		if err := results.Save(cfg.Output.File, set); err != nil {
			log.Fatalf("Failed to write %s: %v", cfg.Output.File, err)
		}
		log.Printf("💾 Snapshots written to %s", cfg.Output.File)
	}
	if cfg.Output.PostgresURL != "" {
		store, err := results.NewPGStore(ctx, cfg.Output.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to open result store: %v", err)
		}
		defer store.Close()
		if err := store.SaveSet(ctx, set); err != nil {
			log.Fatalf("Failed to persist run %s: %v", set.RunID(), err)
		}
		log.Printf("🐘 Run %s persisted", set.RunID())
	}
}

func buildDomain(cfg RunConfig) (*network.Network, *phase.Phase, error) {
	net, err := network.NewCubic(network.CubicOptions{
		Shape:   cfg.Network.Shape,
		Spacing: cfg.Network.Spacing,
	})
	if err != nil {
		return nil, nil, err
	}

	geom := network.DefaultGeometryOptions(cfg.Network.Spacing)
	geom.Jitter = cfg.Network.Jitter
	geom.Seed = cfg.Network.Seed
	if err := network.ApplyGeometry(net, geom); err != nil {
		return nil, nil, err
	}

	var ph *phase.Phase
	if cfg.Phase == "air" {
		ph = phase.Air(net)
	} else {
		ph = phase.Water(net)
	}
	return net, ph, nil
}

func applyFaceBCs(solver *transport.Solver, net *network.Network, cfg BoundaryConfig, in, out float64) error {
	inlet, err := net.Pores(cfg.Inlet)
	if err != nil {
		return err
	}
	outlet, err := net.Pores(cfg.Outlet)
	if err != nil {
		return err
	}
	if err := solver.Conditions().SetValueBC(inlet, []float64{in}); err != nil {
		return err
	}
	return solver.Conditions().SetValueBC(outlet, []float64{out})
}

func runFickian(ctx context.Context, cfg RunConfig, net *network.Network, ph *phase.Phase, logger logging.Logger) (*results.Set, error) {
	solver, err := transport.FickianDiffusion(net, ph, cfg.Settings)
	if err != nil {
		return nil, err
	}
	solver.SetLogger(logger)

	if err := applyFaceBCs(solver, net, cfg.Boundary, cfg.Boundary.InletValue, cfg.Boundary.OutletValue); err != nil {
		return nil, err
	}
	log.Printf("🧪 Fickian diffusion: %s -> %s, scheme %s", cfg.Boundary.Inlet, cfg.Boundary.Outlet, cfg.Settings.Scheme)
	return solver.Run(ctx)
}

func runAdvection(ctx context.Context, cfg RunConfig, net *network.Network, ph *phase.Phase, logger logging.Logger) (*results.Set, error) {
	// Pressure pre-solve feeds the throat flow rates of the advective step
	flow, err := transport.StokesFlow(net, ph, steadySettings(cfg.Settings))
	if err != nil {
		return nil, err
	}
	flow.SetLogger(logger)
	if err := applyFaceBCs(flow, net, cfg.Boundary, cfg.Boundary.InletPressure, cfg.Boundary.OutletPressure); err != nil {
		return nil, err
	}
	if _, err := flow.Run(ctx); err != nil {
		return nil, fmt.Errorf("pressure solve: %w", err)
	}

	pe, err := transport.PecletNumbers(net, ph)
	if err != nil {
		return nil, err
	}
	minPe, maxPe := pe[0], pe[0]
	for _, v := range pe {
		if v < minPe {
			minPe = v
		}
		if v > maxPe {
			maxPe = v
		}
	}
	log.Printf("🌊 Pressure solved, Peclet range [%.3g, %.3g]", minPe, maxPe)

	scheme, err := transport.ParseInterpolation(cfg.Interpolation)
	if err != nil {
		return nil, err
	}
	solver, err := transport.AdvectionDiffusion(net, ph, cfg.Settings, scheme)
	if err != nil {
		return nil, err
	}
	solver.SetLogger(logger)
	if err := applyFaceBCs(solver, net, cfg.Boundary, cfg.Boundary.InletValue, cfg.Boundary.OutletValue); err != nil {
		return nil, err
	}
	log.Printf("🧪 Advection-diffusion: %s interpolation, scheme %s", cfg.Interpolation, cfg.Settings.Scheme)
	return solver.Run(ctx)
}

func printSummary(set *results.Set) {
	fmt.Printf("\nRun %s (%s)\n", set.RunID(), set.Quantity())
	for _, t := range set.Times() {
		field, err := set.At(t)
		if err != nil {
			continue
		}
		min, max, mean := fieldStats(field)
		fmt.Printf("  %-28s min %.4g  mean %.4g  max %.4g\n", set.Label(t), min, mean, max)
	}
	if steady, at := set.SteadyState(); steady {
		fmt.Printf("  steady state reached at t=%g\n", at)
	}
}

func fieldStats(field []float64) (min, max, mean float64) {
	min, max = field[0], field[0]
	sum := 0.0
	for _, v := range field {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	return min, max, sum / float64(len(field))
}

func steadySettings(s transport.Settings) transport.Settings {
	s.Scheme = transport.SchemeSteady
	s.Quantity = "" // publish under the default pore.pressure
	return s
}
