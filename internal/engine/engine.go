// Package engine is the top-level entry point CLI commands call: it
// wires the rules/betting/deviation configuration together into a
// montecarlo.Input and runs the simulation, the way cmd/pokerforbots's
// commands call into internal/server rather than constructing a
// server.Config by hand.
package engine

import (
	"fmt"

	"github.com/lox/bjsim/internal/betting"
	"github.com/lox/bjsim/internal/debugrec"
	"github.com/lox/bjsim/internal/deviation"
	"github.com/lox/bjsim/internal/montecarlo"
	"github.com/lox/bjsim/internal/rules"
)

// Options collects everything a caller (CLI or otherwise) needs to run
// one simulation, independent of how the config was sourced (flags or
// HCL files).
type Options struct {
	RulesFile      string
	RampFile       string
	DeviationsFile string

	HoursToSimulate float64
	HandsPerHour    int
	NumRealities    int
	Bankroll        float64
	TakeInsurance   bool
	Seed            int64
	Debug           bool
}

// Load resolves Options into a montecarlo.Input, loading each config
// file (or falling back to defaults) the way internal/server/config.go's
// LoadServerConfig does.
func Load(opts Options) (montecarlo.Input, error) {
	r, err := rules.Load(opts.RulesFile)
	if err != nil {
		return montecarlo.Input{}, fmt.Errorf("loading rules: %w", err)
	}

	ramp, err := betting.Load(opts.RampFile)
	if err != nil {
		return montecarlo.Input{}, fmt.Errorf("loading bet ramp: %w", err)
	}

	devs, err := deviation.Load(opts.DeviationsFile)
	if err != nil {
		return montecarlo.Input{}, fmt.Errorf("loading deviations: %w", err)
	}

	return montecarlo.Input{
		Rules:           r,
		Betting:         ramp,
		HoursToSimulate: opts.HoursToSimulate,
		HandsPerHour:    opts.HandsPerHour,
		NumRealities:    opts.NumRealities,
		Bankroll:        opts.Bankroll,
		TakeInsurance:   opts.TakeInsurance,
		Deviations:      devs,
		Seed:            opts.Seed,
		Debug:           opts.Debug,
	}, nil
}

// Simulate loads opts and runs the engine, returning the aggregated
// result and debug recorder.
func Simulate(opts Options, progress montecarlo.Progress, shouldCancel montecarlo.Cancel) (*montecarlo.Result, *debugrec.Recorder, error) {
	input, err := Load(opts)
	if err != nil {
		return nil, nil, err
	}
	return montecarlo.Simulate(input, progress, shouldCancel)
}
