package main

import (
	"time"

	"github.com/lox/bjsim/internal/engine"
)

// sharedFlags are the input flags common to every subcommand that runs a
// simulation, kept in one struct so simulate.go and serve.go both embed
// it rather than repeating the field list.
type sharedFlags struct {
	RulesFile      string        `kong:"name='rules',help='HCL rules file (defaults to the 6-deck S17 DAS/LS/3:2 ruleset)'"`
	RampFile       string        `kong:"name='ramp',help='HCL bet ramp file (defaults to a flat $10 ramp)'"`
	DeviationsFile string        `kong:"name='deviations',help='HCL deviation set file (defaults to the built-in Illustrious-18-style set)'"`
	Hours          float64       `kong:"default='100',help='Hours of play to simulate per reality'"`
	HandsPerHour   int           `kong:"default='80',help='Hands dealt per hour'"`
	Realities      int           `kong:"default='1000',help='Number of independent bankroll trajectories to simulate'"`
	Bankroll       float64       `kong:"default='10000',help='Starting bankroll'"`
	Insurance      bool          `kong:"name='insurance',help='Take insurance when offered and true count >= 3'"`
	Seed           int64         `kong:"default='0',help='RNG seed (0 derives a fresh seed from the wall clock)'"`
	Debug          bool          `kong:"help='Record per-hand debug entries (capped at 5,000)'"`
	Verbose        bool          `kong:"help='Enable debug logging'"`
	Timeout        time.Duration `kong:"help='Abort the simulation after this long (e.g. 30s, 5m); 0 disables'"`
}

// toEngineOptions translates the CLI flags into engine.Options.
func (f sharedFlags) toEngineOptions(seed int64) engine.Options {
	return engine.Options{
		RulesFile:       f.RulesFile,
		RampFile:        f.RampFile,
		DeviationsFile:  f.DeviationsFile,
		HoursToSimulate: f.Hours,
		HandsPerHour:    f.HandsPerHour,
		NumRealities:    f.Realities,
		Bankroll:        f.Bankroll,
		TakeInsurance:   f.Insurance,
		Seed:            seed,
		Debug:           f.Debug,
	}
}
