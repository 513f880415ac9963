// Package montecarlo implements the bankroll-aware Monte Carlo driver and
// aggregator of spec.md §4.5–§4.6: it simulates numRealities independent
// bankroll trajectories and reduces them into the aggregated statistics
// of spec.md §3's Simulation result.
//
// The reality loop is grounded on the teacher's internal/simulator.Run
// (per-iteration work unit, early-exit on a detected failure, progress
// reported per unit of work); parallelising across realities reuses the
// worker-pool/errgroup pattern from internal/evaluator.EstimateEquityParallel.
package montecarlo

import (
	"math"

	"github.com/lox/bjsim/internal/betting"
	"github.com/lox/bjsim/internal/deviation"
	"github.com/lox/bjsim/internal/rules"
)

// Input is the Simulation input of spec.md §3.
type Input struct {
	Rules           rules.Rules
	Betting         betting.Ramp
	HoursToSimulate float64
	HandsPerHour    int
	NumRealities    int
	Bankroll        float64
	TakeInsurance   bool
	Deviations      deviation.Set

	// Seed seeds every reality's independent RNG deterministically: reality
	// r uses Seed+int64(r). A zero Seed is a valid, if unvaried, seed — the
	// caller is responsible for randomizing it (e.g. from time.Now) when
	// true nondeterminism is wanted; the engine itself never calls the
	// wall clock, per spec.md §1's "does not maintain a persistent RNG
	// seed" non-goal.
	Seed int64

	// Debug enables the per-hand debug record stream (spec.md §6),
	// bounded at 5,000 records total across all realities.
	Debug bool
}

// HandsPerReality returns max(1, floor(hoursToSimulate*handsPerHour)),
// spec.md §4.5 step 2 / §8's boundary case for sub-hand simulations.
func (in Input) HandsPerReality() int {
	n := int(math.Floor(in.HoursToSimulate * float64(in.HandsPerHour)))
	if n < 1 {
		return 1
	}
	return n
}
