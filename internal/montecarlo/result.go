package montecarlo

import (
	"math"
	"sort"
)

// Result is the Simulation result of spec.md §3.
type Result struct {
	EVPerHour               float64
	SDPerHour               float64
	RiskOfRuin              float64
	AverageBet              float64
	MedianBet               float64
	PositiveOutcomeFraction float64
	BestEndingBankroll      float64
	WorstEndingBankroll     float64
	HoursToBustWorst        *float64
	EVPerHand               float64
	SDPerHand               float64
}

// realityOutcome is the per-reality bookkeeping the driver produces and
// the aggregator consumes, per spec.md §4.5 step 4 / §4.6.
type realityOutcome struct {
	profits        []float64
	wagers         []int
	ruined         bool
	bustHandIndex  *int
	endingBankroll float64
}

// aggregate combines every reality's outcome into the Simulation result,
// per spec.md §4.6. handsPerHour is needed to convert per-hand to
// per-hour statistics.
func aggregate(outcomes []realityOutcome, startingBankroll float64, handsPerHour int) Result {
	var profits []float64
	var wagers []int
	endingBankrolls := make([]float64, len(outcomes))
	ruinedCount := 0
	positiveCount := 0

	for i, o := range outcomes {
		profits = append(profits, o.profits...)
		wagers = append(wagers, o.wagers...)
		endingBankrolls[i] = o.endingBankroll
		if o.ruined {
			ruinedCount++
		}
		if o.endingBankroll > startingBankroll {
			positiveCount++
		}
	}

	evPerHand := mean(profits)
	sdPerHand := sampleStdDev(profits)

	res := Result{
		EVPerHand:  evPerHand,
		SDPerHand:  sdPerHand,
		EVPerHour:  evPerHand * float64(handsPerHour),
		SDPerHour:  sdPerHand * math.Sqrt(float64(handsPerHour)),
		AverageBet: meanInt(wagers),
		MedianBet:  medianInt(wagers),
	}

	if len(outcomes) > 0 {
		res.RiskOfRuin = float64(ruinedCount) / float64(len(outcomes))
		res.PositiveOutcomeFraction = float64(positiveCount) / float64(len(outcomes))
		res.BestEndingBankroll = maxFloat(endingBankrolls)
		res.WorstEndingBankroll = minFloat(endingBankrolls)
		res.HoursToBustWorst = hoursToBustWorst(outcomes, handsPerHour)
	}

	return res
}

// hoursToBustWorst finds the reality with the minimum ending bankroll
// (by index, not completion order, per spec.md §5's ordering guarantee)
// and reports its bustHandIndex/handsPerHour, or nil if it never busted.
func hoursToBustWorst(outcomes []realityOutcome, handsPerHour int) *float64 {
	worstIdx := 0
	for i, o := range outcomes {
		if o.endingBankroll < outcomes[worstIdx].endingBankroll {
			worstIdx = i
		}
	}
	bi := outcomes[worstIdx].bustHandIndex
	if bi == nil {
		return nil
	}
	hours := float64(*bi) / float64(handsPerHour)
	return &hours
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func meanInt(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	return sum / float64(len(xs))
}

// sampleStdDev is the Bessel-corrected (n-1) sample standard deviation;
// 0 when there are fewer than 2 samples, per spec.md §4.6.
func sampleStdDev(xs []float64) float64 {
	if len(xs) <= 1 {
		return 0
	}
	m := mean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

func medianInt(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]int, len(xs))
	copy(sorted, xs)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return float64(sorted[n/2-1]+sorted[n/2]) / 2
	}
	return float64(sorted[n/2])
}

func maxFloat(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minFloat(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

