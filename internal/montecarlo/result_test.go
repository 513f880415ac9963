package montecarlo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateComputesMeanAndSampleStdDev(t *testing.T) {
	outcomes := []realityOutcome{
		{profits: []float64{10, -10}, wagers: []int{10, 10}, endingBankroll: 1000},
		{profits: []float64{20, -5}, wagers: []int{10, 10}, endingBankroll: 1015},
	}
	res := aggregate(outcomes, 1000, 80)

	assert.InDelta(t, 3.75, res.EVPerHand, 1e-9)
	assert.Greater(t, res.SDPerHand, 0.0)
	assert.InDelta(t, res.EVPerHand*80, res.EVPerHour, 1e-9)
}

func TestAggregateRiskOfRuinCountsRuinedFraction(t *testing.T) {
	outcomes := []realityOutcome{
		{endingBankroll: 0, ruined: true},
		{endingBankroll: 500, ruined: false},
		{endingBankroll: 1500, ruined: false},
		{endingBankroll: 0, ruined: true},
	}
	res := aggregate(outcomes, 1000, 80)

	assert.Equal(t, 0.5, res.RiskOfRuin)
	assert.Equal(t, 0.25, res.PositiveOutcomeFraction)
	assert.Equal(t, 1500.0, res.BestEndingBankroll)
	assert.Equal(t, 0.0, res.WorstEndingBankroll)
}

func TestAggregateHoursToBustWorstUsesMinimumEndingBankroll(t *testing.T) {
	bust := 400
	outcomes := []realityOutcome{
		{endingBankroll: 800, bustHandIndex: nil},
		{endingBankroll: 0, bustHandIndex: &bust, ruined: true},
	}
	res := aggregate(outcomes, 1000, 80)

	hours := res.HoursToBustWorst
	assert.NotNil(t, hours)
	assert.InDelta(t, float64(bust)/80.0, *hours, 1e-9)
}

func TestAggregateHoursToBustWorstNilWhenWorstNeverBusted(t *testing.T) {
	outcomes := []realityOutcome{
		{endingBankroll: 1200},
		{endingBankroll: 900},
	}
	res := aggregate(outcomes, 1000, 80)
	assert.Nil(t, res.HoursToBustWorst)
}

func TestSampleStdDevZeroForFewerThanTwoSamples(t *testing.T) {
	assert.Equal(t, 0.0, sampleStdDev(nil))
	assert.Equal(t, 0.0, sampleStdDev([]float64{5}))
}

func TestMedianIntEvenAndOddCounts(t *testing.T) {
	assert.Equal(t, 15.0, medianInt([]int{10, 20}))
	assert.Equal(t, 20.0, medianInt([]int{30, 10, 20}))
}
