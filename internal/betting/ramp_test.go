package betting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatRampIgnoresCount(t *testing.T) {
	r := Flat(10)
	assert.Equal(t, 10, r.Wager(-5))
	assert.Equal(t, 10, r.Wager(0))
	assert.Equal(t, 10, r.Wager(20))
}

func TestWagerPicksHighestMatchingThreshold(t *testing.T) {
	r := Ramp{
		MinBet: 10,
		Entries: []Entry{
			{TrueCountThreshold: 5, Bet: 100},
			{TrueCountThreshold: 1, Bet: 25},
			{TrueCountThreshold: 3, Bet: 50},
		},
	}

	assert.Equal(t, 10, r.Wager(0))
	assert.Equal(t, 25, r.Wager(1))
	assert.Equal(t, 25, r.Wager(2))
	assert.Equal(t, 50, r.Wager(3))
	assert.Equal(t, 100, r.Wager(5))
	assert.Equal(t, 100, r.Wager(9))
}

func TestWagerNeverBelowMinBet(t *testing.T) {
	r := Ramp{MinBet: 10, Entries: []Entry{{TrueCountThreshold: -5, Bet: 1}}}
	assert.Equal(t, 10, r.Wager(0))
}

func TestLoadFallsBackToFlatTenWhenFileMissing(t *testing.T) {
	r, err := Load("testdata/does-not-exist.hcl")
	require.NoError(t, err)
	assert.Equal(t, Flat(10), r)
}

func TestLoadFromFile(t *testing.T) {
	r, err := Load("../../testdata/ramp.hcl")
	require.NoError(t, err)
	assert.Equal(t, 10, r.MinBet)
	assert.Equal(t, 100, r.Wager(5))
}

func TestValidateRejectsNonPositiveMinBet(t *testing.T) {
	r := Flat(0)
	assert.Error(t, r.Validate())
}

func TestValidateRejectsNegativeEntryBet(t *testing.T) {
	r := Ramp{MinBet: 10, Entries: []Entry{{TrueCountThreshold: 1, Bet: -5}}}
	assert.Error(t, r.Validate())
}
