package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bjsim/internal/betting"
	"github.com/lox/bjsim/internal/rules"
)

func TestLoadFallsBackToDefaultsWhenNoFilesGiven(t *testing.T) {
	input, err := Load(Options{HoursToSimulate: 1, HandsPerHour: 80, NumRealities: 1, Bankroll: 1000})
	require.NoError(t, err)
	assert.Equal(t, rules.Default(), input.Rules)
	assert.Equal(t, betting.Flat(10), input.Betting)
	assert.Equal(t, 1000.0, input.Bankroll)
}

func TestLoadReadsHCLFilesWhenGiven(t *testing.T) {
	input, err := Load(Options{
		RulesFile:      "../../testdata/rules.hcl",
		RampFile:       "../../testdata/ramp.hcl",
		DeviationsFile: "../../testdata/deviations.hcl",
		HoursToSimulate: 1,
		HandsPerHour:    80,
		NumRealities:    1,
		Bankroll:        1000,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, input.Rules.Decks)
	assert.NotEmpty(t, input.Deviations)
}

func TestLoadPropagatesMalformedRulesFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.hcl")
	require.NoError(t, os.WriteFile(path, []byte("not valid hcl {{{"), 0o644))

	_, err := Load(Options{RulesFile: path})
	assert.Error(t, err)
}

func TestSimulateRunsEndToEndWithDefaults(t *testing.T) {
	opts := Options{HoursToSimulate: 0.25, HandsPerHour: 20, NumRealities: 4, Bankroll: 5000, Seed: 7}
	result, rec, err := Simulate(opts, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, rec.Records())
}
