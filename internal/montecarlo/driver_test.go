package montecarlo

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bjsim/internal/betting"
	"github.com/lox/bjsim/internal/deviation"
	"github.com/lox/bjsim/internal/rules"
)

func smallInput() Input {
	return Input{
		Rules:           rules.Default(),
		Betting:         betting.Flat(10),
		HoursToSimulate: 1,
		HandsPerHour:    20,
		NumRealities:    8,
		Bankroll:        10000,
		Deviations:      deviation.Default(),
		Seed:            42,
	}
}

func TestSimulateReturnsResultAndBoundedRecorder(t *testing.T) {
	in := smallInput()
	in.Debug = true

	result, rec, err := Simulate(in, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, rec.Records())
	assert.LessOrEqual(t, len(rec.Records()), 5000)
}

func TestSimulateReportsProgressUpToNumRealities(t *testing.T) {
	in := smallInput()
	var lastCompleted int
	progress := func(completed int) {
		if completed > lastCompleted {
			lastCompleted = completed
		}
	}

	_, _, err := Simulate(in, progress, nil)
	require.NoError(t, err)
	assert.Equal(t, in.NumRealities, lastCompleted)
}

func TestSimulateCancelsPromptlyAndReturnsNilResult(t *testing.T) {
	in := smallInput()
	in.NumRealities = 64
	in.HoursToSimulate = 1000 // many hands per reality, so cancellation is observed mid-run

	cancelled := false
	shouldCancel := func() bool {
		cancelled = true
		return true
	}

	result, rec, err := Simulate(in, nil, shouldCancel)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Nil(t, rec)
	assert.True(t, cancelled)
}

func TestDeadlineCancelFiresOnlyAtOrAfterDeadline(t *testing.T) {
	clock := quartz.NewMock(t)
	deadline := clock.Now().Add(10 * time.Second)
	cancel := DeadlineCancel(clock, deadline)

	assert.False(t, cancel(), "must not fire before the deadline")

	clock.Advance(5 * time.Second).MustWait(t.Context())
	assert.False(t, cancel())

	clock.Advance(5 * time.Second).MustWait(t.Context())
	assert.True(t, cancel(), "must fire once now has reached the deadline")
}

func TestDeadlineCancelDrivesSimulateTimeout(t *testing.T) {
	clock := quartz.NewMock(t)
	in := smallInput()
	in.NumRealities = 64
	in.HoursToSimulate = 1000

	deadline := clock.Now() // already expired: fires on the very first check
	cancel := DeadlineCancel(clock, deadline)

	result, rec, err := Simulate(in, nil, cancel)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Nil(t, rec)
}
