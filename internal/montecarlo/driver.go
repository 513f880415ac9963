package montecarlo

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/bjsim/internal/debugrec"
	"github.com/lox/bjsim/internal/handplay"
	"github.com/lox/bjsim/internal/randutil"
	"github.com/lox/bjsim/internal/shoe"
)

// yieldEvery is the maximum number of hands played within a reality
// before the next cancellation/yield check, per spec.md §5's "at least
// once per ~500 hands" suspension point.
const yieldEvery = 500

// Progress is called after each reality completes, with a monotonically
// increasing count of realities completed so far (not necessarily in
// reality-index order when running in parallel), per spec.md §5.
type Progress func(realitiesCompleted int)

// Cancel is polled at every suspension point; once true the driver stops
// promptly and Simulate returns a nil result with no error.
type Cancel func() bool

// DeadlineCancel returns a Cancel that fires once clock's notion of now
// has reached deadline, letting a caller impose a wall-clock --timeout
// on Simulate without Simulate itself depending on a clock. Taking the
// clock as a parameter (rather than calling time.Now directly) is what
// lets this be driven deterministically by quartz.Mock in tests, the
// same seam the teacher uses for its own timeout tests.
func DeadlineCancel(clock quartz.Clock, deadline time.Time) Cancel {
	return func() bool {
		return !clock.Now().Before(deadline)
	}
}

// Simulate is the engine's entry point (spec.md §6): it runs every
// reality, aggregates their statistics, and returns the result, or a nil
// result (with no error) if shouldCancel fired before completion.
// Realities are divided into contiguous chunks, one per worker, and run
// under an errgroup.Group, the same worker-division and independent-RNG
// pattern as internal/evaluator.EstimateEquityParallel: cancellation
// propagates through the group's context instead of a shared flag.
func Simulate(input Input, progress Progress, shouldCancel Cancel) (*Result, *debugrec.Recorder, error) {
	if progress == nil {
		progress = func(int) {}
	}
	if shouldCancel == nil {
		shouldCancel = func() bool { return false }
	}

	n := input.NumRealities
	outcomes := make([]realityOutcome, n)
	recorders := make([]*debugrec.Recorder, n)

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(context.Background())
	cancelCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Every worker's yield point checks shouldCancel and, on the first
	// true, cancels cancelCtx so every other worker observes Done() at
	// its own next yield point without a busy-polling goroutine.
	var cancelOnce sync.Once
	checkCancel := func() bool {
		if shouldCancel() {
			cancelOnce.Do(cancel)
			return true
		}
		select {
		case <-cancelCtx.Done():
			return true
		default:
			return false
		}
	}

	perWorker := n / workers
	remainder := n % workers

	var completed int64
	var progressMu sync.Mutex

	start := 0
	for w := 0; w < workers; w++ {
		count := perWorker
		if w < remainder {
			count++
		}
		lo, hi := start, start+count
		start = hi

		g.Go(func() error {
			for idx := lo; idx < hi; idx++ {
				if checkCancel() {
					return context.Canceled
				}

				var outcome realityOutcome
				if err := withInvariantRecovery(idx, func() {
					rec := debugrec.New(input.Debug)
					recorders[idx] = rec
					outcome = playReality(idx, input, rec, checkCancel)
				}); err != nil {
					return err
				}
				if checkCancel() {
					return context.Canceled
				}
				outcomes[idx] = outcome

				progressMu.Lock()
				c := atomic.AddInt64(&completed, 1)
				progress(int(c))
				progressMu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var invErr *InvariantError
		if errors.As(err, &invErr) {
			return nil, nil, invErr
		}
		return nil, nil, nil
	}

	merged := debugrec.New(input.Debug)
	for _, rec := range recorders {
		merged.Merge(rec)
	}

	result := aggregate(outcomes, input.Bankroll, input.HandsPerHour)
	return &result, merged, nil
}

// playReality runs one independent bankroll trajectory, per spec.md
// §4.5. Each reality owns its own shoe and RNG so parallel workers share
// no mutable state.
func playReality(realityIdx int, input Input, rec *debugrec.Recorder, shouldCancel Cancel) realityOutcome {
	rng := randutil.New(input.Seed + int64(realityIdx))
	s := shoe.New(input.Rules.Decks, input.Rules.Penetration, rng)

	handsPerReality := input.HandsPerReality()
	cumulativeProfit := 0.0
	ruined := false
	var bustHandIndex *int

	profits := make([]float64, 0, handsPerReality)
	wagers := make([]int, 0, handsPerReality)

	for h := 0; h < handsPerReality; h++ {
		if h%yieldEvery == 0 && shouldCancel() {
			break
		}

		bankrollNow := input.Bankroll + cumulativeProfit
		if bankrollNow <= 0 {
			ruined = true
			idx := h
			bustHandIndex = &idx
			break
		}

		s.PrepareForNewHand()

		trueCount := s.TrueCount()
		wager := input.Betting.Wager(int(math.Floor(trueCount)))
		if float64(wager) > bankrollNow {
			wager = int(bankrollNow)
		}
		if wager <= 0 {
			ruined = true
			idx := h
			bustHandIndex = &idx
			break
		}

		wagers = append(wagers, wager)

		player, dealer := handplay.DealInitialCards(s)
		res := handplay.Play(player, dealer, wager, s.RunningCount(), trueCount, input.Rules, input.Deviations, s, input.TakeInsurance)

		recordHand(rec, realityIdx, h, bankrollNow, trueCount, res)

		profits = append(profits, res.Profit)
		cumulativeProfit += res.Profit

		if input.Bankroll+cumulativeProfit <= 0 {
			ruined = true
			idx := h + 1
			bustHandIndex = &idx
			break
		}
	}

	endingBankroll := input.Bankroll + cumulativeProfit
	if endingBankroll < 0 {
		endingBankroll = 0
	}

	return realityOutcome{
		profits:        profits,
		wagers:         wagers,
		ruined:         ruined,
		bustHandIndex:  bustHandIndex,
		endingBankroll: endingBankroll,
	}
}

func recordHand(rec *debugrec.Recorder, realityIdx, handIdx int, bankrollStart float64, trueCount float64, res handplay.Result) {
	if rec == nil {
		return
	}
	running := bankrollStart
	for splitIdx, t := range res.Terminals {
		d := debugrec.Record{
			Reality:       realityIdx,
			HandIndex:     handIdx,
			SplitDepth:    splitIdx,
			TrueCount:     trueCount,
			PlayerCards:   t.Hand.String(),
			DealerUp:      res.DealerHand.Cards[0].String(),
			DealerHole:    res.DealerHand.Cards[1].String(),
			Total:         t.Hand.BestValue(),
			IsSoft:        t.Hand.IsSoft(),
			Action:        actionLabel(t),
			Wager:         t.Wager,
			BankrollStart: running,
			Payout:        t.Profit,
			BankrollEnd:   running + t.Profit,
			Result:        outcomeLabel(t.Outcome),
			PlayerFinal:   t.Hand.BestValue(),
			DealerFinal:   res.DealerHand.BestValue(),
		}
		running += t.Profit
		if res.InsuranceTaken {
			d.HasInsurance = true
			d.InsuranceBet = res.InsuranceBet
			d.InsuranceDecision = "taken"
			label := "lost"
			net := -res.InsuranceBet
			if res.InsuranceWon {
				label = "won"
				net = 2 * res.InsuranceBet
			}
			d.InsuranceResult = &label
			d.InsuranceNet = &net
		} else {
			d.InsuranceDecision = "disabled"
		}
		rec.Add(d)
	}
}

// actionLabel reports the last recorded action for a terminal hand, or
// "" when no trace was kept (always the case today, since playOutAction
// does not populate TerminalHand.Trace).
func actionLabel(t handplay.TerminalHand) string {
	if len(t.Trace) == 0 {
		return ""
	}
	return t.Trace[len(t.Trace)-1].Action.String()
}

func outcomeLabel(o handplay.Outcome) string {
	switch o {
	case handplay.Win:
		return "win"
	case handplay.Loss:
		return "loss"
	default:
		return "push"
	}
}
