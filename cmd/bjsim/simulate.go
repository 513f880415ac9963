package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/bjsim/internal/debugrec"
	"github.com/lox/bjsim/internal/engine"
	"github.com/lox/bjsim/internal/fileutil"
	"github.com/lox/bjsim/internal/montecarlo"
)

// SimulateCmd runs one simulation to completion and prints the
// aggregated result, mirroring cmd/simulate/main.go's CPU/mem profiling
// flags and cmd/pokerforbots's subcommand shape.
type SimulateCmd struct {
	sharedFlags

	TUI        bool   `kong:"help='Show a live progress bar instead of a 40-dot progress line'"`
	CSVOut     string `kong:"name='csv-out',help='Write the per-hand debug record stream to this CSV file (implies --debug)'"`
	CPUProfile string `kong:"name='cpuprofile',help='Write a CPU profile to this file'"`
	MemProfile string `kong:"name='memprofile',help='Write a heap profile to this file'"`
}

func (c *SimulateCmd) Run() error {
	logger := setupLogger(c.Verbose)

	if c.CSVOut != "" {
		c.Debug = true
	}

	if c.CPUProfile != "" {
		f, err := os.Create(c.CPUProfile)
		if err != nil {
			return fmt.Errorf("creating cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("starting cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("resolved seed", "seed", seed)

	opts := c.sharedFlags.toEngineOptions(seed)
	ctx := setupSignalHandler(logger)

	var result *montecarlo.Result
	var recorder *debugrec.Recorder
	var simErr error

	if c.TUI {
		result, recorder, simErr = c.runWithTUI(opts, ctx)
	} else {
		result, recorder, simErr = c.runWithDots(opts, ctx, logger)
	}
	if simErr != nil {
		return simErr
	}
	if result == nil {
		logger.Info("simulation cancelled")
		return nil
	}

	printResult(result)

	if c.CSVOut != "" {
		var buf bytes.Buffer
		if err := recorder.WriteCSV(&buf); err != nil {
			return fmt.Errorf("writing csv output: %w", err)
		}
		// Written atomically so a reader polling for the file never sees a
		// half-written CSV from a long export.
		if err := fileutil.WriteFileAtomic(c.CSVOut, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing csv output file: %w", err)
		}
		logger.Info("wrote debug records", "file", c.CSVOut, "count", len(recorder.Records()))
	}

	if c.MemProfile != "" {
		f, err := os.Create(c.MemProfile)
		if err != nil {
			return fmt.Errorf("creating mem profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("writing mem profile: %w", err)
		}
	}

	return nil
}

// cancelFunc combines the signal-driven context with the optional
// --timeout deadline into a single Cancel, so a long-running simulation
// stops promptly on either Ctrl-C or the wall clock.
func (c *SimulateCmd) cancelFunc(ctx context.Context) montecarlo.Cancel {
	ctxCancel := func() bool {
		select {
		case <-ctx.Done():
			return true
		default:
			return false
		}
	}
	if c.Timeout <= 0 {
		return ctxCancel
	}
	deadline := montecarlo.DeadlineCancel(quartz.NewReal(), time.Now().Add(c.Timeout))
	return func() bool { return ctxCancel() || deadline() }
}

func (c *SimulateCmd) runWithDots(opts engine.Options, ctx context.Context, logger *log.Logger) (*montecarlo.Result, *debugrec.Recorder, error) {
	total := c.Realities
	printed := 0
	progress := func(completed int) {
		target := (completed * 40) / max(total, 1)
		for ; printed < target; printed++ {
			fmt.Print(".")
		}
		if completed >= total {
			fmt.Println(" done")
		}
	}
	return engine.Simulate(opts, progress, c.cancelFunc(ctx))
}

func (c *SimulateCmd) runWithTUI(opts engine.Options, ctx context.Context) (*montecarlo.Result, *debugrec.Recorder, error) {
	total := c.Realities
	events := make(chan progressMsg, total+1)
	done := make(chan struct{})

	progress := func(completed int) {
		events <- progressMsg{completed: completed, total: total}
	}
	shouldCancel := c.cancelFunc(ctx)

	type simOutcome struct {
		result   *montecarlo.Result
		recorder *debugrec.Recorder
		err      error
	}
	outcomeCh := make(chan simOutcome, 1)

	go func() {
		result, recorder, err := engine.Simulate(opts, progress, shouldCancel)
		close(events)
		close(done)
		outcomeCh <- simOutcome{result, recorder, err}
	}()

	model := newProgressModel(total, events, done)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return nil, nil, fmt.Errorf("running progress ui: %w", err)
	}

	outcome := <-outcomeCh
	return outcome.result, outcome.recorder, outcome.err
}

func printResult(r *montecarlo.Result) {
	fmt.Printf("EV/hand:       %.4f\n", r.EVPerHand)
	fmt.Printf("SD/hand:       %.4f\n", r.SDPerHand)
	fmt.Printf("EV/hour:       %.2f\n", r.EVPerHour)
	fmt.Printf("SD/hour:       %.2f\n", r.SDPerHour)
	fmt.Printf("Average bet:   %.2f\n", r.AverageBet)
	fmt.Printf("Median bet:    %.2f\n", r.MedianBet)
	fmt.Printf("Risk of ruin:  %.4f\n", r.RiskOfRuin)
	fmt.Printf("Positive frac: %.4f\n", r.PositiveOutcomeFraction)
	fmt.Printf("Best ending:   %.2f\n", r.BestEndingBankroll)
	fmt.Printf("Worst ending:  %.2f\n", r.WorstEndingBankroll)
	if r.HoursToBustWorst != nil {
		fmt.Printf("Hours to bust (worst reality): %.2f\n", *r.HoursToBustWorst)
	}
}
