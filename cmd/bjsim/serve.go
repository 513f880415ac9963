package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/bjsim/internal/engine"
	"github.com/lox/bjsim/internal/montecarlo"
	"github.com/lox/bjsim/internal/progressws"
)

// ServeCmd runs one simulation in the background and streams progress
// over a websocket, the Monte Carlo analogue of cmd/pokerforbots's
// ServerCmd: a long-running HTTP process shut down by signal.
type ServeCmd struct {
	sharedFlags

	Addr string `kong:"default=':8090',help='HTTP address to listen on'"`
	Path string `kong:"default='/ws',help='Websocket endpoint path'"`
}

func (c *ServeCmd) Run() error {
	logger := setupLogger(c.Verbose)

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := c.sharedFlags.toEngineOptions(seed)

	broadcaster := progressws.NewBroadcaster(logger)

	mux := http.NewServeMux()
	mux.Handle(c.Path, broadcaster)
	srv := &http.Server{Addr: c.Addr, Handler: mux}

	ctx := setupSignalHandler(logger)

	go c.runSimulation(ctx, opts, broadcaster, logger)

	logger.Info("listening", "address", c.Addr, "path", c.Path)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

func (c *ServeCmd) runSimulation(ctx context.Context, opts engine.Options, broadcaster *progressws.Broadcaster, logger *log.Logger) {
	total := c.Realities
	progress := func(completed int) {
		broadcaster.Broadcast(progressws.Frame{
			RealitiesCompleted: completed,
			RealitiesTotal:     total,
		})
	}
	ctxCancel := func() bool {
		select {
		case <-ctx.Done():
			return true
		default:
			return false
		}
	}
	shouldCancel := montecarlo.Cancel(ctxCancel)
	if c.Timeout > 0 {
		deadline := montecarlo.DeadlineCancel(quartz.NewReal(), time.Now().Add(c.Timeout))
		shouldCancel = func() bool { return ctxCancel() || deadline() }
	}

	result, _, err := engine.Simulate(opts, progress, shouldCancel)
	if err != nil {
		logger.Error("simulation failed", "error", err)
		return
	}
	if result == nil {
		return
	}

	broadcaster.Broadcast(progressws.Frame{
		RealitiesCompleted: total,
		RealitiesTotal:     total,
		Done:               true,
		Result:             result,
	})

	fmt.Println("simulation complete")
}
