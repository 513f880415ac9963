package main

import (
	"os"

	"github.com/charmbracelet/log"
)

// setupLogger configures charmbracelet/log with the level the verbose
// flag selects, adapted from the teacher's shared.SetupLogger (which
// configured zerolog's console writer the same way).
func setupLogger(verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return logger
}
