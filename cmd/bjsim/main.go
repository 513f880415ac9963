package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build.
var version = "dev"

// CLI is the root command, structured exactly like cmd/pokerforbots's
// CLI: a version flag plus one field per subcommand.
type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Simulate SimulateCmd      `cmd:"" help:"Run one simulation to completion"`
	Serve    ServeCmd         `cmd:"" help:"Run a simulation and stream progress over a websocket"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bjsim"),
		kong.Description("Blackjack Monte Carlo expected-value engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
