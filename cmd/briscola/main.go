package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"briscola.hcl" type:"path" help:"HCL configuration file (missing file uses defaults)"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)"`
	NoColor  bool   `help:"Disable coloured output"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play a game against the configured agents"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate many games between automated agents"`
	Deal     DealCmd          `cmd:"" help:"Print the opening deal for a seed"`
	Show     VersionCmd       `cmd:"" name:"version" help:"Print the version"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("briscola"),
		kong.Description("Briscola rules engine, agents and simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
