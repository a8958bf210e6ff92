package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Publish PublishCmd `cmd:"" default:"withargs" help:"Build documentation and push it to the publishing branch"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Status  StatusCmd  `cmd:"" help:"Show the resolved publishing target and last run"`
	History HistoryCmd `cmd:"" help:"Show recent publish runs from the journal"`
	Verify  VerifyCmd  `cmd:"" help:"Check internal links in a documentation tree"`
	Daemon  DaemonCmd  `cmd:"" help:"Publish continuously on file changes and a schedule"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}
