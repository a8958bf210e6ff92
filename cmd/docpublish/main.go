package main

import (
	"fmt"
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docpublish/cmd/docpublish/commands"
	pErrors "git.home.luguber.info/inful/docpublish/internal/errors"
	"git.home.luguber.info/inful/docpublish/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("docpublish"),
		kong.Description("Builds documentation and pushes it to the repository's publishing branch."),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("docpublish %s (commit %s, built %s)",
				version.Version, version.GitCommit, version.BuildTime),
		},
	)

	global := &commands.Global{Logger: slog.Default()}
	err := ctx.Run(global, &cli)

	adapter := pErrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
	adapter.HandleError(err)
}
