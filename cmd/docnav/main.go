package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docnav/cmd/docnav/commands"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("docnav"),
		kong.Description("Build, validate and serve the documentation site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(cli),
	)
	err := ctx.Run(&commands.Global{Out: os.Stdout})
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
