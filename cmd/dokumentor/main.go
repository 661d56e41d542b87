package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/dokumentor/cmd/dokumentor/commands"
	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("dokumentor"),
		kong.Description("Keep README sections in sync with GitHub Actions, reusable workflows and GitLab CI components."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default(), Out: os.Stdout}, cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
