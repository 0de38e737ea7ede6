package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/codebook/cmd/codebook/commands"
	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
	"git.home.luguber.info/inful/codebook/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("codebook"),
		kong.Description("Assemble a LaTeX code notebook from a source tree and compile it."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Ctx: ctx, Stdout: os.Stdout}
	err := parser.Run(global, cli)
	stop()
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
