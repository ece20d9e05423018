package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	"github.com/imganalysis/imganalysis/cmd"
)

var log = logging.Logger("imganalysis")

func main() {
	app := &cli.App{
		Name:  "imganalysis",
		Usage: "Issue upload URLs, analyse uploaded images and list analysis history.",
		Flags: []cli.Flag{
			cmd.LogLevelFlag,
		},
		Before: func(cCtx *cli.Context) error {
			return logging.SetLogLevel("*", cCtx.String("log-level"))
		},
		Commands: []*cli.Command{
			cmd.ServeCmd,
			cmd.VersionCmd,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
