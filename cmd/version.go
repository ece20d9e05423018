package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/imganalysis/imganalysis/pkg/build"
)

var VersionCmd = &cli.Command{
	Name:  "version",
	Usage: "Print the imganalysis version.",
	Action: func(cCtx *cli.Context) error {
		fmt.Printf("imganalysis %s (%s %s/%s)\n", build.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}
