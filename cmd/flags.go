package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var ConfigFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to a config file (toml, yaml or json).",
	EnvVars: []string{"IMGANALYSIS_CONFIG"},
}

var PortFlag = &cli.IntFlag{
	Name:    "port",
	Aliases: []string{"p"},
	Usage:   "Port to bind the server to.",
	Action: func(c *cli.Context, v int) error {
		if v <= 0 || v > 65535 {
			return fmt.Errorf("invalid port: must be between 1 and 65535")
		}
		return nil
	},
}

var BucketFlag = &cli.StringFlag{
	Name:    "bucket",
	Aliases: []string{"b"},
	Usage:   "S3 bucket images are uploaded to and analysed from.",
}

var TableFlag = &cli.StringFlag{
	Name:    "table",
	Aliases: []string{"t"},
	Usage:   "DynamoDB table to store analysis records in. Records are stored in --data-dir when not set.",
}

var DataDirFlag = &cli.StringFlag{
	Name:    "data-dir",
	Aliases: []string{"d"},
	Usage:   "Root directory to store analysis records in when no table is configured.",
}

var PublicURLFlag = &cli.StringFlag{
	Name:  "public-url",
	Usage: "Base URL of stored images. Defaults to the bucket's S3 URL.",
}

var RekognitionRegionFlag = &cli.StringFlag{
	Name:  "rekognition-region",
	Usage: "AWS region to call Rekognition in. Defaults to the configured AWS region.",
}

var LogLevelFlag = &cli.StringFlag{
	Name:    "log-level",
	Usage:   "Log level for all subsystems (debug, info, warn, error).",
	Value:   "info",
	EnvVars: []string{"IMGANALYSIS_LOG_LEVEL"},
}
