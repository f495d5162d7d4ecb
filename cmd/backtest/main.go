package main

import (
	"context"
	"log"
	"os"

	"github.com/rxtech-lab/argo-consensus/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Simulate consensus strategies on historical bars and search their parameters",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the application config `FILE` (YAML)",
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Extra .env files to load before applying ARGO_* variables",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Parquet or CSV market data file, overrides data.path of the config",
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			optimizeCommand(),
			signalCommand(),
			schemaCommand(),
			exportCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
