package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "vx",
		Usage:     "Run vx scripts",
		ArgsUsage: "[file.vx]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (YAML, JSON or BCL)",
				EnvVars: []string{"VX_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn or error",
				EnvVars: []string{"VX_LOG_LEVEL"},
			},
			&cli.StringSliceFlag{
				Name:    "module-path",
				Aliases: []string{"I"},
				Usage:   "Extra directory searched by imports (repeatable)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a script",
				ArgsUsage: "<file.vx>",
				Action:    runCommand,
			},
			{
				Name:      "test",
				Usage:     "Run a script and report its test blocks",
				ArgsUsage: "<file.vx>",
				Action:    testCommand,
			},
			{
				Name:      "check",
				Usage:     "Parse a script without running it",
				ArgsUsage: "<file.vx>",
				Action:    checkCommand,
			},
			{
				Name:   "repl",
				Usage:  "Start an interactive session",
				Action: replCommand,
			},
		},
		// Allow: vx file.vx
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.ShowAppHelp(c)
			}
			return runCommand(c)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
