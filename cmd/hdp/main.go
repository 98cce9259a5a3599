// Command hdp is the CLI entry point for the historical data processor
// (spec §6 "CLI surface"): four verbs over one shared pipeline of
// provider -> fetchable -> preprocessor -> output.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/herodotus/hdp-go/log"
)

func main() {
	app := &cli.App{
		Name:  "hdp",
		Usage: "fetch, decode, and aggregate proof-backed historical EVM state",
		Commands: []*cli.Command{
			startCommand(),
			runDatalakeCommand(),
			runModuleCommand(),
			runCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("hdp: run failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
