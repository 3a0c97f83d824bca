// Package main is the tracklist album service entry point.
package main

import (
	"os"

	"github.com/roach88/tracklist/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
