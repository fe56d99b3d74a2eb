// Package main is the entry point for the amphorad CLI.
//
// amphorad provisions and tears down amphora instances for a load
// balancing control plane. Builds run as compensable task sequences:
// any partially provisioned resources are cleaned up automatically when
// a step fails.
//
// Commands: init, provision, teardown, version.
//
// For detailed usage information, run:
//
//	amphorad --help
package main

import (
	"fmt"
	"os"

	"github.com/lbforge/amphorad/cmd/amphorad/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
