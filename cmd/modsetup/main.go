// Package main is the entry point for the modsetup CLI.
//
// modsetup walks a user through the ordered steps of a setup document,
// showing each step's instructions and running its actions: privilege
// elevation, launching a process, and copying, moving or deleting files.
//
// Commands: run, init, validate, status, version.
//
// For detailed usage information, run:
//
//	modsetup --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/imamik/modsetup/cmd/modsetup/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
