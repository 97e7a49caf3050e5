// Package main is the entry point for the ghostline editor.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dshills/ghostline/internal/cli"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd := cli.NewRootCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrNotTerminal) {
			return 2
		}
		return 1
	}
	return 0
}
