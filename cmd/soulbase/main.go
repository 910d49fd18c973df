// Package main provides the entry point for the soulbase CLI.
package main

import (
	"context"
	"os"

	"github.com/xoundbyte/soulbase/cmd/soulbase/app"
	"github.com/xoundbyte/soulbase/pkg/constants"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	// Cancel in-flight collaborator calls on interrupt, and bound the
	// whole run so a hung collaborator cannot wedge a CI job.
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()
	ctx, timeout := context.WithTimeout(ctx, constants.CommandTimeout)
	defer timeout()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
