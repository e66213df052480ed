// Package main provides the entry point for the taskcycle CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mrz1836/taskcycle/internal/cli"
	"github.com/mrz1836/taskcycle/internal/signal"
	"github.com/mrz1836/taskcycle/internal/tui"
)

// Set via ldflags at build time.
//
//nolint:gochecknoglobals // ldflags targets
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	os.Exit(run())
}

func run() int {
	h := signal.NewHandler(context.Background())
	defer h.Stop()
	defer cli.CloseLogFile()

	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	return finish(os.Stderr, err, h.Received())
}

// finish reports the outcome of a command on w and returns its exit code.
// sig is the shutdown signal that arrived while the command ran, or nil.
// A command canceled by that signal gets a notice instead of the bare
// "context canceled" error; a session that ended cleanly keeps exit code 0.
func finish(w io.Writer, err error, sig os.Signal) int {
	out := tui.NewOutput(w, cli.OutputText)
	if sig != nil {
		out.Warning(fmt.Sprintf("interrupted by %s signal", sig))
		if errors.Is(err, context.Canceled) {
			return cli.ExitError
		}
	}
	if err != nil {
		out.Error(err)
	}
	return cli.ExitCodeForError(err)
}
