package cli

// This file contains test utilities for running CLI commands in-process.
// These helpers are only available in test files (*_test.go).

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskcycle/internal/clock"
	"github.com/mrz1836/taskcycle/internal/constants"
)

// fixedNow is the clock value every command sees under runCLI.
var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) //nolint:gochecknoglobals // test fixture

// isolate points the home directory and working directory at fresh temp
// dirs and disables colors, so no user config or terminal state leaks in.
// It uses t.Setenv, so callers must not run in parallel.
func isolate(t *testing.T) {
	t.Helper()

	t.Setenv(constants.HomeEnvVar, t.TempDir())
	t.Setenv("NO_COLOR", "1")
	for _, key := range []string{"OUTPUT", "VERBOSE", "QUIET", "ENGINE_SEED", "ENGINE_CATEGORIES", "CATALOG_PATH", "CATALOG_FORMAT"} {
		t.Setenv(constants.EnvPrefix+"_"+key, "")
		require.NoError(t, os.Unsetenv(constants.EnvPrefix+"_"+key))
	}
	t.Chdir(t.TempDir())
	t.Cleanup(CloseLogFile)
}

// runCLI executes the root command with args and stdin and returns stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	flags := &GlobalFlags{}
	cmd := newRootCmdWithClock(flags, BuildInfo{Version: "test"}, clock.Fixed(fixedNow))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeFile writes content to name inside a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
