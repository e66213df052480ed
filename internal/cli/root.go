// Package cli provides the command-line interface for taskcycle.
package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/taskcycle/internal/clock"
	"github.com/mrz1836/taskcycle/internal/errors"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// This is set during PersistentPreRunE and should be accessed via GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// IMPORTANT: This function MUST only be called after the root command's
// PersistentPreRunE has executed. Calling it before initialization will
// return a zero-value logger that discards all log output.
//
// This function is safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// env carries what the subcommands share besides flags.
type env struct {
	flags *GlobalFlags
	clock clock.Clock
}

// newRootCmd creates and returns the root command for the taskcycle CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	return newRootCmdWithClock(flags, info, clock.RealClock{})
}

// newRootCmdWithClock is newRootCmd with an injectable clock for tests.
func newRootCmdWithClock(flags *GlobalFlags, info BuildInfo, clk clock.Clock) *cobra.Command {
	v := viper.New()
	e := &env{flags: flags, clock: clk}

	cmd := &cobra.Command{
		Use:   "taskcycle",
		Short: "taskcycle - exhaustive task sequencing for manipulation data collection",
		Long: `taskcycle tells a teleoperator which task to demonstrate next.

Tasks are drawn uniformly across categories. Position-based tasks such as
turning a knob or moving a slider follow an Eulerian circuit over every
ordered pair of positions, so each movement is demonstrated exactly once
per cycle before any repeats.

Features:
  • Reproducible draws with --seed
  • YAML or JSON task catalogs, with a built-in default
  • Interactive session mode for recording runs`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd, flags); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()

			return nil
		},
		// main prints errors with their suggested action
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddNextCommand(cmd, e)
	AddSequenceCommand(cmd, e)
	AddCatalogCommand(cmd, e)
	AddSessionCommand(cmd, e)
	AddConfigCommand(cmd, e)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	return cmd.ExecuteContext(ctx)
}
