// Package constants provides centralized constant values used throughout taskcycle.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

// Directory names used by taskcycle for organizing data.
const (
	// AppHome is the hidden directory name where taskcycle stores its data.
	// It is created in the user's home directory, or in the project root
	// for project-level configuration.
	AppHome = ".taskcycle"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// Environment variables.
const (
	// EnvPrefix is the prefix for environment variable overrides,
	// e.g. TASKCYCLE_ENGINE_SEED.
	EnvPrefix = "TASKCYCLE"

	// HomeEnvVar overrides the taskcycle home directory.
	HomeEnvVar = "TASKCYCLE_HOME"
)

// Log rotation settings for the global CLI log file.
const (
	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is the number of days rotated log files are kept.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Selection limits for the CLI.
const (
	// DefaultDrawCount is the number of tasks drawn by "taskcycle next".
	DefaultDrawCount = 1

	// MaxDrawCount caps a single "taskcycle next" invocation.
	MaxDrawCount = 100000

	// MaxSequenceSize caps the axis size accepted by "taskcycle sequence".
	// A circuit on n positions holds n*(n-1) transitions.
	MaxSequenceSize = 1000

	// CatalogValidateConcurrency bounds the catalog files validated in parallel.
	CatalogValidateConcurrency = 4
)

// SessionQuitCommand ends an interactive session.
const SessionQuitCommand = "q"
