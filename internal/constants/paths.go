package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.taskcycle/logs/taskcycle.log
	CLILogFileName = "taskcycle.log"
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global configuration file.
	// This file is located in the taskcycle home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigName is the name of the project configuration file.
	// This file is located in the .taskcycle directory of the project root.
	ProjectConfigName = "config.yaml"
)
