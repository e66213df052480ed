package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
// Specific sentinels come before ErrConfiguration so the class entry only
// catches configuration errors nothing else describes.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	{
		err: ErrEmptyCategorySet,
		info: ErrorInfo{
			Message: "No task categories are configured.",
			Action:  "Add records to the catalog or list categories under engine.categories.",
		},
	},
	{
		err: ErrUnknownCategory,
		info: ErrorInfo{
			Message: "A configured category has no tasks in the catalog.",
			Action:  "Check the category spelling or add task records for it.",
		},
	},
	{
		err: ErrInvalidAxis,
		info: ErrorInfo{
			Message: "An axis needs at least 2 positions and a start position inside its range.",
			Action:  "Fix positions/start under engine.axes.",
		},
	},
	{
		err: ErrInvalidRecord,
		info: ErrorInfo{
			Message: "A task record in the catalog is invalid.",
			Action:  "Every record needs an id, a category and an instruction; target positions start at 1.",
		},
	},
	{
		err: ErrDuplicateTaskID,
		info: ErrorInfo{
			Message: "Two task records share the same id.",
			Action:  "Give every record in the catalog a unique id.",
		},
	},
	{
		err: ErrCatalogNotFound,
		info: ErrorInfo{
			Message: "The catalog file was not found.",
			Action:  "Pass --catalog with a valid path or set catalog.path in the config file.",
		},
	},
	{
		err: ErrCatalogParse,
		info: ErrorInfo{
			Message: "The catalog file could not be parsed.",
			Action:  "Check the file for YAML/JSON syntax errors.",
		},
	},
	{
		err: ErrUnsupportedFormat,
		info: ErrorInfo{
			Message: "The catalog file format is not supported.",
			Action:  "Use a .yaml, .yml or .json catalog file.",
		},
	},
	{
		err: ErrInternalConsistency,
		info: ErrorInfo{
			Message: "A generated task sequence failed its consistency check.",
			Action:  "This is a bug. Please report it with the axis size and start position.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message: "An invalid argument was provided.",
			Action:  "Check the command help for valid arguments.",
		},
	},
	{
		err: ErrConfiguration,
		info: ErrorInfo{
			Message: "The configuration is invalid.",
			Action:  "Run 'taskcycle catalog validate' to locate the problem.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries a direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
