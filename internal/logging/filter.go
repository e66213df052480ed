// Package logging provides zerolog utilities that keep log output clean.
//
// Task instructions come from user-supplied catalog files and end up in log
// fields. This package strips terminal control sequences from that text so
// neither the console nor the rotated log file can be rewritten by an
// escape sequence hidden in a catalog.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Replacement is written in place of each stripped control sequence.
const Replacement = "�"

// controlPatterns match terminal control sequences, most specific first.
var controlPatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// CSI sequences (colors, cursor movement, screen clearing)
	regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`),

	// OSC sequences (window title, hyperlinks), BEL or ST terminated
	regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`),

	// Remaining two-byte escapes
	regexp.MustCompile(`\x1b[@-_]`),

	// C0 controls other than tab and newline, plus DEL and C1 controls
	regexp.MustCompile(`[\x00-\x08\x0b-\x1f\x7f\x{80}-\x{9f}]`),
}

// SanitizeHook is a zerolog hook that flags events whose message carried
// control sequences.
type SanitizeHook struct{}

// NewSanitizeHook creates a new SanitizeHook.
func NewSanitizeHook() *SanitizeHook {
	return &SanitizeHook{}
}

// Run implements the zerolog.Hook interface.
// zerolog does not let hooks rewrite the message, so the hook marks the
// event and FilteringWriter does the stripping on the way out.
func (h *SanitizeHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsControl(msg) {
		e.Bool("sanitized", true)
	}
}

// ContainsControl reports whether s holds any terminal control sequence.
func ContainsControl(s string) bool {
	for _, pattern := range controlPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// Sanitize replaces every control sequence in s with Replacement.
// Tabs and newlines are kept.
func Sanitize(s string) string {
	if !ContainsControl(s) {
		return s
	}
	result := s
	for _, pattern := range controlPatterns {
		result = pattern.ReplaceAllString(result, Replacement)
	}
	return result
}

// SingleLine sanitizes s and folds it onto one line, for console rendering
// of instructions.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(Sanitize(s)), " ")
}

// FilteringWriter wraps an io.Writer and strips control sequences from
// everything written through it.
//
// zerolog's JSON encoder already escapes raw control bytes as \u001b, so the
// writer also strips the escaped forms.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a new FilteringWriter that wraps the given writer.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// escapedControl matches JSON-escaped control characters other than \t and \n.
var escapedControl = regexp.MustCompile(`\\u00(?:0[0-8bcef]|1[0-9a-f]|7f)`) //nolint:gochecknoglobals // Package-level pattern for reuse

// Write implements io.Writer.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := escapedControl.ReplaceAllString(Sanitize(string(p)), Replacement)
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	// Report the original length so callers don't think there was a short write
	return len(p), nil
}
