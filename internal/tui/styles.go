// Package tui provides terminal rendering for taskcycle.
//
// This package provides a centralized style system using Lip Gloss. All colors
// use AdaptiveColor for light/dark terminal support.
//
// # Semantic Colors
//
//   - ColorPrimary (Blue): labels and headers
//   - ColorSuccess (Green): success states
//   - ColorWarning (Yellow): lookup gaps and warnings
//   - ColorError (Red): errors
//   - ColorMuted (Gray): secondary text such as task ids
//
// # NO_COLOR Support
//
// Call CheckNoColor() at the start of commands to respect the NO_COLOR environment
// variable. Colors are also disabled when TERM=dumb.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/mrz1836/taskcycle/internal/domain"
	"github.com/mrz1836/taskcycle/internal/logging"
)

//nolint:gochecknoglobals // Intentional package-level constants for styling API
var (
	// ColorPrimary is blue, used for labels and headers.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for success states.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for fallbacks and warnings.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for errors.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies dim/faint formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// TransitionArrow separates the two positions of a rendered transition.
const TransitionArrow = "→"

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Cell: lipgloss.NewStyle(),
	}
}

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles creates common output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Info: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Dim: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// DescriptorStyles holds the styles for one rendered task descriptor.
type DescriptorStyles struct {
	ID         lipgloss.Style
	Label      lipgloss.Style
	Transition lipgloss.Style
	Fallback   lipgloss.Style
}

// NewDescriptorStyles creates descriptor styles.
func NewDescriptorStyles() *DescriptorStyles {
	return &DescriptorStyles{
		ID:         lipgloss.NewStyle().Foreground(ColorMuted),
		Label:      lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
		Transition: lipgloss.NewStyle().Bold(true),
		Fallback:   lipgloss.NewStyle().Foreground(ColorWarning),
	}
}

// RenderDescriptor renders one task on a single line:
//
//	#24  TurnKnob  1 → 2  Turn the knob to position 2.
//
// A fallback draw is suffixed with "(fallback)". The instruction is
// sanitized, so catalog text cannot inject terminal control sequences.
func (s *DescriptorStyles) RenderDescriptor(d domain.Descriptor) string {
	parts := []string{
		s.ID.Render(fmt.Sprintf("#%d", d.TaskID)),
		s.Label.Render(d.Label),
	}
	if d.Transition != nil {
		parts = append(parts, s.Transition.Render(FormatTransition(*d.Transition)))
	}
	parts = append(parts, logging.SingleLine(d.Instruction))
	if d.Fallback {
		parts = append(parts, s.Fallback.Render("(fallback)"))
	}
	return strings.Join(parts, "  ")
}

// FormatTransition renders a transition as "from → to".
func FormatTransition(tr domain.Transition) string {
	return fmt.Sprintf("%d %s %d", tr.From, TransitionArrow, tr.To)
}

// CheckNoColor respects the NO_COLOR environment variable.
// Call this at the start of commands that output styled text.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns true if the terminal supports colors.
// Returns false if NO_COLOR is set (any value including empty string) or TERM=dumb.
// This follows the NO_COLOR standard: https://no-color.org/
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}

// padRight pads s with spaces to width display columns.
func padRight(s string, width int) string {
	n := runewidth.StringWidth(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
