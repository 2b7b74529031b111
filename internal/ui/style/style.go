// Package style holds the palette and status marks shared by postcompile's
// terminal output: the progress renderer, the pretty log handler and the unit listing.
package style

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	Accent  = lipgloss.Color("#8B5CF6")
	Muted   = lipgloss.Color("#667085")
	Success = lipgloss.Color("#22A06B")
	Failure = lipgloss.Color("#D93025")
	Notice  = lipgloss.Color("#F59E0B")
)

// Mark is a status icon and the color it is drawn in.
type Mark struct {
	Icon  string
	Color lipgloss.Color
}

// Marks for step outcomes and log levels. Info messages carry no icon.
var (
	Completed = Mark{Icon: "✓", Color: Success}
	Failed    = Mark{Icon: "✗", Color: Failure}
	Warned    = Mark{Icon: "!", Color: Notice}
	Traced    = Mark{Icon: "~", Color: Muted}
	Plain     = Mark{Color: Muted}
)

// Outcome returns the mark for a step that ended with err.
func Outcome(err error) Mark {
	if err != nil {
		return Failed
	}
	return Completed
}

// ForLevel returns the mark for a log record at level.
func ForLevel(level slog.Level) Mark {
	switch {
	case level >= slog.LevelError:
		return Failed
	case level >= slog.LevelWarn:
		return Warned
	case level < slog.LevelInfo:
		return Traced
	default:
		return Plain
	}
}

// Prefix returns msg led by the mark's icon.
func (m Mark) Prefix(msg string) string {
	if m.Icon == "" {
		return msg
	}
	return m.Icon + " " + msg
}
