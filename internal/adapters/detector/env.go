// Package detector provides environment detection for log format selection.
package detector

import (
	"os"

	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// LogFormat represents how log records and progress are written.
type LogFormat int

const (
	// FormatAuto detects the appropriate format.
	FormatAuto LogFormat = iota
	// FormatPretty writes colored, human-readable lines and progress.
	FormatPretty
	// FormatJSON writes one JSON record per line and no progress.
	FormatJSON
)

// ErrUnknownLogFormat is returned for an unsupported --log-format value.
var ErrUnknownLogFormat = zerr.New("unknown log format, expected auto, pretty or json")

// String returns the flag value of the format.
func (f LogFormat) String() string {
	switch f {
	case FormatPretty:
		return "pretty"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended format. Terminals and CI logs are read
// by people; anything else is assumed to be consumed by a tool.
func DetectEnvironment() LogFormat {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if isTTY || isCI {
		return FormatPretty
	}
	return FormatJSON
}

// ParseFormat parses a --log-format value. An empty value means auto.
func ParseFormat(userFlag string) (LogFormat, error) {
	switch userFlag {
	case "auto", "":
		return FormatAuto, nil
	case "pretty":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, zerr.With(zerr.Wrap(ErrUnknownLogFormat, "invalid log format"), "log_format", userFlag)
	}
}

// ResolveFormat applies the user's choice to the detected format.
func ResolveFormat(autoDetected, userChoice LogFormat) LogFormat {
	if userChoice == FormatAuto {
		return autoDetected
	}
	return userChoice
}
