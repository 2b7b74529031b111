package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Debug logs a diagnostic message. It is dropped unless debug logging is enabled.
	Debug(msg string)
	// DebugEnabled reports whether debug messages are emitted, so callers can skip
	// building expensive traces.
	DebugEnabled() bool
	Info(msg string)
	Warn(msg string)
	Error(err error)
}
