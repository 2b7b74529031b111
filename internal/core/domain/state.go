package domain

// State is the lifecycle position of a single invocation.
type State uint8

const (
	// StateIdle is the state before any work has started.
	StateIdle State = iota
	// StateAssemblingClasspath is entered while classpath entries are being built.
	StateAssemblingClasspath
	// StateLoaderReady is entered once the loading scope has been opened.
	StateLoaderReady
	// StateExecutingUnit is entered for each unit being loaded and run.
	StateExecutingUnit
	// StateCompleted is terminal: every unit ran without error.
	StateCompleted
	// StateFailed is terminal: the invocation stopped at its first failure.
	StateFailed
)

// String returns a kebab-case label for logs and span attributes.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAssemblingClasspath:
		return "assembling-classpath"
	case StateLoaderReady:
		return "loader-ready"
	case StateExecutingUnit:
		return "executing-unit"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Report summarises one invocation.
type Report struct {
	Project   string
	Classpath Classpath
	// Completed lists the units that ran to completion, in order.
	Completed []string
	State     State
}
