package domain

import "errors"

// FailureKind identifies the stage at which an invocation failed.
type FailureKind uint8

const (
	// KindClasspathInvalid means a classpath location could not be converted to a URL.
	KindClasspathInvalid FailureKind = iota + 1
	// KindNoExecutionClassesConfigured means no unit names remained after trimming.
	KindNoExecutionClassesConfigured
	// KindExecutionClassNotFound means a unit name was not visible through the loading scope.
	KindExecutionClassNotFound
	// KindExecutionClassNotRunnable means the unit type lacks the Run capability.
	KindExecutionClassNotRunnable
	// KindExecutionClassNotConstructible means the unit type has no zero-argument constructor.
	KindExecutionClassNotConstructible
	// KindExecutionClassInitFailed means the unit constructor returned an error.
	KindExecutionClassInitFailed
	// KindExecutionUnitFailed means the unit failed while running, or failed in an unclassified way.
	KindExecutionUnitFailed
)

var kindNames = map[FailureKind]string{
	KindClasspathInvalid:               "ClasspathInvalid",
	KindNoExecutionClassesConfigured:   "NoExecutionClassesConfigured",
	KindExecutionClassNotFound:         "ExecutionClassNotFound",
	KindExecutionClassNotRunnable:      "ExecutionClassNotRunnable",
	KindExecutionClassNotConstructible: "ExecutionClassNotConstructible",
	KindExecutionClassInitFailed:       "ExecutionClassInitFailed",
	KindExecutionUnitFailed:            "ExecutionUnitFailed",
}

// String returns the name of the kind.
func (k FailureKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Sentinel returns the package-level error matching the kind.
func (k FailureKind) Sentinel() error {
	switch k {
	case KindClasspathInvalid:
		return ErrClasspathInvalid
	case KindNoExecutionClassesConfigured:
		return ErrNoExecutionClassesConfigured
	case KindExecutionClassNotFound:
		return ErrExecutionClassNotFound
	case KindExecutionClassNotRunnable:
		return ErrExecutionClassNotRunnable
	case KindExecutionClassNotConstructible:
		return ErrExecutionClassNotConstructible
	case KindExecutionClassInitFailed:
		return ErrExecutionClassInitFailed
	default:
		return ErrExecutionUnitFailed
	}
}

// IsUnitFailure reports whether the failure was raised by a running unit rather than
// by configuration or loading.
func (k FailureKind) IsUnitFailure() bool {
	return k == KindExecutionUnitFailed
}

// Failure is the terminal error of an invocation.
// errors.Is matches both the kind's sentinel and the underlying cause.
type Failure struct {
	Kind FailureKind
	// Unit is the failing unit name, empty for failures that precede unit loading.
	Unit string
	// Classpath holds the entries accumulated before a ClasspathInvalid failure.
	Classpath Classpath
	Err       error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Message()
	}
	return f.Message() + ": " + f.Err.Error()
}

// Message returns the failure message without its cause.
func (f *Failure) Message() string {
	msg := f.Kind.Sentinel().Error()
	if f.Unit != "" {
		msg += ": " + f.Unit
	}
	return msg
}

// Metadata returns structured details for log rendering.
func (f *Failure) Metadata() map[string]any {
	md := map[string]any{"kind": f.Kind.String()}
	if f.Kind == KindClasspathInvalid {
		md["classpath"] = f.Classpath.Strings()
	}
	return md
}

// Cause returns the underlying error.
func (f *Failure) Cause() error {
	return f.Err
}

// Unwrap exposes the kind sentinel and the cause to errors.Is and errors.As.
func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind.Sentinel()}
	}
	return []error{f.Kind.Sentinel(), f.Err}
}

// NewFailure builds a Failure of the given kind.
func NewFailure(kind FailureKind, unit string, err error) *Failure {
	return &Failure{Kind: kind, Unit: unit, Err: err}
}

// Failures returns every Failure reachable from err, including those joined with errors.Join.
func Failures(err error) []*Failure {
	var out []*Failure
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if f, ok := e.(*Failure); ok {
			out = append(out, f)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		default:
			walk(errors.Unwrap(e))
		}
	}
	walk(err)
	return out
}

// ExitCode maps an error returned by a run to a process exit status.
// Unit failures exit with 1, configuration and loading errors with 2.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	failures := Failures(err)
	if len(failures) == 0 {
		return 2
	}
	for _, f := range failures {
		if !f.Kind.IsUnitFailure() {
			return 2
		}
	}
	return 1
}
