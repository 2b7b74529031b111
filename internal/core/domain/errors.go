package domain

import "go.trai.ch/zerr"

var (
	// ErrClasspathInvalid is returned when a classpath location cannot be converted to a URL.
	ErrClasspathInvalid = zerr.New("class path is invalid")

	// ErrNoExecutionClassesConfigured is returned when no execution unit names remain after trimming.
	ErrNoExecutionClassesConfigured = zerr.New("no execution classes configured")

	// ErrExecutionClassNotFound is returned when a unit name is not visible through the loading scope.
	ErrExecutionClassNotFound = zerr.New("execution class not found")

	// ErrExecutionClassNotRunnable is returned when a unit type does not satisfy unit.Runnable.
	ErrExecutionClassNotRunnable = zerr.New("execution class is not runnable")

	// ErrExecutionClassNotConstructible is returned when a unit type has no zero-argument constructor.
	ErrExecutionClassNotConstructible = zerr.New("execution class has no accessible zero-argument constructor")

	// ErrExecutionClassInitFailed is returned when a unit constructor fails.
	ErrExecutionClassInitFailed = zerr.New("execution class failed to initialize")

	// ErrExecutionUnitFailed is returned when a unit fails while running.
	ErrExecutionUnitFailed = zerr.New("execution unit failed")

	// ErrScopeClosed is returned when a loading scope is used after it was released.
	ErrScopeClosed = zerr.New("loading scope is closed")

	// ErrManifestReadFailed is returned when a unit manifest cannot be read from a classpath entry.
	ErrManifestReadFailed = zerr.New("failed to read unit manifest")

	// ErrManifestParseFailed is returned when a unit manifest cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse unit manifest")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no config file can be found.
	ErrConfigNotFound = zerr.New("could not find postcompile.yaml or postcompile.work.yaml")

	// ErrMissingOutputDirectory is returned when a project does not declare its output directory.
	ErrMissingOutputDirectory = zerr.New("missing output directory")

	// ErrMissingProjectName is returned in workspace mode when a project file has no project name.
	ErrMissingProjectName = zerr.New("missing project name")

	// ErrInvalidProjectName is returned when a project name is invalid.
	ErrInvalidProjectName = zerr.New("project name can only contain alphanumeric characters, hyphens, dots and underscores")

	// ErrDuplicateProjectName is returned when multiple projects share the same name in a workspace.
	ErrDuplicateProjectName = zerr.New("duplicate project name")

	// ErrProjectNotFound is returned when a requested project is not part of the loaded configuration.
	ErrProjectNotFound = zerr.New("project not found")

	// ErrInvalidArtifact is returned when an artifact entry declares no file.
	ErrInvalidArtifact = zerr.New("artifact has no file")

	// ErrInvocationFailed is returned when at least one invocation failed.
	ErrInvocationFailed = zerr.New("post-compile invocation failed")

	// ErrCommandFailed is returned when an executable unit exits with a non-zero status.
	ErrCommandFailed = zerr.New("command failed")
)
