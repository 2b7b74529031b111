package domain

const (
	// ProjectFileName is the name of the project configuration file.
	ProjectFileName = "postcompile.yaml"

	// WorkFileName is the name of the workspace configuration file.
	WorkFileName = "postcompile.work.yaml"

	// ManifestFileName is the unit manifest read from the root of a classpath entry.
	ManifestFileName = "postcompile-units.yaml"

	// EnvClasspath carries the local classpath entries to executable units.
	EnvClasspath = "POSTCOMPILE_CLASSPATH"

	// EnvOutputDir carries the project's output directory to executable units.
	EnvOutputDir = "POSTCOMPILE_OUTPUT_DIR"

	// EnvUnit carries the unit name to executable units.
	EnvUnit = "POSTCOMPILE_UNIT"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
