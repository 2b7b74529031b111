package domain

// Command is an executable unit resolved from a classpath directory.
type Command struct {
	// Unit is the unit name the command was resolved for.
	Unit string
	Path string
	Args []string
	Dir  string
	// Env holds variables set on top of the hermetic base environment.
	Env map[string]string
}
