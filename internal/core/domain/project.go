package domain

import "strings"

// Artifact is a resolved dependency of a project.
type Artifact struct {
	// ID is an optional coordinate used in logs.
	ID string
	// File is the artifact location on disk.
	File string
}

// Project is the host build tool's view of one project.
type Project struct {
	Name string
	// Dir is the directory relative paths are resolved against.
	Dir             string
	OutputDirectory string
	Artifacts       []Artifact
}

// Configuration holds the user-supplied options of one invocation.
type Configuration struct {
	ExecutionUnits      []string
	AdditionalResources []string
}

// UnitNames returns the configured unit names trimmed of surrounding whitespace,
// with blank entries dropped. Order and duplicates are preserved.
func (c Configuration) UnitNames() []string {
	names := make([]string, 0, len(c.ExecutionUnits))
	for _, n := range c.ExecutionUnits {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Invocation pairs a project with the configuration to run against it.
type Invocation struct {
	Project       Project
	Configuration Configuration
}
