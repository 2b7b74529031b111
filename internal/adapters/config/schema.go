package config

import "gopkg.in/yaml.v3"

// Workfile represents the structure of the postcompile.work.yaml configuration file.
type Workfile struct {
	Version  string   `yaml:"version"`
	Root     string   `yaml:"root"`
	Projects []string `yaml:"projects"`
}

// ProjectFile represents the structure of the postcompile.yaml configuration file.
type ProjectFile struct {
	Version             string        `yaml:"version"`
	Project             string        `yaml:"project"`
	Root                string        `yaml:"root"`
	OutputDirectory     string        `yaml:"outputDirectory"`
	Artifacts           []ArtifactDTO `yaml:"artifacts"`
	ExecutionClasses    []string      `yaml:"executionClasses"`
	AdditionalResources []string      `yaml:"additionalResources"`
}

// ArtifactDTO represents an artifact entry. It is either a bare path or a mapping
// with an id and a path.
type ArtifactDTO struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *ArtifactDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&a.Path)
	}

	type plain ArtifactDTO
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*a = ArtifactDTO(p)
	return nil
}
