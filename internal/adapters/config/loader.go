// Package config provides the configuration loader for postcompile.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/postcompile/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using YAML files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Mode represents the configuration mode of postcompile.
type Mode string

const (
	// ModeWorkspace indicates that postcompile has a workfile.
	ModeWorkspace Mode = "workspace"
	// ModeStandalone indicates that postcompile has only one project file.
	ModeStandalone Mode = "standalone"
)

var validProjectNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Load discovers the configuration from cwd and returns one invocation per project.
func (l *Loader) Load(cwd string) ([]*domain.Invocation, error) {
	configPath, mode, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}
	return l.load(configPath, mode)
}

// LoadFile reads the given project or workspace file.
func (l *Loader) LoadFile(path string) ([]*domain.Invocation, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	mode := ModeStandalone
	if filepath.Base(abs) == domain.WorkFileName {
		mode = ModeWorkspace
	}
	return l.load(abs, mode)
}

// DiscoverRoot walks up from cwd and returns the directory holding the configuration.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, _, err := l.findConfiguration(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

func (l *Loader) load(configPath string, mode Mode) ([]*domain.Invocation, error) {
	switch mode {
	case ModeStandalone:
		inv, err := l.loadProjectFile(configPath)
		if err != nil {
			return nil, err
		}
		return []*domain.Invocation{inv}, nil
	case ModeWorkspace:
		return l.loadWorkfile(configPath)
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "unsupported configuration mode"), "mode", mode)
	}
}

func (l *Loader) findConfiguration(cwd string) (string, Mode, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", "", zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "cwd", cwd)
	}
	var standaloneCandidate string

	for {
		workfilePath := filepath.Join(currentDir, domain.WorkFileName)
		if _, err := os.Stat(workfilePath); err == nil {
			return workfilePath, ModeWorkspace, nil
		}

		if standaloneCandidate == "" {
			projectPath := filepath.Join(currentDir, domain.ProjectFileName)
			if _, err := os.Stat(projectPath); err == nil {
				standaloneCandidate = projectPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	if standaloneCandidate != "" {
		return standaloneCandidate, ModeStandalone, nil
	}

	return "", "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no configuration found"), "cwd", cwd)
}

func (l *Loader) loadProjectFile(configPath string) (*domain.Invocation, error) {
	var file ProjectFile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	dir := resolveRoot(configPath, file.Root)
	name := file.Project
	if name == "" {
		name = filepath.Base(dir)
	} else if err := validateProjectName(name, configPath); err != nil {
		return nil, err
	}

	return buildInvocation(name, dir, &file)
}

func (l *Loader) loadWorkfile(configPath string) ([]*domain.Invocation, error) {
	var workfile Workfile
	if err := readAndUnmarshalYAML(configPath, &workfile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	workspaceRoot := resolveRoot(configPath, workfile.Root)

	projectPaths, err := l.resolveProjectPaths(workspaceRoot, workfile.Projects)
	if err != nil {
		return nil, err
	}

	// Track project names to ensure uniqueness
	projectNames := make(map[string]string)
	invocations := make([]*domain.Invocation, 0, len(projectPaths))

	for _, projectPath := range projectPaths {
		inv, err := l.processProject(workspaceRoot, projectPath, projectNames)
		if err != nil {
			return nil, err
		}
		if inv != nil {
			invocations = append(invocations, inv)
		}
	}

	return invocations, nil
}

func (l *Loader) resolveProjectPaths(workspaceRoot string, patterns []string) ([]string, error) {
	// A map deduplicates paths matched by several globs
	projectPaths := make(map[string]struct{})

	for _, pattern := range patterns {
		absPattern := filepath.Join(workspaceRoot, pattern)

		matches, err := filepath.Glob(absPattern)
		if err != nil {
			return nil, zerr.Wrap(err, "glob pattern failed: "+pattern)
		}

		for _, match := range matches {
			projectPaths[match] = struct{}{}
		}
	}

	sortedPaths := make([]string, 0, len(projectPaths))
	for p := range projectPaths {
		sortedPaths = append(sortedPaths, p)
	}
	slices.Sort(sortedPaths)

	return sortedPaths, nil
}

func (l *Loader) processProject(
	workspaceRoot, projectPath string,
	projectNames map[string]string,
) (*domain.Invocation, error) {
	relPath, _ := filepath.Rel(workspaceRoot, projectPath)

	// Glob returns files too
	info, err := os.Stat(projectPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	projectFilePath := filepath.Join(projectPath, domain.ProjectFileName)
	if _, statErr := os.Stat(projectFilePath); os.IsNotExist(statErr) {
		l.Logger.Warn(fmt.Sprintf("%s missing in project %s, skipping", domain.ProjectFileName, relPath))
		return nil, nil
	}

	var file ProjectFile
	if err := readAndUnmarshalYAML(projectFilePath, &file); err != nil {
		return nil, zerr.With(err, "directory", relPath)
	}

	if file.Project == "" {
		return nil, zerr.With(domain.ErrMissingProjectName, "directory", relPath)
	}
	if err := validateProjectName(file.Project, relPath); err != nil {
		return nil, err
	}

	if existingPath, exists := projectNames[file.Project]; exists {
		err := zerr.With(domain.ErrDuplicateProjectName, "project_name", file.Project)
		err = zerr.With(err, "first_occurrence", existingPath)
		err = zerr.With(err, "duplicate_at", relPath)
		return nil, err
	}
	projectNames[file.Project] = relPath

	if file.Root != "" {
		l.Logger.Warn(fmt.Sprintf("'root' defined in %s is ignored in workspace mode", relPath))
	}

	return buildInvocation(file.Project, filepath.Clean(projectPath), &file)
}

func validateProjectName(name, location string) error {
	if !validProjectNameRegex.MatchString(name) {
		err := zerr.With(domain.ErrInvalidProjectName, "project_name", name)
		return zerr.With(err, "directory", location)
	}
	return nil
}

// buildInvocation maps a project file onto an invocation. Paths are kept as
// written; they are resolved against dir when the classpath is assembled.
func buildInvocation(name, dir string, file *ProjectFile) (*domain.Invocation, error) {
	artifacts := make([]domain.Artifact, 0, len(file.Artifacts))
	for i, a := range file.Artifacts {
		if a.Path == "" {
			err := zerr.With(domain.ErrInvalidArtifact, "project", name)
			return nil, zerr.With(err, "index", i)
		}
		artifacts = append(artifacts, domain.Artifact{ID: a.ID, File: a.Path})
	}

	return &domain.Invocation{
		Project: domain.Project{
			Name:            name,
			Dir:             dir,
			OutputDirectory: file.OutputDirectory,
			Artifacts:       artifacts,
		},
		Configuration: domain.Configuration{
			ExecutionUnits:      file.ExecutionClasses,
			AdditionalResources: file.AdditionalResources,
		},
	}, nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
