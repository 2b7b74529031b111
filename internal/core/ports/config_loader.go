package ports

import "go.trai.ch/postcompile/internal/core/domain"

// ConfigLoader defines the interface for loading invocations from configuration files.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the configuration starting at cwd and returns one invocation per project.
	Load(cwd string) ([]*domain.Invocation, error)

	// LoadFile reads the given project or workspace file.
	LoadFile(path string) ([]*domain.Invocation, error)

	// DiscoverRoot walks up from cwd to find the workspace root.
	// Returns the directory containing postcompile.work.yaml or postcompile.yaml.
	DiscoverRoot(cwd string) (string, error)
}
