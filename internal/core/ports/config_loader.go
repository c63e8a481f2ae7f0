package ports

import "go.trai.ch/mono/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load locates mono.yaml starting from the given working directory and
	// returns the parsed project configuration with defaults applied.
	Load(cwd string) (*domain.ProjectConfig, error)

	// DiscoverRoot walks up from cwd to find the workspace root.
	// Returns the directory containing mono.yaml.
	DiscoverRoot(cwd string) (string, error)
}
