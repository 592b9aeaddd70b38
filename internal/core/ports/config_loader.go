package ports

import "go.trai.ch/jig/internal/core/domain"

// ConfigLoader defines the interface for loading the pipeline configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration starting from the given working
	// directory and returns the fully defaulted pipeline configuration.
	// A missing config file is not an error; defaults rooted at cwd apply.
	Load(cwd string) (domain.PipelineConfig, error)
}
