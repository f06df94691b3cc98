package app

import (
	"io"
	"log/slog"

	"github.com/stratabuild/strata/internal/hclcfg"
	"github.com/stratabuild/strata/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry

	// manifest and set are populated by Load.
	manifest *hclcfg.Manifest
	set      *registry.Set
}

// New is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Loading the manifest is a separate step; see Load.
func New(outW io.Writer, config *Config, modules ...registry.Registrant) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All module factories registered.", "count", len(modules))

	return &App{
		outW:     outW,
		logger:   logger,
		config:   config,
		registry: reg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Manifest returns the loaded manifest, or nil before Load has run.
func (a *App) Manifest() *hclcfg.Manifest {
	return a.manifest
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
