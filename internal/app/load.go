package app

import (
	"context"
	"fmt"

	"github.com/stratabuild/strata/internal/ctxlog"
	"github.com/stratabuild/strata/internal/hclcfg"
)

// Load reads the manifest and instantiates every declared module through the
// registry. It must run before Compose.
func (a *App) Load(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger
	logger.Debug("Loading manifest...", "manifest_path", a.config.ManifestPath)

	manifest, err := hclcfg.NewLoader().Load(ctx, a.config.ManifestPath)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	logger.Info("Manifest loaded successfully.",
		"project", manifest.Project.Name,
		"modules_found", len(manifest.Modules),
		"platforms_pinned", len(manifest.Platforms))

	set, err := a.registry.Build(manifest.Modules)
	if err != nil {
		return fmt.Errorf("failed to build modules: %w", err)
	}
	logger.Debug("Module instances built.", "count", set.Len())

	a.manifest = manifest
	a.set = set
	return nil
}
