package app

import (
	"context"
	"fmt"

	"github.com/stratabuild/strata/internal/compose"
	"github.com/stratabuild/strata/internal/ctxlog"
	"github.com/stratabuild/strata/internal/platform"
)

// Compose evaluates the loaded module set for the given platforms. A nil or
// empty target list means the manifest's declared platforms, falling back to
// the host. Per-platform evaluation failures live inside the returned set;
// the error covers manifest-level problems only.
func (a *App) Compose(ctx context.Context, targets []platform.Platform) (*compose.ResultSet, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Compose method started.")

	if a.set == nil {
		return nil, fmt.Errorf("manifest is not loaded, call Load first")
	}
	if len(targets) == 0 {
		var err error
		targets, err = a.manifest.TargetPlatforms()
		if err != nil {
			return nil, err
		}
	}
	if a.set.Len() == 0 {
		a.logger.Warn("No modules declared, composition will be empty.")
	}

	engine := compose.New(a.set)
	engine.Parallelism = a.config.Parallelism

	a.logger.Info("🚀 Starting composition...", "platforms", len(targets), "modules", a.set.Len())
	results, err := engine.Compose(ctx, targets)
	if err != nil {
		return nil, fmt.Errorf("composition failed: %w", err)
	}
	a.logger.Info("🏁 Composition finished.")

	a.logger.Debug("App.Compose method finished.")
	return results, nil
}
