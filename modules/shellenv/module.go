// Package shellenv assembles the development shell: the packages available
// inside it, its environment variables, and the hook script that runs when it
// opens. It declares the devShell output other tools resolve.
package shellenv

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/ctxlog"
	"github.com/stratabuild/strata/internal/hclcfg"
	"github.com/stratabuild/strata/internal/module"
	"github.com/stratabuild/strata/internal/platform"
	"github.com/stratabuild/strata/internal/registry"
)

// Module implements the registry.Registrant interface for this package.
type Module struct{}

// Register installs the factory with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory(&registry.Factory{Type: "shell", New: New})
}

// Config defines the attributes of a shell module block.
type Config struct {
	// Packages are extra tools to make available inside the shell.
	Packages []string `hcl:"packages,optional"`
	// Env sets environment variables inside the shell.
	Env map[string]string `hcl:"env,optional"`
	// Hook is a script run when the shell opens.
	Hook string `hcl:"hook,optional"`
}

type instance struct {
	name string
	deps []string
	cfg  Config
	// envKeys holds Env's keys in sorted order so contributions replay
	// identically run to run.
	envKeys []string
}

// New builds an instance from its manifest block.
func New(spec hclcfg.ModuleSpec) (module.Module, error) {
	var cfg Config
	if err := spec.Decode(&cfg); err != nil {
		return nil, err
	}
	if dup, ok := attrs.FirstDuplicate(cfg.Packages); ok {
		return nil, fmt.Errorf("package %q listed twice", dup)
	}
	keys := make([]string, 0, len(cfg.Env))
	for k := range cfg.Env {
		if err := attrs.ValidateSegment(k); err != nil {
			return nil, fmt.Errorf("env variable name: %w", err)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &instance{name: spec.Name, deps: spec.DependsOn, cfg: cfg, envKeys: keys}, nil
}

func (i *instance) Name() string {
	return i.name
}

func (i *instance) DependsOn() []string {
	return i.deps
}

func (i *instance) Contribute(ctx context.Context, target platform.Platform, view *attrs.Store) (*attrs.Delta, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Shell assembled.", "packages", len(i.cfg.Packages), "env", len(i.envKeys))

	// The same ref crate registers; identical rewrites merge, so either
	// module alone or both together produce the output.
	d := attrs.NewDelta().
		Set("shell.env.STRATA_PLATFORM", attrs.StringVal(target.String())).
		Set("outputs.devShell", attrs.Artifact(attrs.ArtifactRef{Role: attrs.RoleShell, Name: "default"}))

	if len(i.cfg.Packages) > 0 {
		d.Set("shell.packages", attrs.StringsVal(i.cfg.Packages...))
	}
	for _, k := range i.envKeys {
		d.Put(attrs.Path{"shell", "env", k}, attrs.StringVal(i.cfg.Env[k]))
	}
	if hook := strings.TrimSpace(i.cfg.Hook); hook != "" {
		d.Set("shell.hooks", attrs.ListVal(attrs.StringVal(hook)))
	}
	return d, nil
}
