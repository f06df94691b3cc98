// Package formatter wires code formatting into a composition. It settles on
// a format command, asks the toolchain for the rustup-distributed tools it
// needs, routes the rest into the dev shell's packages, and declares the
// formatter output.
package formatter

import (
	"context"
	"fmt"

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
	r.RegisterFactory(&registry.Factory{Type: "fmt", New: New})
}

// rustupTools are the formatting tools rustup distributes as components.
// Anything else is expected to arrive through the dev shell.
var rustupTools = map[string]string{
	"rustfmt": "rustfmt",
}

// Config defines the attributes of a fmt module block.
type Config struct {
	// Tools are the formatters to make available, "rustfmt" by default.
	Tools []string `hcl:"tools,optional"`
	// Command is the command the fmt operation runs, "cargo fmt" by default.
	Command string `hcl:"command,optional"`
}

type instance struct {
	name string
	deps []string
	cfg  Config
}

// New builds an instance from its manifest block.
func New(spec hclcfg.ModuleSpec) (module.Module, error) {
	var cfg Config
	if err := spec.Decode(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.Tools) == 0 {
		cfg.Tools = []string{"rustfmt"}
	}
	if cfg.Command == "" {
		cfg.Command = "cargo fmt"
	}
	if dup, ok := attrs.FirstDuplicate(cfg.Tools); ok {
		return nil, fmt.Errorf("tool %q listed twice", dup)
	}
	return &instance{name: spec.Name, deps: spec.DependsOn, cfg: cfg}, nil
}

func (i *instance) Name() string {
	return i.name
}

func (i *instance) DependsOn() []string {
	return i.deps
}

func (i *instance) Contribute(ctx context.Context, target platform.Platform, view *attrs.Store) (*attrs.Delta, error) {
	logger := ctxlog.FromContext(ctx)

	var components, packages []string
	for _, tool := range i.cfg.Tools {
		if component, ok := rustupTools[tool]; ok {
			components = append(components, component)
		} else {
			packages = append(packages, tool)
		}
	}
	logger.Debug("Formatter configured.", "command", i.cfg.Command, "tools", i.cfg.Tools)

	d := attrs.NewDelta().
		Set("fmt.tools", attrs.StringsVal(i.cfg.Tools...)).
		Set("fmt.command", attrs.StringVal(i.cfg.Command)).
		Set("outputs.formatter", attrs.Artifact(attrs.ArtifactRef{Role: attrs.RoleFormatter, Name: i.name}))

	if len(components) > 0 {
		d.Set("toolchain.components", attrs.StringsVal(components...))
	}
	if len(packages) > 0 {
		d.Set("shell.packages", attrs.StringsVal(packages...))
	}
	return d, nil
}
