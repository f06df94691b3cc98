// Package hooks turns a list of named pre-commit checks into concrete
// commands. Each check publishes its command under "checks." and an output
// handle under "outputs.checks.", and pulls in whatever toolchain component
// or shell package it needs to actually run.
package hooks

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
	r.RegisterFactory(&registry.Factory{Type: "hooks", New: New})
}

// check describes one catalog entry: the command it runs plus the toolchain
// component or shell package it depends on.
type check struct {
	command   string
	component string
	pkg       string
}

var catalog = map[string]check{
	"fmt-check": {command: "cargo fmt --check", component: "rustfmt"},
	"clippy":    {command: "cargo clippy --all-targets -- -D warnings", component: "clippy"},
	"test":      {command: "cargo test"},
	"doc":       {command: "cargo doc --no-deps"},
	"audit":     {command: "cargo audit", pkg: "cargo-audit"},
}

func knownChecks() string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Config defines the attributes of a hooks module block.
type Config struct {
	// PreCommit names the checks to run before a commit, in order.
	PreCommit []string `hcl:"pre_commit,optional"`
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
	if dup, ok := attrs.FirstDuplicate(cfg.PreCommit); ok {
		return nil, fmt.Errorf("check %q listed twice", dup)
	}
	for _, name := range cfg.PreCommit {
		if _, ok := catalog[name]; !ok {
			return nil, fmt.Errorf("unknown check %q (known: %s)", name, knownChecks())
		}
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
	logger.Debug("Hooks configured.", "checks", i.cfg.PreCommit)

	d := attrs.NewDelta()
	if len(i.cfg.PreCommit) == 0 {
		return d, nil
	}
	d.Set("hooks.pre_commit", attrs.StringsVal(i.cfg.PreCommit...))

	var components, packages []string
	for _, name := range i.cfg.PreCommit {
		c := catalog[name]
		command := c.command
		// When a fmt module ran earlier, check against its configured
		// command instead of the catalog default.
		if name == "fmt-check" {
			if base, ok := view.GetString(attrs.MustPath("fmt.command")); ok {
				command = base + " --check"
			}
		}
		d.Put(attrs.Path{"checks", name, "command"}, attrs.StringVal(command))
		d.Put(attrs.Path{"outputs", "checks", name},
			attrs.Artifact(attrs.ArtifactRef{Role: attrs.RoleCheck, Name: name}))
		if c.component != "" {
			components = append(components, c.component)
		}
		if c.pkg != "" {
			packages = append(packages, c.pkg)
		}
	}
	if len(components) > 0 {
		d.Set("toolchain.components", attrs.StringsVal(components...))
	}
	if len(packages) > 0 {
		d.Set("shell.packages", attrs.StringsVal(packages...))
	}
	return d, nil
}
