// Package crate describes the Cargo package a project builds. It reads the
// crate's Cargo.toml where it can, publishes the crate facts under "crate.",
// and declares the default package and dev shell outputs. Composed after a
// toolchain module, it also pins RUSTUP_TOOLCHAIN inside the shell.
package crate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

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
	r.RegisterFactory(&registry.Factory{Type: "crate", New: New})
}

// Config defines the attributes of a crate module block.
type Config struct {
	// Source locates the crate directory relative to the manifest. Defaults
	// to the manifest's own directory.
	Source string `hcl:"source,optional"`
	// Name overrides the crate name. When empty it is read from Cargo.toml.
	Name string `hcl:"name,optional"`
	// Features are Cargo features to build with.
	Features []string `hcl:"features,optional"`
}

// cargoManifest mirrors the `[package]` table of Cargo.toml.
type cargoManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Edition string `toml:"edition"`
	} `toml:"package"`
}

type instance struct {
	name    string
	deps    []string
	cfg     Config
	baseDir string
}

// New builds an instance from its manifest block.
func New(spec hclcfg.ModuleSpec) (module.Module, error) {
	var cfg Config
	if err := spec.Decode(&cfg); err != nil {
		return nil, err
	}
	if cfg.Source == "" {
		cfg.Source = "."
	}
	if dup, ok := attrs.FirstDuplicate(cfg.Features); ok {
		return nil, fmt.Errorf("feature %q listed twice", dup)
	}
	return &instance{name: spec.Name, deps: spec.DependsOn, cfg: cfg, baseDir: spec.BaseDir}, nil
}

func (i *instance) Name() string {
	return i.name
}

func (i *instance) DependsOn() []string {
	return i.deps
}

func (i *instance) Contribute(ctx context.Context, target platform.Platform, view *attrs.Store) (*attrs.Delta, error) {
	logger := ctxlog.FromContext(ctx)

	if info, err := os.Stat(i.sourceDir()); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("crate source %q is not a directory", i.cfg.Source)
	}

	pkg, readErr := i.readCargoManifest()
	if readErr != nil && !errors.Is(readErr, os.ErrNotExist) {
		return nil, readErr
	}

	name := i.cfg.Name
	if name == "" {
		if readErr != nil {
			return nil, fmt.Errorf("no name configured and %w", readErr)
		}
		if pkg.Package.Name == "" {
			return nil, fmt.Errorf("no name configured and %s names no package", i.cargoPath())
		}
		name = pkg.Package.Name
	}
	logger.Debug("Crate described.", "crate", name, "target", target.RustTriple())

	d := attrs.NewDelta().
		Set("crate.name", attrs.StringVal(name)).
		Set("crate.source", attrs.StringVal(filepath.Clean(i.cfg.Source))).
		Set("crate.target", attrs.StringVal(target.RustTriple())).
		Set("outputs.packages.default",
			attrs.Artifact(attrs.ArtifactRef{Role: attrs.RolePackage, Name: name})).
		Set("outputs.devShell",
			attrs.Artifact(attrs.ArtifactRef{Role: attrs.RoleShell, Name: "default"}))

	// When a toolchain module ran earlier, pin the shell's rustup to it.
	if channel, ok := view.GetString(attrs.MustPath("toolchain.channel")); ok {
		d.Set("shell.env.RUSTUP_TOOLCHAIN", attrs.StringVal(channel))
	}

	if len(i.cfg.Features) > 0 {
		d.Set("crate.features", attrs.StringsVal(i.cfg.Features...))
	}
	if readErr == nil {
		if pkg.Package.Version != "" {
			d.Set("crate.version", attrs.StringVal(pkg.Package.Version))
		}
		if pkg.Package.Edition != "" {
			d.Set("crate.edition", attrs.StringVal(pkg.Package.Edition))
		}
	}
	return d, nil
}

func (i *instance) sourceDir() string {
	dir := i.cfg.Source
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(i.baseDir, dir)
	}
	return dir
}

func (i *instance) cargoPath() string {
	return filepath.Join(i.sourceDir(), "Cargo.toml")
}

func (i *instance) readCargoManifest() (*cargoManifest, error) {
	path := i.cargoPath()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var pkg cargoManifest
	if err := toml.Unmarshal(raw, &pkg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &pkg, nil
}
