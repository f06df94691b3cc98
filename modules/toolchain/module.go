// Package toolchain pins the Rust toolchain a project composes against. The
// pin can live inline in the manifest or be read from the repository's
// rust-toolchain.toml so the manifest and rustup never disagree.
package toolchain

import (
	"context"
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
	r.RegisterFactory(&registry.Factory{Type: "toolchain", New: New})
}

// Config defines the attributes of a toolchain module block.
type Config struct {
	// Channel pins the release channel inline, e.g. "1.75" or "stable".
	Channel string `hcl:"channel,optional"`
	// ChannelFile reads the pin from a rust-toolchain.toml instead.
	// Mutually exclusive with Channel.
	ChannelFile string `hcl:"channel_file,optional"`
	// Components are rustup components to install on top of the pin.
	Components []string `hcl:"components,optional"`
	// Profile selects the rustup profile, e.g. "minimal".
	Profile string `hcl:"profile,optional"`
}

// channelFile mirrors the `[toolchain]` table of rust-toolchain.toml.
type channelFile struct {
	Toolchain struct {
		Channel    string   `toml:"channel"`
		Components []string `toml:"components"`
		Profile    string   `toml:"profile"`
	} `toml:"toolchain"`
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
	if cfg.Channel != "" && cfg.ChannelFile != "" {
		return nil, fmt.Errorf("channel and channel_file are mutually exclusive")
	}
	if dup, ok := attrs.FirstDuplicate(cfg.Components); ok {
		return nil, fmt.Errorf("component %q listed twice", dup)
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

	channel := i.cfg.Channel
	components := append([]string(nil), i.cfg.Components...)
	profile := i.cfg.Profile

	if i.cfg.ChannelFile != "" {
		pin, err := i.readChannelFile()
		if err != nil {
			return nil, err
		}
		if pin.Toolchain.Channel == "" {
			return nil, fmt.Errorf("%s pins no channel", i.cfg.ChannelFile)
		}
		channel = pin.Toolchain.Channel
		components = append(append([]string(nil), pin.Toolchain.Components...), components...)
		if profile == "" {
			profile = pin.Toolchain.Profile
		}
		logger.Debug("Toolchain pin read from file.", "file", i.cfg.ChannelFile, "channel", channel)
	}
	if channel == "" {
		channel = "stable"
	}
	if dup, ok := attrs.FirstDuplicate(components); ok {
		return nil, fmt.Errorf("component %q pinned twice", dup)
	}

	d := attrs.NewDelta().Set("toolchain.channel", attrs.StringVal(channel))
	if len(components) > 0 {
		d.Set("toolchain.components", attrs.StringsVal(components...))
	}
	if profile != "" {
		d.Set("toolchain.profile", attrs.StringVal(profile))
	}
	return d, nil
}

func (i *instance) readChannelFile() (*channelFile, error) {
	path := i.cfg.ChannelFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(i.baseDir, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading channel file: %w", err)
	}
	var pin channelFile
	if err := toml.Unmarshal(raw, &pin); err != nil {
		return nil, fmt.Errorf("parsing channel file %s: %w", path, err)
	}
	return &pin, nil
}
