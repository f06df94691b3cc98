// Package module defines the contract between the composition engine and the
// units it evaluates.
package module

import (
	"context"
	"fmt"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/platform"
)

// Module contributes attributes for one concern of a project, such as the
// toolchain pin or the development shell.
type Module interface {
	// Name identifies the module. Names are unique within a manifest.
	Name() string

	// DependsOn lists the names of modules whose contributions must be
	// merged before this one runs.
	DependsOn() []string

	// Contribute computes this module's delta for a single platform. The
	// view is the merged store so far; implementations read it freely but
	// write only through the returned delta. A nil delta means the module
	// has nothing to add for this platform. Contribute may be called for
	// several platforms concurrently, so implementations must not mutate
	// instance state.
	Contribute(ctx context.Context, target platform.Platform, view *attrs.Store) (*attrs.Delta, error)
}

// Func adapts a closure into a Module, mostly for tests and one-off wiring.
type Func struct {
	ModuleName string
	Deps       []string
	Fn         func(ctx context.Context, target platform.Platform, view *attrs.Store) (*attrs.Delta, error)
}

func (f Func) Name() string {
	return f.ModuleName
}

func (f Func) DependsOn() []string {
	return f.Deps
}

func (f Func) Contribute(ctx context.Context, target platform.Platform, view *attrs.Store) (*attrs.Delta, error) {
	if f.Fn == nil {
		return nil, nil
	}
	return f.Fn(ctx, target, view)
}

// Error attributes a contribution failure to the module that raised it.
type Error struct {
	Module string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attributes err to the named module unless it already carries a module
// attribution.
func Wrap(name string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*Error); ok {
		return err
	}
	return &Error{Module: name, Err: err}
}
