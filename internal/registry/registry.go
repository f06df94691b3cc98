package registry

import (
	"fmt"
	"log/slog"

	"github.com/stratabuild/strata/internal/hclcfg"
	"github.com/stratabuild/strata/internal/module"
)

// Registrant is implemented by every built-in module package so the
// application can install its factory into a Registry.
type Registrant interface {
	Register(r *Registry)
}

// Factory builds module instances from manifest blocks of one type.
type Factory struct {
	// Type is the manifest block type this factory serves, e.g. "toolchain".
	Type string
	// New builds one instance from its decoded manifest block.
	New func(spec hclcfg.ModuleSpec) (module.Module, error)
}

// Registry maps manifest module types to their factories for a single
// application instance.
type Registry struct {
	factories map[string]*Factory
	types     []string
}

// New creates and initializes an empty Registry instance.
func New() *Registry {
	return &Registry{
		factories: make(map[string]*Factory),
	}
}

// RegisterFactory installs a factory. Registering the same type twice is a
// wiring bug and panics.
func (r *Registry) RegisterFactory(f *Factory) {
	if _, exists := r.factories[f.Type]; exists {
		panic(fmt.Sprintf("module factory with type '%s' already registered", f.Type))
	}
	slog.Debug("Registering module factory.", "type", f.Type)
	r.factories[f.Type] = f
	r.types = append(r.types, f.Type)
}

// Factory looks up the factory for a manifest module type.
func (r *Registry) Factory(typeName string) (*Factory, bool) {
	f, ok := r.factories[typeName]
	return f, ok
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []string {
	return append([]string(nil), r.types...)
}

// Build instantiates every module block of a manifest through its factory,
// preserving declaration order.
func (r *Registry) Build(specs []hclcfg.ModuleSpec) (*Set, error) {
	mods := make([]module.Module, 0, len(specs))
	for _, spec := range specs {
		f, ok := r.factories[spec.Type]
		if !ok {
			return nil, fmt.Errorf("%s: no module type %q is available (known: %v)", spec.DeclRange, spec.Type, r.types)
		}
		m, err := f.New(spec)
		if err != nil {
			return nil, fmt.Errorf("building module %q: %w", spec.Name, err)
		}
		mods = append(mods, m)
	}
	return NewSet(mods...)
}
