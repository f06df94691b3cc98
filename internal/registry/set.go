package registry

import (
	"fmt"

	"github.com/stratabuild/strata/internal/module"
)

// Set is an ordered collection of module instances. Declaration order is
// preserved because it breaks ties during ordering and fixes list
// concatenation order in the merged store.
type Set struct {
	modules []module.Module
	byName  map[string]module.Module
}

// NewSet collects instances, rejecting duplicate names. Names come from
// manifest labels, so a duplicate is user error rather than a wiring bug.
func NewSet(mods ...module.Module) (*Set, error) {
	s := &Set{
		modules: make([]module.Module, 0, len(mods)),
		byName:  make(map[string]module.Module, len(mods)),
	}
	for _, m := range mods {
		name := m.Name()
		if name == "" {
			return nil, fmt.Errorf("module with empty name")
		}
		if _, exists := s.byName[name]; exists {
			return nil, fmt.Errorf("duplicate module name %q", name)
		}
		s.byName[name] = m
		s.modules = append(s.modules, m)
	}
	return s, nil
}

// Modules returns the instances in declaration order.
func (s *Set) Modules() []module.Module {
	return append([]module.Module(nil), s.modules...)
}

// Get looks an instance up by name.
func (s *Set) Get(name string) (module.Module, bool) {
	m, ok := s.byName[name]
	return m, ok
}

// Names returns the instance names in declaration order.
func (s *Set) Names() []string {
	out := make([]string, len(s.modules))
	for i, m := range s.modules {
		out[i] = m.Name()
	}
	return out
}

// Len reports the number of instances.
func (s *Set) Len() int {
	return len(s.modules)
}
