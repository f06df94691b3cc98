package dag

import (
	"context"
	"fmt"

	"github.com/stratabuild/strata/internal/ctxlog"
	"github.com/stratabuild/strata/internal/module"
)

// Build constructs a validated dependency graph from an ordered list of
// modules. Edges point from a dependency to its dependent. A depends_on
// entry naming an undeclared module is attributed to the module that
// declared it; a module depending on itself is the smallest possible cycle.
func Build(ctx context.Context, mods []module.Module) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	graph := New()

	// First pass: create all nodes so declaration order is recorded.
	for _, m := range mods {
		graph.AddNode(m.Name())
	}
	logger.Debug("Build: Node creation complete.", "node_count", graph.Len())

	// Second pass: link dependencies.
	for _, m := range mods {
		for _, dep := range m.DependsOn() {
			if dep == m.Name() {
				return nil, &CycleError{Cycle: []string{m.Name()}}
			}
			if !graph.Has(dep) {
				return nil, &module.Error{
					Module: m.Name(),
					Err:    fmt.Errorf("depends on unknown module %q", dep),
				}
			}
			if err := graph.AddEdge(dep, m.Name()); err != nil {
				return nil, fmt.Errorf("linking %q: %w", m.Name(), err)
			}
		}
	}
	logger.Debug("Build: Node linking complete.")

	return graph, nil
}
