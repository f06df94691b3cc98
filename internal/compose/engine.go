// Package compose implements the engine that evaluates a module set into one
// merged attribute store per platform.
//
// A composition moves through a fixed sequence: the module set is ordered
// once (dependencies before dependents, declaration order breaking ties),
// then each requested platform is evaluated independently. Platform
// evaluations run concurrently and never affect one another; a conflict on
// one platform leaves the others composing to completion.
package compose

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/ctxlog"
	"github.com/stratabuild/strata/internal/dag"
	"github.com/stratabuild/strata/internal/module"
	"github.com/stratabuild/strata/internal/platform"
	"github.com/stratabuild/strata/internal/registry"
)

// EvalError attributes a composition failure to one platform.
type EvalError struct {
	Platform platform.Platform
	Err      error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("composing %s: %v", e.Platform, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Engine composes a module set across platforms.
type Engine struct {
	set *registry.Set
	// Parallelism caps concurrent platform evaluations. Zero means one
	// goroutine per platform.
	Parallelism int
}

// New creates an engine over an instance set.
func New(set *registry.Set) *Engine {
	return &Engine{set: set}
}

// Compose orders the module set and evaluates it for every requested
// platform. Ordering problems (cycles, unknown dependencies) concern the
// manifest as a whole and abort the call; evaluation problems are platform
// scoped and land in the individual results.
func (e *Engine) Compose(ctx context.Context, targets []platform.Platform) (*ResultSet, error) {
	logger := ctxlog.FromContext(ctx)
	if len(targets) == 0 {
		return nil, fmt.Errorf("no platforms requested")
	}

	graph, err := dag.Build(ctx, e.set.Modules())
	if err != nil {
		return nil, fmt.Errorf("ordering modules: %w", err)
	}
	order, err := graph.Linearize()
	if err != nil {
		return nil, fmt.Errorf("ordering modules: %w", err)
	}
	logger.Debug("Compose: Evaluation order resolved.", "order", order)

	results := make([]*Result, len(targets))
	eg, egCtx := errgroup.WithContext(ctx)
	if e.Parallelism > 0 {
		eg.SetLimit(e.Parallelism)
	}
	for i, target := range targets {
		eg.Go(func() error {
			// Failures land in the result, never in the group, so one
			// platform cannot cancel the rest.
			results[i] = e.composeOne(egCtx, target, order)
			return nil
		})
	}
	_ = eg.Wait()

	return newResultSet(targets, results), nil
}

// composeOne walks the evaluation order for a single platform, merging each
// contribution into an initially empty store.
func (e *Engine) composeOne(ctx context.Context, target platform.Platform, order []string) *Result {
	logger := ctxlog.FromContext(ctx).With("platform", target.String())
	res := &Result{Platform: target, Phase: PhaseEvaluating, Order: order}

	store := attrs.Empty()
	for i, name := range order {
		if err := ctx.Err(); err != nil {
			res.fail(err)
			return res
		}
		m, ok := e.set.Get(name)
		if !ok {
			// Linearize only emits names taken from the set.
			panic(fmt.Sprintf("compose: module %q vanished from the set", name))
		}

		logger.Debug("Evaluating module.", "module", name, "position", i+1, "total", len(order))
		delta, err := m.Contribute(ctx, target, store)
		if err != nil {
			res.fail(module.Wrap(name, err))
			return res
		}
		if delta.Len() == 0 {
			logger.Debug("Module contributed nothing.", "module", name)
			continue
		}

		next, err := store.Apply(delta, name)
		if err != nil {
			res.fail(err)
			return res
		}
		store = next
		logger.Debug("Contribution merged.", "module", name, "attributes", delta.Len())
	}

	res.Phase = PhaseMerged
	res.Store = store
	logger.Debug("Platform composition merged.", "modules", len(order), "top_level_keys", store.Len())
	return res
}
