package dag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratabuild/strata/internal/module"
)

func named(name string, deps ...string) module.Module {
	return module.Func{ModuleName: name, Deps: deps}
}

func TestBuild_LinksDeclaredDependencies(t *testing.T) {
	mods := []module.Module{
		named("toolchain"),
		named("crate", "toolchain"),
		named("shell", "crate"),
	}

	g, err := Build(context.Background(), mods)

	require.NoError(t, err)
	deps, err := g.Dependencies("shell")
	require.NoError(t, err)
	assert.Equal(t, []string{"crate"}, deps)

	order, err := g.Linearize()
	require.NoError(t, err)
	assert.Equal(t, []string{"toolchain", "crate", "shell"}, order)
}

func TestBuild_UnknownDependencyNamesTheDeclaringModule(t *testing.T) {
	mods := []module.Module{
		named("crate", "toolchain"),
	}

	_, err := Build(context.Background(), mods)

	var modErr *module.Error
	require.ErrorAs(t, err, &modErr)
	assert.Equal(t, "crate", modErr.Module)
	assert.Contains(t, modErr.Error(), `unknown module "toolchain"`)
}

func TestBuild_SelfDependencyIsACycle(t *testing.T) {
	mods := []module.Module{
		named("shell", "shell"),
	}

	_, err := Build(context.Background(), mods)

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"shell"}, cycle.Cycle)
}

func TestBuild_DuplicateDependencyEntriesAreTolerated(t *testing.T) {
	mods := []module.Module{
		named("toolchain"),
		named("crate", "toolchain", "toolchain"),
	}

	g, err := Build(context.Background(), mods)

	require.NoError(t, err)
	deps, err := g.Dependencies("crate")
	require.NoError(t, err)
	assert.Equal(t, []string{"toolchain"}, deps)
}
