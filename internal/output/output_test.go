package output

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/compose"
	"github.com/stratabuild/strata/internal/module"
	"github.com/stratabuild/strata/internal/platform"
	"github.com/stratabuild/strata/internal/registry"
)

var linux = platform.Platform{Arch: "x86_64", OS: "linux"}

// mergedResult composes a single mock module so the result carries a real
// merged store.
func mergedResult(t *testing.T, build func(d *attrs.Delta)) *compose.Result {
	t.Helper()
	set, err := registry.NewSet(module.Func{
		ModuleName: "publisher",
		Fn: func(context.Context, platform.Platform, *attrs.Store) (*attrs.Delta, error) {
			d := attrs.NewDelta()
			build(d)
			return d, nil
		},
	})
	require.NoError(t, err)

	rs, err := compose.New(set).Compose(context.Background(), []platform.Platform{linux})
	require.NoError(t, err)
	res, ok := rs.For(linux)
	require.True(t, ok)
	require.Equal(t, compose.PhaseMerged, res.Phase)
	return res
}

func TestResolve_ReturnsHandleForArtifact(t *testing.T) {
	res := mergedResult(t, func(d *attrs.Delta) {
		d.Set("outputs.devShell", attrs.Artifact(attrs.ArtifactRef{Role: attrs.RoleShell, Name: "default"}))
		d.Set("shell.packages", attrs.StringsVal("git"))
	})

	h, err := Resolve(res, PathDevShell)

	require.NoError(t, err)
	assert.Equal(t, attrs.RoleShell, h.Ref.Role)
	assert.Equal(t, "default", h.Ref.Name)
	assert.Equal(t, linux, h.Platform)

	// The handle carries the merged store the ref was selected from.
	pkgs, ok := h.Store.GetStrings(attrs.MustPath("shell.packages"))
	require.True(t, ok)
	assert.Equal(t, []string{"git"}, pkgs)
}

func TestResolve_MissingPathIsNotFound(t *testing.T) {
	res := mergedResult(t, func(d *attrs.Delta) {
		d.Set("crate.name", attrs.StringVal("quartz"))
	})

	_, err := Resolve(res, PathDevShell)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "outputs.devShell", notFound.Path.String())
	assert.Equal(t, linux, notFound.Platform)
	assert.Contains(t, err.Error(), "x86_64-linux")
}

func TestResolve_NonArtifactValueIsAShapeError(t *testing.T) {
	res := mergedResult(t, func(d *attrs.Delta) {
		d.Set("outputs.devShell", attrs.StringVal("not-a-ref"))
	})

	_, err := Resolve(res, PathDevShell)

	var shape *ShapeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, attrs.KindScalar, shape.Got)
	assert.Contains(t, err.Error(), "not an artifact")
}

func TestResolve_RefusesUnmergedResults(t *testing.T) {
	failed := &compose.Result{
		Platform: linux,
		Phase:    compose.PhaseFailed,
		Err:      errors.New("module \"toolchain\": boom"),
	}

	_, err := Resolve(failed, PathDevShell)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot resolve outputs")
	assert.Contains(t, err.Error(), "boom")
}

func TestChecks_EnumeratesInContributionOrder(t *testing.T) {
	res := mergedResult(t, func(d *attrs.Delta) {
		d.Set("outputs.checks.fmt-check", attrs.Artifact(attrs.ArtifactRef{Role: attrs.RoleCheck, Name: "fmt-check"}))
		d.Set("outputs.checks.clippy", attrs.Artifact(attrs.ArtifactRef{Role: attrs.RoleCheck, Name: "clippy"}))
		d.Set("outputs.checks.test", attrs.Artifact(attrs.ArtifactRef{Role: attrs.RoleCheck, Name: "test"}))
	})

	handles, err := Checks(res)

	require.NoError(t, err)
	require.Len(t, handles, 3)
	assert.Equal(t, "fmt-check", handles[0].Ref.Name)
	assert.Equal(t, "clippy", handles[1].Ref.Name)
	assert.Equal(t, "test", handles[2].Ref.Name)
}

func TestChecks_NoChecksSubtreeMeansNone(t *testing.T) {
	res := mergedResult(t, func(d *attrs.Delta) {
		d.Set("crate.name", attrs.StringVal("quartz"))
	})

	handles, err := Checks(res)

	require.NoError(t, err)
	assert.Empty(t, handles)
}

func TestList_FindsEveryPublishedArtifact(t *testing.T) {
	res := mergedResult(t, func(d *attrs.Delta) {
		d.Set("crate.name", attrs.StringVal("quartz"))
		d.Set("outputs.packages.default", attrs.Artifact(attrs.ArtifactRef{Role: attrs.RolePackage, Name: "quartz"}))
		d.Set("outputs.devShell", attrs.Artifact(attrs.ArtifactRef{Role: attrs.RoleShell, Name: "default"}))
		d.Set("outputs.checks.clippy", attrs.Artifact(attrs.ArtifactRef{Role: attrs.RoleCheck, Name: "clippy"}))
	})

	handles, err := List(res)

	require.NoError(t, err)
	require.Len(t, handles, 3)
	paths := make([]string, len(handles))
	for i, h := range handles {
		paths[i] = h.Path.String()
	}
	assert.Equal(t, []string{
		"outputs.packages.default",
		"outputs.devShell",
		"outputs.checks.clippy",
	}, paths)
}
