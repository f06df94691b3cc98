// Package output selects realizable artifacts out of merged composition
// results.
//
// Composition produces attribute stores; anything a user can actually build,
// enter or run is published in them as an artifact reference under the
// conventional "outputs" subtree. The selector turns one of those references
// into a Handle: the reference plus the merged store it came from, which is
// everything a realizer needs.
package output

import (
	"fmt"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/compose"
	"github.com/stratabuild/strata/internal/platform"
)

// Conventional output slots. Modules publish their artifacts here so the
// CLI can find them without configuration.
var (
	PathDefaultPackage = attrs.MustPath("outputs.packages.default")
	PathDevShell       = attrs.MustPath("outputs.devShell")
	PathFormatter      = attrs.MustPath("outputs.formatter")
	PathChecks         = attrs.MustPath("outputs.checks")
)

// NotFoundError reports that nothing is published at the requested path for
// a platform.
type NotFoundError struct {
	Platform platform.Platform
	Path     attrs.Path
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no output at %q for %s", e.Path, e.Platform)
}

// ShapeError reports that the requested path exists but does not hold an
// artifact reference.
type ShapeError struct {
	Platform platform.Platform
	Path     attrs.Path
	Got      attrs.Kind
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("output at %q for %s is a %s, not an artifact", e.Path, e.Platform, e.Got)
}

// Handle is a resolved output: the artifact reference and the merged store
// it was selected from.
type Handle struct {
	Platform platform.Platform
	Path     attrs.Path
	Ref      attrs.ArtifactRef
	Store    *attrs.Store
}

func (h *Handle) String() string {
	return fmt.Sprintf("%s (%s, %s)", h.Path, h.Ref, h.Platform)
}

// Resolve selects the artifact reference at path from one platform's merged
// result.
func Resolve(res *compose.Result, path attrs.Path) (*Handle, error) {
	if err := checkMerged(res); err != nil {
		return nil, err
	}
	v, ok := res.Store.Get(path)
	if !ok {
		return nil, &NotFoundError{Platform: res.Platform, Path: path}
	}
	if v.Kind() != attrs.KindArtifact {
		return nil, &ShapeError{Platform: res.Platform, Path: path, Got: v.Kind()}
	}
	return &Handle{
		Platform: res.Platform,
		Path:     path,
		Ref:      v.Artifact(),
		Store:    res.Store,
	}, nil
}

// Checks resolves every artifact under outputs.checks in contribution
// order. A missing checks subtree means no checks, not an error.
func Checks(res *compose.Result) ([]*Handle, error) {
	if err := checkMerged(res); err != nil {
		return nil, err
	}
	sub, ok := res.Store.Sub(PathChecks)
	if !ok {
		return nil, nil
	}
	handles := make([]*Handle, 0, sub.Len())
	for _, name := range sub.Keys() {
		path := PathChecks.Child(name)
		h, err := Resolve(res, path)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// List enumerates every artifact published anywhere in the merged store, in
// deterministic contribution order.
func List(res *compose.Result) ([]*Handle, error) {
	if err := checkMerged(res); err != nil {
		return nil, err
	}
	var handles []*Handle
	for _, b := range res.Store.Flatten() {
		if b.Value.Kind() != attrs.KindArtifact {
			continue
		}
		handles = append(handles, &Handle{
			Platform: res.Platform,
			Path:     b.Path,
			Ref:      b.Value.Artifact(),
			Store:    res.Store,
		})
	}
	return handles, nil
}

func checkMerged(res *compose.Result) error {
	if res.Phase == compose.PhaseMerged {
		return nil
	}
	if res.Err != nil {
		return fmt.Errorf("cannot resolve outputs for %s: %w", res.Platform, res.Err)
	}
	return fmt.Errorf("cannot resolve outputs for %s: composition is %s", res.Platform, res.Phase)
}
