package system

import (
	"context"
	"testing"

	"github.com/stratabuild/strata/internal/app"
	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/compose"
	"github.com/stratabuild/strata/internal/platform"
	"github.com/stratabuild/strata/internal/testutil"
)

// Test for: two modules agreeing on a set-once attribute merge cleanly and
// both land in the provenance.
func TestManifestFeatures_AgreeingPins_MergeWithBothWriters(t *testing.T) {
	// --- Arrange ---
	// Both blocks pin the same channel. Identical rewrites are tolerated,
	// only disagreement is a conflict.
	root := testutil.WriteFiles(t, map[string]string{
		"strata.hcl": `
			project {
				name      = "agreed"
				platforms = ["x86_64-linux"]
			}

			module "toolchain" {
				channel = "1.75.0"
			}

			module "ci-pin" {
				type    = "toolchain"
				channel = "1.75.0"
			}
		`,
	})
	config, err := app.NewConfig(app.Config{ManifestPath: root})
	if err != nil {
		t.Fatalf("building config: %v", err)
	}
	testApp, _ := app.SetupAppTest(t, config)

	// --- Act ---
	if err := testApp.Load(context.Background()); err != nil {
		t.Fatalf("Load() returned an unexpected error: %v", err)
	}
	results, err := testApp.Compose(context.Background(), nil)
	if err != nil {
		t.Fatalf("Compose() returned an unexpected error: %v", err)
	}

	// --- Assert ---
	res, ok := results.For(platform.Platform{Arch: "x86_64", OS: "linux"})
	if !ok {
		t.Fatal("no result for the declared platform")
	}
	if res.Phase != compose.PhaseMerged {
		t.Fatalf("expected a merged result, got phase %s (err: %v)", res.Phase, res.Err)
	}

	channel, ok := res.Store.GetString(attrs.MustPath("toolchain.channel"))
	if !ok || channel != "1.75.0" {
		t.Errorf("toolchain.channel = %q, want %q", channel, "1.75.0")
	}

	writers, ok := res.Store.WritersOf(attrs.MustPath("toolchain.channel"))
	if !ok {
		t.Fatal("store has no writers for toolchain.channel")
	}
	if len(writers) != 2 || writers[0] != "toolchain" || writers[1] != "ci-pin" {
		t.Errorf("toolchain.channel writers = %v, want [toolchain ci-pin]", writers)
	}
}
