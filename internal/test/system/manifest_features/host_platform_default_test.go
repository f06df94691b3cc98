package system

import (
	"context"
	"testing"

	"github.com/stratabuild/strata/internal/app"
	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/platform"
	"github.com/stratabuild/strata/internal/testutil"
)

// Test for: a project without a platforms list composes for the host.
func TestManifestFeatures_NoPlatforms_ComposeForHost(t *testing.T) {
	// --- Arrange ---
	root := testutil.WriteFiles(t, map[string]string{
		"strata.hcl": `
			project {
				name = "hostonly"
			}

			module "toolchain" {
				channel = "1.75.0"
			}

			module "shell" {
				packages = ["just"]
			}
		`,
	})
	config, err := app.NewConfig(app.Config{ManifestPath: root})
	if err != nil {
		t.Fatalf("building config: %v", err)
	}
	testApp, _ := app.SetupAppTest(t, config)

	host, err := platform.Current()
	if err != nil {
		t.Skipf("host platform is not a supported target: %v", err)
	}

	// --- Act ---
	if err := testApp.Load(context.Background()); err != nil {
		t.Fatalf("Load() returned an unexpected error: %v", err)
	}
	results, err := testApp.Compose(context.Background(), nil)
	if err != nil {
		t.Fatalf("Compose() returned an unexpected error: %v", err)
	}
	if err := results.Err(); err != nil {
		t.Fatalf("composition failed: %v", err)
	}

	// --- Assert ---
	all := results.All()
	if len(all) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(all))
	}
	if all[0].Platform != host {
		t.Errorf("composed for %s, want the host %s", all[0].Platform, host)
	}

	// The shell sees the defaulted platform too.
	got, ok := all[0].Store.GetString(attrs.MustPath("shell.env.STRATA_PLATFORM"))
	if !ok || got != host.String() {
		t.Errorf("shell.env.STRATA_PLATFORM = %q, want %q", got, host.String())
	}
}
