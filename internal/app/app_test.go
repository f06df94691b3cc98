package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/platform"
	"github.com/stratabuild/strata/internal/testutil"
)

func TestNewConfig_RequiresManifestPath(t *testing.T) {
	_, err := NewConfig(Config{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ManifestPath")
}

func TestNewConfig_RejectsNegativeParallelism(t *testing.T) {
	_, err := NewConfig(Config{ManifestPath: "strata.hcl", Parallelism: -1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Parallelism")
}

func TestApp_LoadAndCompose(t *testing.T) {
	// --- Arrange ---
	root := testutil.WriteFiles(t, map[string]string{
		"strata.hcl": `
			project {
				name      = "demo"
				platforms = ["x86_64-linux", "aarch64-darwin"]
			}

			module "toolchain" {
				channel = "1.75"
			}

			module "crate" {
				name = "demo"
			}

			module "shell" {
				packages = ["just"]
			}
		`,
	})
	config, err := NewConfig(Config{ManifestPath: root})
	require.NoError(t, err)
	testApp, _ := SetupAppTest(t, config)

	// --- Act ---
	require.NoError(t, testApp.Load(context.Background()))
	results, err := testApp.Compose(context.Background(), nil)

	// --- Assert ---
	require.NoError(t, err)
	require.NoError(t, results.Err())
	require.Len(t, results.All(), 2)

	linux, ok := results.For(platform.Platform{Arch: "x86_64", OS: "linux"})
	require.True(t, ok)
	channel, ok := linux.Store.GetString(attrs.MustPath("toolchain.channel"))
	require.True(t, ok)
	assert.Equal(t, "1.75", channel)

	// The crate target tracks the platform under composition.
	darwin, ok := results.For(platform.Platform{Arch: "aarch64", OS: "darwin"})
	require.True(t, ok)
	target, ok := darwin.Store.GetString(attrs.MustPath("crate.target"))
	require.True(t, ok)
	assert.Equal(t, "aarch64-apple-darwin", target)
}

func TestApp_ComposeBeforeLoadFails(t *testing.T) {
	config, err := NewConfig(Config{ManifestPath: "unused"})
	require.NoError(t, err)
	testApp, _ := SetupAppTest(t, config)

	_, err = testApp.Compose(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "call Load first")
}

func TestApp_LoadRejectsUnknownModuleType(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{
		"strata.hcl": `
			project {
				name = "demo"
			}

			module "mystery" {}
		`,
	})
	config, err := NewConfig(Config{ManifestPath: root})
	require.NoError(t, err)
	testApp, _ := SetupAppTest(t, config)

	err = testApp.Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `no module type "mystery"`)
}
