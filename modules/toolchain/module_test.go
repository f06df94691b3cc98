package toolchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/platform"
	"github.com/stratabuild/strata/internal/testutil"
)

var linuxAMD64 = platform.Platform{Arch: "x86_64", OS: "linux"}

// contribute runs the module once against an empty store and returns the
// resulting store.
func contribute(t *testing.T, src string, extra map[string]string) (*attrs.Store, error) {
	t.Helper()

	spec := testutil.ModuleSpec(t, src, extra)
	mod, err := New(spec)
	require.NoError(t, err)

	d, err := mod.Contribute(context.Background(), linuxAMD64, attrs.Empty())
	if err != nil {
		return nil, err
	}
	return attrs.Empty().Apply(d, mod.Name())
}

func TestNew_RejectsChannelAndChannelFile(t *testing.T) {
	spec := testutil.ModuleSpec(t, `
		module "toolchain" {
			channel      = "1.75"
			channel_file = "rust-toolchain.toml"
		}
	`, nil)

	_, err := New(spec)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestNew_RejectsDuplicateComponents(t *testing.T) {
	spec := testutil.ModuleSpec(t, `
		module "toolchain" {
			components = ["clippy", "clippy"]
		}
	`, nil)

	_, err := New(spec)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `component "clippy" listed twice`)
}

func TestContribute_InlineChannel(t *testing.T) {
	st, err := contribute(t, `
		module "toolchain" {
			channel    = "1.75"
			components = ["rustfmt", "clippy"]
			profile    = "minimal"
		}
	`, nil)
	require.NoError(t, err)

	channel, ok := st.GetString(attrs.MustPath("toolchain.channel"))
	require.True(t, ok)
	assert.Equal(t, "1.75", channel)

	components, ok := st.GetStrings(attrs.MustPath("toolchain.components"))
	require.True(t, ok)
	assert.Equal(t, []string{"rustfmt", "clippy"}, components)

	profile, ok := st.GetString(attrs.MustPath("toolchain.profile"))
	require.True(t, ok)
	assert.Equal(t, "minimal", profile)
}

func TestContribute_DefaultsToStable(t *testing.T) {
	st, err := contribute(t, `
		module "toolchain" {}
	`, nil)
	require.NoError(t, err)

	channel, ok := st.GetString(attrs.MustPath("toolchain.channel"))
	require.True(t, ok)
	assert.Equal(t, "stable", channel)

	_, ok = st.Get(attrs.MustPath("toolchain.components"))
	assert.False(t, ok, "no components were configured")
	_, ok = st.Get(attrs.MustPath("toolchain.profile"))
	assert.False(t, ok, "no profile was configured")
}

func TestContribute_ChannelFile(t *testing.T) {
	st, err := contribute(t, `
		module "toolchain" {
			channel_file = "rust-toolchain.toml"
			components   = ["llvm-tools"]
		}
	`, map[string]string{
		"rust-toolchain.toml": `
			[toolchain]
			channel    = "1.74.1"
			components = ["rustfmt"]
			profile    = "default"
		`,
	})
	require.NoError(t, err)

	channel, ok := st.GetString(attrs.MustPath("toolchain.channel"))
	require.True(t, ok)
	assert.Equal(t, "1.74.1", channel)

	// File components come first, manifest additions after.
	components, ok := st.GetStrings(attrs.MustPath("toolchain.components"))
	require.True(t, ok)
	assert.Equal(t, []string{"rustfmt", "llvm-tools"}, components)

	profile, ok := st.GetString(attrs.MustPath("toolchain.profile"))
	require.True(t, ok)
	assert.Equal(t, "default", profile)
}

func TestContribute_ProfileOverridesChannelFile(t *testing.T) {
	st, err := contribute(t, `
		module "toolchain" {
			channel_file = "rust-toolchain.toml"
			profile      = "minimal"
		}
	`, map[string]string{
		"rust-toolchain.toml": "[toolchain]\nchannel = \"stable\"\nprofile = \"default\"\n",
	})
	require.NoError(t, err)

	profile, ok := st.GetString(attrs.MustPath("toolchain.profile"))
	require.True(t, ok)
	assert.Equal(t, "minimal", profile)
}

func TestContribute_MissingChannelFile(t *testing.T) {
	_, err := contribute(t, `
		module "toolchain" {
			channel_file = "no-such-file.toml"
		}
	`, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading channel file")
}

func TestContribute_ChannelFileWithoutChannel(t *testing.T) {
	_, err := contribute(t, `
		module "toolchain" {
			channel_file = "rust-toolchain.toml"
		}
	`, map[string]string{
		"rust-toolchain.toml": "[toolchain]\ncomponents = [\"rustfmt\"]\n",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pins no channel")
}

func TestContribute_ChannelFileMalformed(t *testing.T) {
	_, err := contribute(t, `
		module "toolchain" {
			channel_file = "rust-toolchain.toml"
		}
	`, map[string]string{
		"rust-toolchain.toml": "[toolchain\nchannel = ",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing channel file")
}

func TestContribute_ComponentPinnedTwiceAcrossFileAndManifest(t *testing.T) {
	_, err := contribute(t, `
		module "toolchain" {
			channel_file = "rust-toolchain.toml"
			components   = ["rustfmt"]
		}
	`, map[string]string{
		"rust-toolchain.toml": "[toolchain]\nchannel = \"stable\"\ncomponents = [\"rustfmt\"]\n",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `component "rustfmt" pinned twice`)
}
