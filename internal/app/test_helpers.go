package app

import (
	"os"
	"testing"

	"github.com/stratabuild/strata/internal/registry"
	"github.com/stratabuild/strata/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. Logs go to the
// returned buffer at debug level and are dumped when STRATA_TEST_LOGS=true.
func SetupAppTest(t *testing.T, config *Config, modules ...registry.Registrant) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	config.LogLevel = "debug"
	testApp := New(logBuffer, config, modules...)

	t.Cleanup(func() {
		if os.Getenv("STRATA_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
