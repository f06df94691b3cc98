package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratabuild/strata/internal/app"
	"github.com/stratabuild/strata/internal/compose"
	"github.com/stratabuild/strata/internal/platform"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageErr builds the exit-code-2 error usage and configuration mistakes map
// to.
func usageErr(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// setupApp validates the global settings, builds the App over them and loads
// the manifest. Logs go to errW so command output stays clean on stdout.
func setupApp(cmd *cobra.Command, v *viper.Viper, errW io.Writer) (*app.App, error) {
	logFormat := strings.ToLower(v.GetString("log-format"))
	if logFormat != "text" && logFormat != "json" {
		return nil, usageErr("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(v.GetString("log-level"))
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, usageErr("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	config, err := app.NewConfig(app.Config{
		ManifestPath: v.GetString("manifest"),
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		Parallelism:  v.GetInt("workers"),
	})
	if err != nil {
		return nil, usageErr("%v", err)
	}

	a := app.New(errW, config)
	if err := a.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return a, nil
}

// platformsFlag parses the --platform values. Nil means the flag was not
// given and the manifest's declared set applies.
func platformsFlag(cmd *cobra.Command) ([]platform.Platform, error) {
	raw, err := cmd.Flags().GetStringSlice("platform")
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	targets, err := platform.ParseAll(raw)
	if err != nil {
		return nil, usageErr("%v", err)
	}
	return targets, nil
}

// onePlatform picks the single platform an operation acts on: the --platform
// value when given, the host otherwise.
func onePlatform(cmd *cobra.Command) (platform.Platform, error) {
	targets, err := platformsFlag(cmd)
	if err != nil {
		return platform.Platform{}, err
	}
	switch len(targets) {
	case 0:
		return platform.Current()
	case 1:
		return targets[0], nil
	}
	return platform.Platform{}, usageErr("expected a single --platform, got %d", len(targets))
}

// composeFor composes exactly one platform and unwraps its result.
func composeFor(cmd *cobra.Command, a *app.App, target platform.Platform) (*compose.Result, error) {
	results, err := a.Compose(cmd.Context(), []platform.Platform{target})
	if err != nil {
		return nil, err
	}
	res, ok := results.For(target)
	if !ok {
		return nil, fmt.Errorf("no composition result for %s", target)
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res, nil
}
