package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envSettings are the persistent flags a STRATA_* environment variable can
// override, templar-style precedence: flags > env > defaults.
var envSettings = []string{"manifest", "log-level", "log-format", "workers"}

// NewRootCmd builds the strata command tree. Command output goes to stdout,
// logs and diagnostics to errW, scripts read from stdin.
func NewRootCmd(stdin io.Reader, stdout, errW io.Writer) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "strata",
		Short: "Compose declarative development environments for Rust projects",
		Long: `Strata composes a project's development environment from the module
blocks of its strata.hcl: the toolchain pin, the crate description, the
formatter, the dev shell and the pre-commit hooks, merged per platform
into one queryable attribute tree.

Composition only ever describes; realizers act. Build plans stay plans
(cargo does the building), while shell hooks, formatters and checks run
through an embedded POSIX interpreter.

Settings can also come from the environment with a STRATA_ prefix
(STRATA_LOG_LEVEL, STRATA_LOG_FORMAT, STRATA_MANIFEST, STRATA_WORKERS);
flags win over the environment.

Exit codes: 0 success, 1 composition or realization failure, 2 usage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringP("manifest", "m", ".", "Path to strata.hcl or a directory containing one.")
	pf.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.Int("workers", 0, "Concurrent platform evaluations. 0 means one per platform.")
	pf.StringSliceP("platform", "p", nil, "Target platform like x86_64-linux (repeatable).")

	for _, name := range envSettings {
		_ = v.BindPFlag(name, pf.Lookup(name))
	}
	v.SetEnvPrefix("STRATA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Flag mistakes are usage errors, exit code 2.
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageErr("%v", err)
	})
	root.SetOut(stdout)
	root.SetErr(errW)

	root.AddCommand(
		newBuildCmd(v, stdout, errW),
		newShellCmd(v, stdin, stdout, errW),
		newFmtCmd(v, stdout, errW),
		newOutputsCmd(v, stdout, errW),
		newEvalCmd(v, stdout, errW),
		newWatchCmd(v, stdout, errW),
	)
	return root
}
