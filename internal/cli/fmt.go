package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratabuild/strata/internal/ctxlog"
	"github.com/stratabuild/strata/internal/output"
	"github.com/stratabuild/strata/internal/realize"
)

func newFmtCmd(v *viper.Viper, stdout, errW io.Writer) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Run the composed formatter",
		Long: `Fmt composes the selected platform, resolves outputs.formatter and runs
the configured format command inside the composed environment. Under
--dry-run it prints the plan instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setupApp(cmd, v, errW)
			if err != nil {
				return err
			}
			target, err := onePlatform(cmd)
			if err != nil {
				return err
			}
			res, err := composeFor(cmd, a, target)
			if err != nil {
				return err
			}
			h, err := output.Resolve(res, output.PathFormatter)
			if err != nil {
				return err
			}

			var realizer realize.Realizer = realize.NewScript(nil, stdout, errW)
			if dryRun {
				realizer = realize.NewPlan(stdout)
			}

			ctx := ctxlog.WithLogger(cmd.Context(), a.Logger())
			return realizer.Realize(ctx, &realize.Request{Handle: h, Dir: a.Manifest().Dir})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan instead of running the formatter.")
	return cmd
}
