package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/ctxlog"
	"github.com/stratabuild/strata/internal/output"
	"github.com/stratabuild/strata/internal/realize"
)

func newBuildCmd(v *viper.Viper, stdout, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "build [PATH]",
		Short: "Plan the default package for one platform",
		Long: `Build composes the selected platform, resolves outputs.packages.default
(or PATH when given) and prints the realization plan. Compiling stays
with cargo; strata only tells you what it would be asked to do.`,
		Args: cobra.MaximumNArgs(1),
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

			path := output.PathDefaultPackage
			if len(args) == 1 {
				if path, err = attrs.ParsePath(args[0]); err != nil {
					return usageErr("%v", err)
				}
			}
			h, err := output.Resolve(res, path)
			if err != nil {
				return err
			}

			ctx := ctxlog.WithLogger(cmd.Context(), a.Logger())
			plan := realize.NewPlan(stdout)
			return plan.Realize(ctx, &realize.Request{Handle: h, Dir: a.Manifest().Dir})
		},
	}
}
