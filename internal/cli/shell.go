package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratabuild/strata/internal/ctxlog"
	"github.com/stratabuild/strata/internal/output"
	"github.com/stratabuild/strata/internal/realize"
)

func newShellCmd(v *viper.Viper, stdin io.Reader, stdout, errW io.Writer) *cobra.Command {
	var (
		run     bool
		command string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Resolve the development shell for one platform",
		Long: `Shell composes the selected platform and resolves outputs.devShell. By
default it prints the plan: packages, environment and hooks. With --run
(implied by -c) the hooks, and then the one-shot command, execute inside
the composed environment through the embedded interpreter.`,
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
			h, err := output.Resolve(res, output.PathDevShell)
			if err != nil {
				return err
			}

			var realizer realize.Realizer = realize.NewPlan(stdout)
			if run || command != "" {
				realizer = realize.NewScript(stdin, stdout, errW)
			}

			ctx := ctxlog.WithLogger(cmd.Context(), a.Logger())
			return realizer.Realize(ctx, &realize.Request{
				Handle:  h,
				Dir:     a.Manifest().Dir,
				Command: command,
			})
		},
	}

	cmd.Flags().BoolVar(&run, "run", false, "Execute the shell hooks instead of printing the plan.")
	cmd.Flags().StringVarP(&command, "command", "c", "", "One-shot command to run inside the composed environment. Implies --run.")
	return cmd
}
