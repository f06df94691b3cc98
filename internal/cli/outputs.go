package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratabuild/strata/internal/compose"
	"github.com/stratabuild/strata/internal/output"
)

func newOutputsCmd(v *viper.Viper, stdout, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "outputs",
		Short: "List every platform's outputs",
		Long: `Outputs composes all declared platforms concurrently and prints each
platform's phase, module order and output paths. A failed platform
reports its error without affecting the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setupApp(cmd, v, errW)
			if err != nil {
				return err
			}
			targets, err := platformsFlag(cmd)
			if err != nil {
				return err
			}
			results, err := a.Compose(cmd.Context(), targets)
			if err != nil {
				return err
			}

			renderResults(stdout, results)
			return results.Err()
		},
	}
}

// renderResults prints the per-platform summary outputs and watch share.
func renderResults(w io.Writer, results *compose.ResultSet) {
	for _, res := range results.All() {
		if res.Err != nil {
			fmt.Fprintf(w, "%s: %s\n  error: %v\n", res.Platform, res.Phase, res.Err)
			continue
		}
		fmt.Fprintf(w, "%s: %s (order: %s)\n", res.Platform, res.Phase, strings.Join(res.Order, ", "))

		handles, err := output.List(res)
		if err != nil {
			continue
		}
		for _, h := range handles {
			fmt.Fprintf(w, "  %-26s %s\n", h.Path, h.Ref)
		}
	}
}
