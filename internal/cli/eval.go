package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratabuild/strata/internal/attrs"
	"github.com/stratabuild/strata/internal/output"
)

func newEvalCmd(v *viper.Viper, stdout, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "eval PATH",
		Short: "Print the merged value at a path",
		Long: `Eval composes the selected platform and prints the merged value at PATH,
with the contributing modules alongside. A subtree path prints every
leaf under it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := attrs.ParsePath(args[0])
			if err != nil {
				return usageErr("%v", err)
			}

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

			val, ok := res.Store.Get(path)
			if !ok {
				return &output.NotFoundError{Platform: res.Platform, Path: path}
			}

			if val.Kind() == attrs.KindStore {
				for _, b := range val.Store().Flatten() {
					full := make(attrs.Path, 0, len(path)+len(b.Path))
					full = append(append(full, path...), b.Path...)
					printBinding(stdout, full, b.Value, b.Writers)
				}
				return nil
			}
			writers, _ := res.Store.WritersOf(path)
			printBinding(stdout, path, val, writers)
			return nil
		},
	}
}

func printBinding(w io.Writer, path attrs.Path, val attrs.Value, writers []string) {
	fmt.Fprintf(w, "%s = %s", path, val)
	if len(writers) > 0 {
		fmt.Fprintf(w, "  # %s", strings.Join(writers, ", "))
	}
	fmt.Fprintln(w)
}
