package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratabuild/strata/internal/watch"
)

func newWatchCmd(v *viper.Viper, stdout, errW io.Writer) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompose whenever the manifest changes",
		Long: `Watch composes all declared platforms, then watches the project for
changes to manifests, rust-toolchain.toml and Cargo.toml, recomposing
after each debounced burst. Composition failures are reported and
watching continues; interrupt to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Each round reloads from scratch, the manifest itself may have
			// changed.
			round := func() (string, error) {
				a, err := setupApp(cmd, v, errW)
				if err != nil {
					return "", err
				}
				targets, err := platformsFlag(cmd)
				if err != nil {
					return "", err
				}
				results, err := a.Compose(cmd.Context(), targets)
				if err != nil {
					return a.Manifest().Dir, err
				}
				renderResults(stdout, results)
				return a.Manifest().Dir, nil
			}

			dir, err := round()
			if err != nil {
				// The first round must at least locate the project.
				if dir == "" {
					return err
				}
				fmt.Fprintf(errW, "composition failed: %v\n", err)
			}

			w, err := watch.New(dir, debounce)
			if err != nil {
				return err
			}
			defer w.Stop()

			ch, err := w.Start()
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "watching %s\n", dir)

			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ch:
					fmt.Fprintln(stdout, "change detected, recomposing")
					if _, err := round(); err != nil {
						fmt.Fprintf(errW, "composition failed: %v\n", err)
					}
				}
			}
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before recomposing after a change.")
	return cmd
}
