package cli

import (
	"context"
	stderrors "errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/potvault/internal/application/catalog"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch ROOT",
		Short: "Watch a library tree and catalog new POTCAR files automatically",
		Long: "Blocks watching ROOT and every directory below it.  Files named POTCAR\n" +
			"that appear while watching are parsed and stored to the catalog.\n" +
			"Stop with Ctrl-C.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			b, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer b.close()

			ctx, stop := signal.NotifyContext(cmd.Context(),
				syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := catalog.NewWatcher(b.svc,
				cliCtx.Config.Library.WatchDebounce, b.log)
			if err := w.Watch(ctx, args[0]); err != nil &&
				!stderrors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	return cmd
}
