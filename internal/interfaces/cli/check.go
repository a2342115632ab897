package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/potvault/internal/application/catalog"
	"github.com/turtacn/potvault/internal/domain/potential"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check ROOT",
		Short: "Scan a library tree for misidentified potential files",
		Long: "Parses every POTCAR file below ROOT without storing anything and\n" +
			"reports files whose parsed identity fails the validity criteria.\n" +
			"Each finding is a candidate for a new hand-curated correction.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			checker := catalog.NewChecker(
				potential.NewParser(cliCtx.Logger),
				cliCtx.Config.Library.Workers,
				cliCtx.Logger)

			findings, err := checker.CheckLibrary(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(findings) == 0 {
				fmt.Fprintln(out, "All potential files parsed cleanly.")
				return nil
			}
			for _, f := range findings {
				fmt.Fprintln(out, f.String())
				for _, v := range f.Violations {
					fmt.Fprintf(out, "    - %s\n", v)
				}
			}
			fmt.Fprintf(out, "\n%d suspicious file(s) found.\n", len(findings))
			return nil
		},
	}
	return cmd
}
