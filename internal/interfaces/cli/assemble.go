package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

func newAssembleCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "assemble FUNCTIONAL NAME...",
		Short: "Assemble a multi-element POTCAR from catalogued potentials",
		Long: "Concatenates one stored potential per NAME, in the given order, into a\n" +
			"single POTCAR file.  The order must match the species order of the\n" +
			"calculation the file is assembled for.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := pottypes.ParseFunctional(args[0])
			if err != nil {
				return err
			}

			b, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer b.close()

			out, err := b.asm.Assemble(cmd.Context(), fn, args[1:])
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d byte(s) to %s\n", len(out), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
