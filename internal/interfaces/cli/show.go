package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/turtacn/potvault/pkg/errors"
)

func newShowCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show the stored contents of a catalogued potential",
		Long: "Prints the PSCTR header region of the stored potential by default.\n" +
			"Pass --full to print the complete file contents instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return errors.Wrap(err, errors.CodeInvalidParam,
					"'"+args[0]+"' is not a valid potential ID")
			}

			b, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer b.close()

			contents, err := b.svc.ShowContents(cmd.Context(), id, full)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), contents)
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "print the complete file contents")
	return cmd
}
