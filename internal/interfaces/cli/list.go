package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/potvault/pkg/errors"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

func newListCmd() *cobra.Command {
	var (
		name       string
		element    string
		functional string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued pseudopotentials matching the given identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := pottypes.TagFilter{}
			if name != "" {
				filter.Name = &name
			}
			if element != "" {
				filter.Element = &element
			}
			if functional != "" {
				fn, err := pottypes.ParseFunctional(functional)
				if err != nil {
					return err
				}
				filter.Functional = &fn
			}
			if filter.Empty() {
				return errors.New(errors.CodeCatalogEmptyFilter,
					"Please specify a potential name, element or a functional")
			}

			b, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer b.close()

			matches, err := b.svc.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(),
					"No pseudo-potentials found for the given identifiers")
				return nil
			}

			rows := make([][]string, 0, len(matches))
			for _, pf := range matches {
				rows = append(rows, []string{
					pf.ID.String(),
					pf.Name,
					pf.Element,
					string(pf.Functional),
					strconv.Itoa(pf.Version),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatTable(
				[]string{"id", "name", "element", "functional", "version"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "filter by potential name")
	cmd.Flags().StringVarP(&element, "element", "e", "", "filter by element symbol")
	cmd.Flags().StringVarP(&functional, "functional", "f", "", "filter by functional")
	return cmd
}
