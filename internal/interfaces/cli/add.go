package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/potvault/internal/application/catalog"
	"github.com/turtacn/potvault/internal/domain/potential"
	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// newAddCmd groups the two ingest flows: whole archives and single files.
func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add pseudopotentials to the catalog",
	}
	cmd.AddCommand(newAddFamilyCmd(), newAddSingleCmd())
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// add family
// ─────────────────────────────────────────────────────────────────────────────

func newAddFamilyCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "family ROOT",
		Short: "Scan a pseudopotential archive and store every new POTCAR file",
		Long: "Recursively scans ROOT for files named POTCAR, derives each file's name\n" +
			"and functional from its location in the archive, and stores all new\n" +
			"potentials to the catalog after confirmation.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer b.close()

			results, err := b.svc.ScanFamily(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printScan(cmd, results)

			summary := catalog.Summarize(results)
			if summary.New == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing new to store.")
				return nil
			}

			if !yes && !confirm(cmd, "Before continuing, please check the "+
				"displayed list for possible errors! Continue and store?") {
				fmt.Fprintln(cmd.OutOrStdout(),
					"Aborting. No potential was stored to the catalog!")
				return nil
			}

			stored, err := b.svc.StoreScanned(cmd.Context(), results)
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %d potential(s).\n", len(stored))
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "store without confirmation")
	return cmd
}

// printScan renders the scan preview table and the discovery summary.
func printScan(cmd *cobra.Command, results []catalog.FileResult) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Record == nil {
			rows = append(rows, []string{"?", "?", "?", "?", r.Path + "  (skipped)"})
			continue
		}
		path := r.Path
		switch r.Status {
		case catalog.StatusAlreadyPresent:
			path += "  (already stored)"
		case catalog.StatusSkipped:
			path += "  (skipped)"
		}
		rows = append(rows, []string{
			r.Record.Name,
			r.Record.Element,
			string(r.Record.Functional),
			strconv.Itoa(r.Record.Version),
			path,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, FormatTable(
		[]string{"name", "element", "functional", "version", "path"}, rows))

	s := catalog.Summarize(results)
	fmt.Fprintf(out, "\nDiscovered a total of %d POTCAR file(s) of which\n", s.Total())
	fmt.Fprintf(out, " * %d will be stored to the catalog\n", s.New)
	fmt.Fprintf(out, " * %d are already available in the catalog\n", s.AlreadyPresent)
	fmt.Fprintf(out, " * %d will be skipped due to errors\n\n", s.Skipped)
}

// ─────────────────────────────────────────────────────────────────────────────
// add single
// ─────────────────────────────────────────────────────────────────────────────

func newAddSingleCmd() *cobra.Command {
	var (
		name       string
		functional string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "single PATH",
		Short: "Store a single POTCAR file under an explicit name and functional",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := pottypes.ParseFunctional(functional)
			if err != nil {
				return err
			}

			b, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer b.close()

			// Parse first so the user can review before anything is stored.
			parser := potential.NewParser(b.log)
			rec, err := parser.ParseFile(args[0],
				pottypes.Identity{Name: name, Functional: fn})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), FormatTable(
				[]string{"name", "element", "functional", "version", "path"},
				[][]string{{rec.Name, rec.Element, string(rec.Functional),
					strconv.Itoa(rec.Version), rec.Source}}))

			if !yes && !confirm(cmd, "Continue and store?") {
				fmt.Fprintln(cmd.OutOrStdout(),
					"Aborting. No potential was stored to the catalog!")
				return nil
			}

			pf, err := b.svc.Store(cmd.Context(), rec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored potential %s.\n", pf.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "potential name (e.g. Si, Zr_sv)")
	cmd.Flags().StringVarP(&functional, "functional", "f", "", "functional identifier")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("functional")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "store without confirmation")
	return cmd
}
