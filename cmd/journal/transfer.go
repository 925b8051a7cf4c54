package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import trades from a CSV file",
		Long: `Import creates one trade per CSV row. Rows that fail are reported and the
rest of the file is still imported.

Recognised columns: symbol, type (or side), quantity, entry price,
current price, exit price, stop loss, take profit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			var strictOpt *bool
			if cmd.Flags().Changed("strict") {
				strictOpt = &strict
			}
			rep, err := a.client.Import(cmd.Context(), f, strictOpt)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			fmt.Fprintf(a.out, "Batch %s: imported %d trades, %d failed\n", rep.BatchID, rep.Applied, len(rep.Failed))
			for _, fe := range rep.Failed {
				if fe.Field != "" {
					fmt.Fprintf(a.out, "  line %d: %s: %s\n", fe.Line, fe.Field, fe.Message)
				} else {
					fmt.Fprintf(a.out, "  line %d: %s\n", fe.Line, fe.Message)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", true, "apply manual-entry validation to every row (defaults to the server setting)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all trades as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "-" {
				_, err := a.client.Export(cmd.Context(), a.out)
				return err
			}

			tmp, err := os.CreateTemp(".", ".export-*.csv")
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer os.Remove(tmp.Name())

			name, err := a.client.Export(cmd.Context(), tmp)
			if cerr := tmp.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if output != "" {
				name = output
			}
			if err := os.Rename(tmp.Name(), name); err != nil {
				return fmt.Errorf("save export: %w", err)
			}
			fmt.Fprintf(a.out, "Exported trades to %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (default trades_<date>.csv, "-" for stdout)`)
	return cmd
}
