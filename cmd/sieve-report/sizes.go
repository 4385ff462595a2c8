package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chrissnell/sieveanalysis/pkg/sieve"
)

var sizesCmd = &cobra.Command{
	Use:   "sizes",
	Short: "Print the reference sieve series",
	RunE: func(cmd *cobra.Command, _ []string) error {
		formatSieves(cmd.OutOrStdout(), sieve.Reference())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sizesCmd)
}

// formatSieves writes the sieve table to out, finest first
func formatSieves(out io.Writer, sieves []sieve.Sieve) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SIZE_MM\tDESIGNATION")
	_, _ = fmt.Fprintln(w, "-------\t-----------")
	for _, s := range sieves {
		_, _ = fmt.Fprintf(w, "%g\t%s\n", s.SizeMM, s.Designation)
	}
	_ = w.Flush()
}
