package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrissnell/sieveanalysis/internal/log"
)

var rootDebug bool

var rootCmd = &cobra.Command{
	Use:   "sieve-report",
	Short: "Offline particle size distribution reports",
	Long:  "Reads sieve analysis lab sheets, computes D10/D30/D60, Cu and Cc per sample and prints a gradation report.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := log.Init(log.Options{Debug: rootDebug}); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "turn on debugging output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
