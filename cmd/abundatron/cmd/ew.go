package cmd

import (
	"abundatron/lib/batch"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ewCmd)
}

var ewCmd = &cobra.Command{
	Use:   "ew",
	Short: "Converts equivalent widths [mÅ] into LTE/NLTE abundances via the A_from_e calculator.",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(cmd, batch.ModeEW)
	},
}
