package cmd

import (
	"abundatron/lib/batch"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(lteCmd)
}

var lteCmd = &cobra.Command{
	Use:   "lte",
	Short: "Converts LTE abundances into 3D NLTE values via the nonlte_from_lte calculator.",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(cmd, batch.ModeLTE)
	},
}
