package cmd

import (
	"math"
	"os"

	"abundatron/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(linesCmd)
}

var linesCmd = &cobra.Command{
	Use:   "lines",
	Short: "Prints the spectral lines INSPECT offers for the given element.",
	Run: func(cmd *cobra.Command, args []string) {
		requireFlags(cmd, "element")
		config := loadConfig()

		client := newInspectClient(config)
		lines, err := client.Lines(cmd.Context(), flags.element)
		if err != nil {
			serviceutil.Fatal("failed to fetch line list", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"wi", "wavelength [Å]", "label"})
		for _, line := range lines {
			wavelength := any(line.Wavelength)
			if math.IsNaN(line.Wavelength) {
				wavelength = ""
			}
			t.AppendRow(table.Row{line.Index, wavelength, line.Label})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
