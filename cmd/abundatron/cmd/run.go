package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"abundatron/lib/batch"
	"abundatron/lib/inspect"
	"abundatron/lib/restyutil"
	"abundatron/lib/serviceutil"
	"abundatron/lib/telemetry"

	"github.com/spf13/cobra"
)

func newInspectClient(config Config) *inspect.Client {
	var output restyutil.InstrumentOutput
	if flags.dumpDir != "" {
		fsOutput, err := restyutil.NewFilesystemOutput(flags.dumpDir)
		if err != nil {
			serviceutil.Fatal("failed to set up http dump directory", err)
		}
		output = fsOutput
	}

	client, err := inspect.NewClient(inspect.ClientOptions{
		BaseUrl:          config.BaseUrl,
		UserAgent:        config.UserAgent,
		InstrumentOutput: output,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize inspect client", err)
	}
	return client
}

func requireFlags(cmd *cobra.Command, names ...string) {
	var missing []string
	for _, name := range names {
		if !cmd.Flags().Changed(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		serviceutil.Fatal("missing required flags", errors.New("--"+strings.Join(missing, ", --")))
	}
}

func resolveLine(ctx context.Context, cmd *cobra.Command, client *inspect.Client) inspect.Line {
	wavelengthSet := cmd.Flags().Changed("wavelength")
	wiSet := cmd.Flags().Changed("wi")
	if wavelengthSet == wiSet {
		serviceutil.Fatal(
			"ambiguous line selection",
			errors.New("choose exactly one: --wavelength or --wi"),
		)
	}

	if wavelengthSet {
		line, err := client.ResolveLine(ctx, flags.element, flags.wavelength)
		if err != nil {
			serviceutil.Fatal("failed to resolve wavelength", err)
		}
		return line
	}

	line, err := client.LineByIndex(ctx, flags.element, flags.wi)
	if err != nil {
		serviceutil.Fatal("failed to look up line index", err)
	}
	return line
}

// stdinValues returns os.Stdin when values are being piped in, nil on
// an interactive terminal.
func stdinValues() io.Reader {
	info, err := os.Stdin.Stat()
	if err != nil {
		return nil
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return nil
	}
	return os.Stdin
}

func runBatch(cmd *cobra.Command, mode batch.Mode) {
	ctx := cmd.Context()

	requireFlags(cmd, "element", "teff", "logg", "feh", "vt")
	config := loadConfig()

	tel, err := telemetry.SetupFromEnv(ctx, "abundatron")
	if err != nil {
		slog.Warn("telemetry setup failed, continuing without export", "err", err)
	}
	defer tel.Shutdown(context.Background())
	if tel.Enabled() {
		telemetry.InstrumentPerfStats(ctx)
	}

	values, err := batch.ReadValues(flags.values, flags.valuesFile, stdinValues())
	if err != nil {
		serviceutil.Fatal("failed to read input values", err)
	}

	client := newInspectClient(config)
	line := resolveLine(ctx, cmd, client)

	params := inspect.StellarParams{
		Teff: flags.teff,
		Logg: flags.logg,
		FeH:  flags.feh,
		Xi:   flags.vt,
	}

	var clip *batch.ParamRanges
	var paramNotes []string
	if flags.clip {
		ranges := batch.DefaultRanges()
		for element, bounds := range config.Ranges {
			ranges[element] = bounds
		}
		bounds, ok := ranges[flags.element]
		if !ok {
			slog.Warn("no parameter ranges known for element, clipping disabled", "element", flags.element)
		} else {
			clip = &bounds
			params, paramNotes = bounds.ClipParams(params)
			for _, note := range paramNotes {
				slog.Warn(note, "element", flags.element)
			}
		}
	}

	slog.Info(
		"starting batch",
		"mode", mode,
		"element", flags.element,
		"wi", line.Index,
		"wavelength_A", line.Wavelength,
		"teff", params.Teff,
		"logg", params.Logg,
		"feh", params.FeH,
		"vt", params.Xi,
		"inputs", len(values),
	)

	rows := batch.Run(ctx, client, batch.Job{
		Mode:    mode,
		Element: flags.element,
		Line:    line,
		Params:  params,
		Values:  values,
		Delay:   flags.sleep,
		Clip:    clip,
		Notes:   paramNotes,
	})

	writeOutput(rows)
}

func writeOutput(rows []batch.Row) {
	if flags.out == "" {
		err := batch.WriteCSV(os.Stdout, rows)
		if err != nil {
			serviceutil.Fatal("failed to write csv", err)
		}
		return
	}

	f, err := os.Create(flags.out)
	if err != nil {
		serviceutil.Fatal("failed to create output file", err)
	}
	defer f.Close()

	err = batch.WriteCSV(f, rows)
	if err != nil {
		serviceutil.Fatal("failed to write csv", err)
	}
	slog.Info("wrote csv", "rows", len(rows), "path", flags.out)

	if !flags.quiet {
		renderSummary(os.Stdout, rows)
	}
}
