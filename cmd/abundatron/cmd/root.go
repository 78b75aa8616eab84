package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"abundatron/lib/batch"
	"abundatron/lib/configutil"
	"abundatron/lib/serviceutil"
	"abundatron/lib/telemetry"

	"github.com/spf13/cobra"
)

// Config is the optional abundatron.json5 file, discovered from the
// working directory upwards. Flags beat config, config beats defaults.
type Config struct {
	BaseUrl   string `json:"base_url"`
	UserAgent string `json:"user_agent"`
	// per-element parameter bounds used by --clip, merged over the
	// built-in defaults
	Ranges batch.RangesConfig `json:"ranges"`
}

var flags struct {
	element    string
	teff       float64
	logg       float64
	feh        float64
	vt         float64
	wavelength float64
	wi         int

	values     string
	valuesFile string

	out     string
	sleep   time.Duration
	quiet   bool
	verbose bool
	clip    bool
	dumpDir string
}

var rootCmd = &cobra.Command{
	Use:   "abundatron",
	Short: "Batch client for the INSPECT stellar abundance calculators (EW <-> NLTE abundance).",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		switch {
		case flags.verbose:
			level = slog.LevelDebug
		case flags.quiet:
			level = slog.LevelWarn
		}
		telemetry.InitSlog(level)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.element, "element", "e", "", "element symbol as used by INSPECT (e.g. O, Li, Na)")
	pf.Float64Var(&flags.teff, "teff", 0, "effective temperature [K]")
	pf.Float64Var(&flags.logg, "logg", 0, "surface gravity log g [cgs]")
	pf.Float64Var(&flags.feh, "feh", 0, "metallicity [Fe/H]")
	pf.Float64Var(&flags.vt, "vt", 0, "microturbulence [km/s]")
	pf.Float64Var(&flags.wavelength, "wavelength", 0, "line wavelength [Å], exact match preferred, else nearest")
	pf.IntVar(&flags.wi, "wi", 0, "INSPECT line index, alternative to --wavelength")

	pf.StringVar(&flags.values, "values", "", "comma-separated input values, EW [mÅ] for ew, A(LTE) for lte")
	pf.StringVar(&flags.valuesFile, "values-file", "", "file with one value per line, first numeric token counts")

	pf.StringVar(&flags.out, "out", "", "output CSV path (default: stdout)")
	pf.DurationVar(&flags.sleep, "sleep", 200*time.Millisecond, "pause between requests, be polite")
	pf.BoolVar(&flags.quiet, "quiet", false, "suppress per-item progress logs")
	pf.BoolVar(&flags.verbose, "verbose", false, "debug logging, including per-request logs")
	pf.BoolVar(&flags.clip, "clip", false, "clamp out-of-range inputs to the calculator's parameter ranges")
	pf.StringVar(&flags.dumpDir, "dump-http", "", "directory to dump raw request/response pairs into")
}

func Execute() {
	if err := rootCmd.ExecuteContext(serviceutil.SignalContext()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() Config {
	config, err := configutil.Discover[Config]("abundatron.json5")
	if os.IsNotExist(err) {
		return Config{}
	}
	if err != nil {
		serviceutil.Fatal("failed to read abundatron.json5", err)
	}
	return config
}
