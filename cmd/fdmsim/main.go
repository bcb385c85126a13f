package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/logging"
	"github.com/san-kum/fdmsim/internal/xmldoc"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	rootDir    string
	outputDir  string
	logLevel   string
	integrator string
	dt         float64
	workers    int

	// ic / props
	advance  float64
	asJSON   bool
	query    string
	noTrim   bool
	manifest bool

	// analyze
	plot   bool
	height int
	width  int
)

// app is what every command shares once flags and config are resolved.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	cache  *xmldoc.Cache
	closer io.Closer
}

var current app

func main() {
	rootCmd := &cobra.Command{
		Use:               "fdmsim",
		Short:             "flight dynamics initial conditions, trim and stepping",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if current.closer != nil {
				return current.closer.Close()
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset step configuration")
	pf.StringVar(&rootDir, "root", "", "root directory holding aircraft/ and scripts/")
	pf.StringVar(&outputDir, "output-dir", "", "directory logs are written to")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&integrator, "integrator", "", "integrator (euler, rk4, rk45)")
	pf.Float64Var(&dt, "dt", 0, "step size in seconds")

	runCmd := &cobra.Command{
		Use:   "run [script]",
		Short: "run a script and write its logs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	runCmd.Flags().BoolVar(&manifest, "manifest", true, "write a run manifest next to the logs")

	icCmd := &cobra.Command{
		Use:   "ic [aircraft] [initfile]",
		Short: "apply initial conditions and report the resulting state",
		Args:  cobra.ExactArgs(2),
		RunE:  applyIC,
	}
	icCmd.Flags().Float64Var(&advance, "time", 0, "seconds to advance after initialization")
	icCmd.Flags().BoolVar(&noTrim, "no-trim", false, "ignore the trim request of the initfile")

	propsCmd := &cobra.Command{
		Use:   "props [aircraft] [initfile]",
		Short: "dump the property tree after initialization",
		Args:  cobra.ExactArgs(2),
		RunE:  dumpProps,
	}
	propsCmd.Flags().BoolVar(&asJSON, "json", false, "print as a flat JSON object ordered by path")
	propsCmd.Flags().StringVar(&query, "query", "", "only paths containing this string")
	propsCmd.Flags().Float64Var(&advance, "time", 0, "seconds to advance after initialization")

	checkCmd := &cobra.Command{
		Use:   "check [aircraft...]",
		Short: "load every aircraft and its first initfile",
		RunE:  checkAircraft,
	}
	checkCmd.Flags().IntVar(&workers, "workers", 0, "concurrent engines (0 uses config)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [log] [column...]",
		Short: "statistics and dominant period of logged columns",
		Args:  cobra.MinimumNArgs(1),
		RunE:  analyzeLog,
	}
	analyzeCmd.Flags().BoolVar(&plot, "plot", false, "plot each column")
	analyzeCmd.Flags().IntVar(&height, "height", 12, "plot height")
	analyzeCmd.Flags().IntVar(&width, "width", 72, "plot width")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list run manifests in the output directory",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list step presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Printf("  %-8s dt=%.6f integrator=%s\n", name, p.Dt, p.Integrator)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, icCmd, propsCmd, checkCmd, analyzeCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// setup resolves the configuration: defaults, then preset, then config file, then flags.
func setup(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.RootDir = rootDir
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	cache, err := xmldoc.NewCache(cfg.CacheSize)
	if err != nil {
		closer.Close()
		return err
	}
	current = app{cfg: cfg, logger: logger, cache: cache, closer: closer}
	return nil
}
