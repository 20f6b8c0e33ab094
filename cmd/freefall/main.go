package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/freefall/internal/automation"
	"github.com/san-kum/freefall/internal/config"
	"github.com/san-kum/freefall/internal/dynamo"
	"github.com/san-kum/freefall/internal/experiment"
	"github.com/san-kum/freefall/internal/export"
	"github.com/san-kum/freefall/internal/input"
	"github.com/san-kum/freefall/internal/logging"
	"github.com/san-kum/freefall/internal/physics"
	"github.com/san-kum/freefall/internal/sim"
	"github.com/san-kum/freefall/internal/storage"
	"github.com/san-kum/freefall/internal/viz"
)

var (
	dataDir  string
	logLevel string
	archive  bool

	height    float64
	mass      float64
	samples   int
	tolerance float64
	outDir    string
	format    string
	dpi       int
	noSave    bool
	noChart   bool
	theme     string
	dt        float64

	configFile string
	preset     string

	compareHeight float64

	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	outFile string

	logger = logging.Discard()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdin).ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err for the user. Rejected input gets a hint on what
// is accepted.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if dynamo.IsInputError(err) {
		fmt.Fprintln(w, "Height and mass must be positive numbers, and m*g*h must be a finite energy.")
	}
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "freefall",
		Short: "free-fall energy conservation lab",
		Long: "freefall evaluates the kinetic, potential and mechanical energy of a body\n" +
			"dropped from rest. With no command it asks for the height and mass.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(cmd.ErrOrStderr(), logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, stdin)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".freefall", "run archive directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&archive, "archive", false, "archive runs under the data directory")
	addOutputFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "evaluate a drop without prompting",
		Args:  cobra.NoArgs,
		RunE:  runDrop,
	}
	runCmd.Flags().Float64Var(&height, "height", 0, "initial height in meters")
	runCmd.Flags().Float64Var(&mass, "mass", dynamo.DefaultMass, "mass in kg")
	runCmd.Flags().IntVar(&samples, "samples", dynamo.DefaultSamples, "number of time samples")
	runCmd.Flags().Float64Var(&tolerance, "tolerance", dynamo.ConservationTolerance, "conservation tolerance in percent")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset drop")
	addOutputFlags(runCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset drops",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with the default settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the report and chart of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run samples and diagnostics to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate a drop in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&height, "height", 0, "initial height in meters")
	liveCmd.Flags().Float64Var(&mass, "mass", dynamo.DefaultMass, "mass in kg")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset drop")
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare numeric integrators against the closed-form fall",
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Float64Var(&compareHeight, "height", 10, "initial height in meters")
	compareCmd.Flags().Float64Var(&mass, "mass", dynamo.DefaultMass, "mass in kg")
	compareCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	compareCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml); supplies drop, dt and integrator")

	batchCmd := &cobra.Command{
		Use:   "batch [file.yaml]",
		Short: "run every drop listed in a batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "tabulate impact time and energy over a range of heights",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "smallest height in meters")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 100, "largest height in meters")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of heights")
	sweepCmd.Flags().Float64Var(&mass, "mass", dynamo.DefaultMass, "mass in kg")

	rootCmd.AddCommand(runCmd, presetsCmd, initConfigCmd, listCmd, showCmd, exportCSVCmd,
		exportJSONCmd, liveCmd, compareCmd, batchCmd, sweepCmd)

	return rootCmd
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&outDir, "out", ".", "directory for the figure")
	cmd.Flags().StringVar(&format, "format", config.DefaultFormat, "figure format (png, svg)")
	cmd.Flags().IntVar(&dpi, "dpi", config.DefaultDPI, "figure resolution")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the figure")
	cmd.Flags().BoolVar(&noChart, "no-chart", false, "do not print the terminal chart")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
}

// runInteractive prompts for the drop and stops at the first invalid answer.
func runInteractive(cmd *cobra.Command, stdin io.Reader) error {
	out := cmd.OutOrStdout()
	if err := viz.Title(out, viz.GetTheme(theme)); err != nil {
		return err
	}

	sc, err := input.NewPrompter(stdin, out).Scenario()
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Height, cfg.Mass = sc.Height, sc.Mass
	applyOutputFlags(cmd, cfg)
	return runPipeline(cmd, cfg, false)
}

func runDrop(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return runPipeline(cmd, cfg, true)
}

// resolveConfig layers the preset, then the config file, then any flag set
// on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("height") || (preset == "" && configFile == "") {
		cfg.Height = height
	}
	if flags.Changed("mass") {
		cfg.Mass = mass
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	applyOutputFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOutputFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.OutputDir = outDir
	}
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("dpi") {
		cfg.DPI = dpi
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if noSave {
		cfg.SaveFigure = false
	}
	if noChart {
		cfg.ShowChart = false
	}
}

// runPipeline runs the configured drop. titled is false when the banner
// was already printed.
func runPipeline(cmd *cobra.Command, cfg *config.Config, titled bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := experiment.FromConfig(cfg)
	opts.Title = titled
	if archive {
		opts.Store = storage.New(dataDir)
	}

	out, err := experiment.New(opts, cmd.OutOrStdout(), logger).Run(cmd.Context())
	if err != nil {
		return err
	}
	if out.RunID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\nrun id: %s\n", out.RunID)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tHEIGHT (m)\tMASS (kg)\tIMPACT (s)")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%g\t%g\t%.3f\n", name, p.Height, p.Mass, physics.ImpactTime(p.Height))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tHEIGHT\tMASS\tIMPACT\tREL DIFF %\tCONSERVED\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%g\t%g\t%.3f\t%.6f\t%v\t%s\n",
			r.ID,
			r.Scenario.Height,
			r.Scenario.Mass,
			r.ImpactTime,
			r.Diagnostics.RelativeDiff,
			r.Diagnostics.Conserved,
			r.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *dynamo.Series, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return meta, series, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	th := viz.GetTheme(theme)
	if err := viz.Report(out, series, meta.Diagnostics, th); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n", viz.Chart(series, 0, 0, th))
	if meta.Figure != "" {
		fmt.Fprintf(out, "figure: %s\n", meta.Figure)
	}
	return nil
}

// openOutput returns stdout when no file was requested.
func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, closeFn, err := openOutput(cmd)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(w, series); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, closeFn, err := openOutput(cmd)
	if err != nil {
		return err
	}
	if err := export.WriteJSON(w, series, meta.Diagnostics); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func runLive(cmd *cobra.Command, args []string) error {
	sc := dynamo.Scenario{Height: height, Mass: mass}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		sc = p.Scenario()
		if cmd.Flags().Changed("height") {
			sc.Height = height
		}
		if cmd.Flags().Changed("mass") {
			sc.Mass = mass
		}
	}
	return viz.RunLive(sc, viz.GetTheme(theme))
}

// compareConfig takes the drop, dt and integrator from the config file when
// one is given; flags set on the command line still win. Without explicit
// integrators a config file selects its own, otherwise all are compared.
func compareConfig(cmd *cobra.Command, args []string) (*config.Config, []string, error) {
	cfg := config.DefaultConfig()
	cfg.Height = compareHeight
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("height") {
		cfg.Height = compareHeight
	}
	if flags.Changed("mass") {
		cfg.Mass = mass
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	names := args
	if len(names) == 0 && configFile != "" {
		names = []string{cfg.Integrator}
	}
	return cfg, names, nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, names, err := compareConfig(cmd, args)
	if err != nil {
		return err
	}

	sc := cfg.Scenario()
	results, err := experiment.Compare(cmd.Context(), sc, names, cfg.Dt)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, dt=%g, analytic impact %.6f s\n\n", sc, cfg.Dt, physics.ImpactTime(sc.Height))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tIMPACT (s)\tIMPACT ERR (s)\tSPEED (m/s)\tMAX DRIFT %")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%.2e\t%.4f\t%.2e\n",
			r.Integrator, r.Steps, r.ImpactTime, r.ImpactTimeError, r.ImpactSpeed, r.MaxEnergyDrift)
	}
	return w.Flush()
}

func newRunner(log *slog.Logger) *automation.Runner {
	return automation.NewRunner(sim.NewEvaluator(), log, dynamo.ConservationTolerance)
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	results, err := newRunner(logger).RunBatch(cmd.Context(), batch)
	if err != nil {
		return err
	}

	var st *storage.Store
	if archive {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "batch %s: %d runs\n", batch.Name, len(results))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tHEIGHT\tMASS\tIMPACT (s)\tEm0 (J)\tREL DIFF %\tRUN ID")
	for _, r := range results {
		runID := "-"
		if st != nil {
			if runID, err = st.Save(r.Series, r.Diagnostics, ""); err != nil {
				return err
			}
		}
		sc := r.Series.Scenario
		fmt.Fprintf(w, "%s\t%g\t%g\t%.3f\t%.3f\t%.6f\t%s\n",
			r.Label, sc.Height, sc.Mass, r.Series.ImpactTime, r.Diagnostics.InitialEnergy, r.Diagnostics.RelativeDiff, runID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	rows, err := newRunner(logger).RunSweep(cmd.Context(), automation.Sweep{
		MinHeight: sweepMin,
		MaxHeight: sweepMax,
		Steps:     sweepSteps,
		Mass:      mass,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HEIGHT (m)\tIMPACT (s)\tSPEED (m/s)\tEm0 (J)\tREL DIFF %\tCONSERVED")
	for _, r := range rows {
		fmt.Fprintf(w, "%.3f\t%.4f\t%.4f\t%.3f\t%.6f\t%v\n",
			r.Height, r.ImpactTime, r.ImpactSpeed, r.InitialEnergy, r.RelativeDiff, r.Conserved)
	}
	return w.Flush()
}
