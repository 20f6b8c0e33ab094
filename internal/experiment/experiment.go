package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/san-kum/freefall/internal/config"
	"github.com/san-kum/freefall/internal/dynamo"
	"github.com/san-kum/freefall/internal/export"
	"github.com/san-kum/freefall/internal/logging"
	"github.com/san-kum/freefall/internal/metrics"
	"github.com/san-kum/freefall/internal/sim"
	"github.com/san-kum/freefall/internal/storage"
	"github.com/san-kum/freefall/internal/viz"
)

// Options toggles the optional stages of a run. A nil Store skips archiving.
// Title is off for interactive runs, which print the banner before prompting.
type Options struct {
	Title       bool
	Scenario    dynamo.Scenario
	Samples     int
	Tolerance   float64
	OutputDir   string
	Format      string
	DPI         int
	SaveFigure  bool
	ShowChart   bool
	ChartWidth  int
	ChartHeight int
	Theme       viz.Theme
	Store       *storage.Store
}

func FromConfig(cfg *config.Config) Options {
	return Options{
		Title:      true,
		Scenario:   cfg.Scenario(),
		Samples:    cfg.Samples,
		Tolerance:  cfg.Tolerance,
		OutputDir:  cfg.OutputDir,
		Format:     cfg.Format,
		DPI:        cfg.DPI,
		SaveFigure: cfg.SaveFigure,
		ShowChart:  cfg.ShowChart,
		Theme:      viz.GetTheme(cfg.Theme),
	}
}

type Outcome struct {
	Series      *dynamo.Series
	Diagnostics dynamo.Diagnostics
	FigurePath  string
	RunID       string
}

type Experiment struct {
	opts Options
	eval *sim.Evaluator
	out  io.Writer
	log  *slog.Logger
}

func New(opts Options, out io.Writer, log *slog.Logger) *Experiment {
	if opts.Samples == 0 {
		opts.Samples = dynamo.DefaultSamples
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = dynamo.ConservationTolerance
	}
	if opts.Format == "" {
		opts.Format = config.DefaultFormat
	}
	if opts.DPI == 0 {
		opts.DPI = config.DefaultDPI
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Theme.Name == "" {
		opts.Theme = viz.ThemeMinimal
	}
	return &Experiment{opts: opts, eval: sim.NewEvaluator(), out: out, log: log}
}

// Run validates the scenario, samples it, prints the analysis and chart,
// then writes the figure and archives the run when enabled. Invalid input
// fails before anything is printed.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	o := e.opts
	if err := o.Scenario.Validate(); err != nil {
		return nil, err
	}

	series, err := e.eval.Sample(ctx, o.Scenario, o.Samples)
	if err != nil {
		return nil, err
	}
	e.log.Debug("sampled", "scenario", o.Scenario.String(), "samples", series.Len(), "impact_time", series.ImpactTime)

	out := &Outcome{
		Series:      series,
		Diagnostics: metrics.Analyze(series, o.Tolerance),
	}

	if o.Title {
		if err := viz.Title(e.out, o.Theme); err != nil {
			return out, err
		}
	}
	if err := viz.Report(e.out, series, out.Diagnostics, o.Theme); err != nil {
		return out, err
	}

	if o.ShowChart {
		fmt.Fprintf(e.out, "\n%s\n", viz.Chart(series, o.ChartWidth, o.ChartHeight, o.Theme))
	}

	if o.SaveFigure {
		path, err := export.SaveFigure(o.OutputDir, o.Format, o.DPI, series, out.Diagnostics)
		if err != nil {
			return out, logging.WrapError(err, "save figure")
		}
		out.FigurePath = path
		e.log.Info("figure written", "path", path, "dpi", o.DPI)
		if err := viz.FigureSaved(e.out, path, o.Theme); err != nil {
			return out, err
		}
	}

	if o.Store != nil {
		if err := o.Store.Init(); err != nil {
			return out, logging.WrapError(err, "archive %s", o.Scenario)
		}
		id, err := o.Store.Save(series, out.Diagnostics, out.FigurePath)
		if err != nil {
			return out, logging.WrapError(err, "archive %s", o.Scenario)
		}
		out.RunID = id
		e.log.Info("run archived", "id", id)
	}

	return out, viz.Notes(e.out, out.Diagnostics, o.Theme)
}
