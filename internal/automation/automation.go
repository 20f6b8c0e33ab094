package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/freefall/internal/dynamo"
	"github.com/san-kum/freefall/internal/metrics"
	"github.com/san-kum/freefall/internal/physics"
	"github.com/san-kum/freefall/internal/sim"
)

// Batch is a scripted list of drops loaded from YAML.
type Batch struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        []BatchRun `yaml:"runs"`
}

// BatchRun is a single drop. Zero mass and samples take the defaults.
type BatchRun struct {
	Label   string  `yaml:"label"`
	Height  float64 `yaml:"height"`
	Mass    float64 `yaml:"mass"`
	Samples int     `yaml:"samples"`
}

func (r BatchRun) Scenario() dynamo.Scenario {
	mass := r.Mass
	if mass == 0 {
		mass = dynamo.DefaultMass
	}
	return dynamo.Scenario{Height: r.Height, Mass: mass}
}

func (r BatchRun) sampleCount() int {
	if r.Samples == 0 {
		return dynamo.DefaultSamples
	}
	return r.Samples
}

func (r BatchRun) name(i int) string {
	if r.Label != "" {
		return r.Label
	}
	return fmt.Sprintf("run-%d", i+1)
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBatch(data)
}

func ParseBatch(data []byte) (*Batch, error) {
	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	if len(batch.Runs) == 0 {
		return nil, fmt.Errorf("batch %q has no runs", batch.Name)
	}
	return &batch, nil
}

type BatchResult struct {
	Label       string
	Series      *dynamo.Series
	Diagnostics dynamo.Diagnostics
}

// Runner executes batches and sweeps with a shared evaluator.
type Runner struct {
	eval      *sim.Evaluator
	log       *slog.Logger
	tolerance float64
}

func NewRunner(eval *sim.Evaluator, log *slog.Logger, tolerance float64) *Runner {
	if tolerance <= 0 {
		tolerance = dynamo.ConservationTolerance
	}
	return &Runner{eval: eval, log: log, tolerance: tolerance}
}

// RunBatch samples every run in order. The first invalid run aborts the
// batch; results gathered so far are returned with the error.
func (r *Runner) RunBatch(ctx context.Context, batch *Batch) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(batch.Runs))

	for i, run := range batch.Runs {
		label := run.name(i)
		r.log.Info("batch run", "index", i+1, "total", len(batch.Runs), "label", label)

		series, err := r.eval.Sample(ctx, run.Scenario(), run.sampleCount())
		if err != nil {
			return results, fmt.Errorf("run %d (%s): %w", i+1, label, err)
		}

		results = append(results, BatchResult{
			Label:       label,
			Series:      series,
			Diagnostics: metrics.Analyze(series, r.tolerance),
		})
	}

	return results, nil
}

// Sweep drops the same mass from evenly spaced heights.
type Sweep struct {
	MinHeight float64
	MaxHeight float64
	Steps     int
	Mass      float64
	Samples   int
}

type SweepRow struct {
	Height        float64
	ImpactTime    float64
	ImpactSpeed   float64
	InitialEnergy float64
	RelativeDiff  float64
	Conserved     bool
}

func (s Sweep) validate() error {
	if err := dynamo.CheckPositive("min height", s.MinHeight); err != nil {
		return err
	}
	if err := dynamo.CheckPositive("max height", s.MaxHeight); err != nil {
		return err
	}
	if s.MaxHeight < s.MinHeight {
		return fmt.Errorf("max height %g below min height %g", s.MaxHeight, s.MinHeight)
	}
	if s.Steps < 2 {
		return fmt.Errorf("sweep needs at least 2 steps, got %d", s.Steps)
	}
	return nil
}

func (r *Runner) RunSweep(ctx context.Context, s Sweep) ([]SweepRow, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	mass := s.Mass
	if mass == 0 {
		mass = dynamo.DefaultMass
	}
	samples := s.Samples
	if samples == 0 {
		samples = dynamo.DefaultSamples
	}

	heights := floats.Span(make([]float64, s.Steps), s.MinHeight, s.MaxHeight)
	rows := make([]SweepRow, 0, s.Steps)

	for i, h := range heights {
		sc := dynamo.Scenario{Height: h, Mass: mass}
		series, err := r.eval.Sample(ctx, sc, samples)
		if err != nil {
			return rows, fmt.Errorf("sweep step %d (h=%g): %w", i+1, h, err)
		}
		diag := metrics.Analyze(series, r.tolerance)

		rows = append(rows, SweepRow{
			Height:        h,
			ImpactTime:    series.ImpactTime,
			ImpactSpeed:   physics.FromScenario(sc).ImpactSpeed(),
			InitialEnergy: diag.InitialEnergy,
			RelativeDiff:  diag.RelativeDiff,
			Conserved:     diag.Conserved,
		})
		r.log.Debug("sweep step", "index", i+1, "height", h)
	}

	return rows, nil
}
