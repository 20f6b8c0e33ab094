package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/freefall/internal/dynamo"
	"github.com/san-kum/freefall/internal/integrators"
	"github.com/san-kum/freefall/internal/metrics"
	"github.com/san-kum/freefall/internal/physics"
	"github.com/san-kum/freefall/internal/sim"
)

// Comparison is one numeric stepper measured against the closed-form fall.
type Comparison struct {
	Integrator      string
	Steps           int
	ImpactTime      float64
	ImpactTimeError float64
	ImpactSpeed     float64
	MaxEnergyDrift  float64
}

// Compare integrates the fall with each named stepper until landing. An
// empty names list compares every registered stepper.
func Compare(ctx context.Context, sc dynamo.Scenario, names []string, dt float64) ([]Comparison, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = integrators.Names()
	}

	out := make([]Comparison, 0, len(names))
	for _, name := range names {
		integ, err := integrators.Get(name)
		if err != nil {
			return nil, err
		}

		ff := physics.FromScenario(sc)
		s := sim.New(ff, integ)
		drift := metrics.NewEnergyDrift(ff)
		impact := metrics.NewImpactError(ff.ImpactTime())
		s.AddMetric(drift)
		s.AddMetric(impact)

		cfg := dynamo.DefaultConfig()
		cfg.Dt = dt
		// Long enough for any stepper to reach the ground.
		cfg.Duration = 2*ff.ImpactTime() + dt

		res, err := s.Run(ctx, ff.InitialState(), cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if !res.Landed {
			return nil, fmt.Errorf("%s: body did not land within %.3f s", name, cfg.Duration)
		}

		last := res.States[len(res.States)-1]
		out = append(out, Comparison{
			Integrator:      name,
			Steps:           res.StepsTaken,
			ImpactTime:      res.Times[len(res.Times)-1],
			ImpactTimeError: res.Metrics[impact.Name()],
			ImpactSpeed:     -last[1],
			MaxEnergyDrift:  res.Metrics[drift.Name()] * 100,
		})
	}

	return out, nil
}
