package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/freefall/internal/dynamo"
)

// Simulator integrates a dynamo.System step by step. It is used to check
// numeric steppers against the closed-form fall.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

// Run steps from x0 until Duration elapses or, for dynamo.Grounded systems,
// the body lands. The landing step is shortened so the last sample sits on
// the ground.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := s.validateConfig(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(math.Ceil(cfg.Duration / cfg.Dt))
	result := &dynamo.Result{
		States:   make([]dynamo.State, 0, steps+1),
		Times:    make([]float64, 0, steps+1),
		Energies: make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	grounded, _ := s.dyn.(dynamo.Grounded)

	x := x0.Clone()
	t := 0.0
	initialEnergy := s.computeEnergy(x)
	s.record(result, x, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		dt := math.Min(cfg.Dt, cfg.Duration-t)
		newX := s.integrator.Step(s.dyn, x, t, dt)

		if cfg.ValidateState && !newX.IsValid() {
			return result, fmt.Errorf("%w: %v", dynamo.ErrInvalidState,
				dynamo.SimError{Time: t, Step: i, Message: "non-finite state"})
		}

		if grounded != nil && grounded.Landed(newX) {
			newX, dt = landingStep(x, newX, dt)
			result.Landed = true
		}

		x = newX
		t += dt
		result.StepsTaken++
		s.record(result, x, t)

		if result.Landed {
			break
		}
	}

	finalEnergy := s.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) record(result *dynamo.Result, x dynamo.State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)
	result.Energies = append(result.Energies, s.computeEnergy(x))
}

// landingStep interpolates linearly between the last two states to the
// instant y crosses zero.
func landingStep(prev, next dynamo.State, dt float64) (dynamo.State, float64) {
	dy := prev[0] - next[0]
	if dy <= 0 {
		return next, dt
	}
	frac := prev[0] / dy
	out := make(dynamo.State, len(next))
	for i := range next {
		out[i] = prev[i] + frac*(next[i]-prev[i])
	}
	out[0] = 0
	return out, frac * dt
}

func (s *Simulator) validateConfig(x0 dynamo.State, cfg dynamo.Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("state has %d values, system expects %d", len(x0), s.dyn.StateDim())
	}
	return nil
}

func (s *Simulator) computeEnergy(x dynamo.State) float64 {
	if h, ok := s.dyn.(dynamo.Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}
