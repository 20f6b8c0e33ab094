package sim

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/freefall/internal/dynamo"
	"github.com/san-kum/freefall/internal/physics"
)

const ctxCheckEvery = 1024

// Evaluator samples the closed-form solution on a uniform grid.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Sample evaluates n evenly spaced instants over [0, t_max], both ends
// included.
func (e *Evaluator) Sample(ctx context.Context, sc dynamo.Scenario, n int) (*dynamo.Series, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, fmt.Errorf("%d samples: %w", n, dynamo.ErrTooFewSamples)
	}

	ff := physics.FromScenario(sc)
	tMax := ff.ImpactTime()
	times := floats.Span(make([]float64, n), 0, tMax)

	series := &dynamo.Series{
		Scenario:   sc,
		ImpactTime: tMax,
		Samples:    make([]dynamo.Sample, n),
	}

	for i, t := range times {
		if i%ctxCheckEvery == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		series.Samples[i] = ff.At(t)
	}

	return series, nil
}
