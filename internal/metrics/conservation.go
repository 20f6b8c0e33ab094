package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/freefall/internal/dynamo"
)

// Analyze compares mechanical energy at t=0 and t=t_max. Differences are
// percentages of the initial energy. Conserved is RelativeDiff < tolerance.
func Analyze(series *dynamo.Series, tolerance float64) dynamo.Diagnostics {
	d := dynamo.Diagnostics{Tolerance: tolerance}
	if series == nil || series.Len() == 0 {
		return d
	}

	em := series.Mechanical()
	d.InitialEnergy = em[0]
	d.FinalEnergy = em[len(em)-1]

	if d.InitialEnergy != 0 {
		d.RelativeDiff = RelativeDiff(d.InitialEnergy, d.FinalEnergy)
		hi := math.Abs(floats.Max(em) - d.InitialEnergy)
		lo := math.Abs(floats.Min(em) - d.InitialEnergy)
		d.MaxDrift = math.Max(hi, lo) / math.Abs(d.InitialEnergy) * 100
	}

	d.Conserved = d.RelativeDiff < tolerance
	return d
}

// RelativeDiff is |final - initial| / initial × 100.
func RelativeDiff(initial, final float64) float64 {
	return math.Abs(final-initial) / math.Abs(initial) * 100
}
