package metrics

import (
	"math"

	"github.com/san-kum/freefall/internal/dynamo"
)

// EnergyDrift tracks the largest relative deviation from the first observed
// energy, as a fraction.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	dyn           dynamo.System
}

func NewEnergyDrift(dyn dynamo.System) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		dyn:  dyn,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	h, ok := e.dyn.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	energy := h.Energy(x)
	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// ImpactError is |t_numeric - t_analytic| for the last recorded time.
type ImpactError struct {
	analytic float64
	last     float64
}

func NewImpactError(analytic float64) *ImpactError {
	return &ImpactError{analytic: analytic}
}

func (m *ImpactError) Name() string                      { return "impact_time_error" }
func (m *ImpactError) Observe(x dynamo.State, t float64) { m.last = t }
func (m *ImpactError) Value() float64                    { return math.Abs(m.last - m.analytic) }
func (m *ImpactError) Reset()                            { m.last = 0 }
