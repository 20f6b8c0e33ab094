package dynamo

import (
	"fmt"
	"math"
)

const (
	// Gravity is the gravitational acceleration in m/s².
	Gravity = 9.8

	DefaultMass    = 1.0
	DefaultSamples = 500

	// ConservationTolerance is the relative difference, in percent, below
	// which initial and final mechanical energy are treated as equal.
	ConservationTolerance = 0.1

	// The figure's y axis reaches 1.4·Em(0) and charts subtract extremes.
	maxEnergyHeadroom = 4.0
)

// Scenario is the single input of a run.
type Scenario struct {
	Height float64 `json:"height" yaml:"height"`
	Mass   float64 `json:"mass" yaml:"mass"`
}

// Validate rejects non-positive inputs and scenarios whose energy m·g·h
// does not fit a float64 with headroom for plotting, or underflows to zero.
func (s Scenario) Validate() error {
	if err := CheckPositive("height", s.Height); err != nil {
		return err
	}
	if err := CheckPositive("mass", s.Mass); err != nil {
		return err
	}
	em := s.Mass * Gravity * s.Height
	if em == 0 || math.IsInf(em*maxEnergyHeadroom, 0) {
		return &InputError{Field: "energy m*g*h", Input: fmt.Sprintf("%g", em), Err: ErrRange}
	}
	return nil
}

func (s Scenario) String() string {
	return fmt.Sprintf("h=%.2fm m=%.2fkg", s.Height, s.Mass)
}

// CheckPositive returns a RangeError for values that are not finite and > 0.
func CheckPositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &InputError{Field: field, Input: fmt.Sprintf("%g", v), Err: ErrRange}
	}
	return nil
}

type Sample struct {
	T          float64 `json:"t"`
	Y          float64 `json:"y"`
	V          float64 `json:"v"`
	Kinetic    float64 `json:"ec"`
	Potential  float64 `json:"ep"`
	Mechanical float64 `json:"em"`
}

func (s Sample) IsValid() bool {
	for _, v := range [...]float64{s.T, s.Y, s.V, s.Kinetic, s.Potential, s.Mechanical} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Series is the fall sampled over [0, ImpactTime]. It is not modified after
// construction.
type Series struct {
	Scenario   Scenario `json:"scenario"`
	ImpactTime float64  `json:"impact_time"`
	Samples    []Sample `json:"samples"`
}

func (s *Series) Len() int { return len(s.Samples) }

func (s *Series) First() Sample { return s.Samples[0] }
func (s *Series) Last() Sample  { return s.Samples[len(s.Samples)-1] }

func (s *Series) column(f func(Sample) float64) []float64 {
	out := make([]float64, len(s.Samples))
	for i, sm := range s.Samples {
		out[i] = f(sm)
	}
	return out
}

func (s *Series) Times() []float64      { return s.column(func(x Sample) float64 { return x.T }) }
func (s *Series) Positions() []float64  { return s.column(func(x Sample) float64 { return x.Y }) }
func (s *Series) Velocities() []float64 { return s.column(func(x Sample) float64 { return x.V }) }
func (s *Series) Kinetic() []float64    { return s.column(func(x Sample) float64 { return x.Kinetic }) }
func (s *Series) Potential() []float64 {
	return s.column(func(x Sample) float64 { return x.Potential })
}
func (s *Series) Mechanical() []float64 {
	return s.column(func(x Sample) float64 { return x.Mechanical })
}

// Diagnostics summarizes the conservation check. Conserved is informational
// and never turned into an error.
type Diagnostics struct {
	InitialEnergy float64 `json:"initial_energy"`
	FinalEnergy   float64 `json:"final_energy"`
	RelativeDiff  float64 `json:"relative_diff_pct"`
	MaxDrift      float64 `json:"max_drift_pct"`
	Tolerance     float64 `json:"tolerance_pct"`
	Conserved     bool    `json:"conserved"`
}

// State is the ODE state of the falling body: [y, v].
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

// Grounded is implemented by systems with a terminal condition.
type Grounded interface {
	Landed(x State) bool
}

type Integrator interface {
	Step(dyn System, x State, t, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Config drives the numeric simulator.
type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.001,
		Duration:      60.0,
		ValidateState: true,
	}
}

type Result struct {
	States      []State
	Times       []float64
	Energies    []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Landed      bool
}
