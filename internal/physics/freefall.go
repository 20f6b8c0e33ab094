package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/freefall/internal/dynamo"
)

// Position clamps at ground level so rounding at t == t_max never yields a
// negative height.
func Position(t, h float64) float64 {
	return math.Max(0, h-0.5*dynamo.Gravity*t*t)
}

func Velocity(t float64) float64 {
	return -dynamo.Gravity * t
}

func KineticEnergy(t, m float64) float64 {
	v := Velocity(t)
	return 0.5 * m * v * v
}

func PotentialEnergy(t, h, m float64) float64 {
	return m * dynamo.Gravity * Position(t, h)
}

func MechanicalEnergy(t, h, m float64) float64 {
	return KineticEnergy(t, m) + PotentialEnergy(t, h, m)
}

// ImpactTime is the positive root of Position(t, h) = 0.
func ImpactTime(h float64) float64 {
	return math.Sqrt(2 * h / dynamo.Gravity)
}

type FreeFall struct {
	Height  float64
	Mass    float64
	Gravity float64
}

func NewFreeFall(height, mass float64) *FreeFall {
	return &FreeFall{
		Height:  height,
		Mass:    mass,
		Gravity: dynamo.Gravity,
	}
}

func FromScenario(sc dynamo.Scenario) *FreeFall {
	return NewFreeFall(sc.Height, sc.Mass)
}

func (f *FreeFall) Position(t float64) float64 {
	return math.Max(0, f.Height-0.5*f.Gravity*t*t)
}

func (f *FreeFall) Velocity(t float64) float64 {
	return -f.Gravity * t
}

func (f *FreeFall) KineticEnergy(t float64) float64 {
	v := f.Velocity(t)
	return 0.5 * f.Mass * v * v
}

func (f *FreeFall) PotentialEnergy(t float64) float64 {
	return f.Mass * f.Gravity * f.Position(t)
}

func (f *FreeFall) MechanicalEnergy(t float64) float64 {
	return f.KineticEnergy(t) + f.PotentialEnergy(t)
}

func (f *FreeFall) ImpactTime() float64 {
	return math.Sqrt(2 * f.Height / f.Gravity)
}

// ImpactSpeed is |v(t_max)| = sqrt(2gh).
func (f *FreeFall) ImpactSpeed() float64 {
	return math.Sqrt(2 * f.Gravity * f.Height)
}

// At evaluates every quantity at t.
func (f *FreeFall) At(t float64) dynamo.Sample {
	ec := f.KineticEnergy(t)
	ep := f.PotentialEnergy(t)
	return dynamo.Sample{
		T:          t,
		Y:          f.Position(t),
		V:          f.Velocity(t),
		Kinetic:    ec,
		Potential:  ep,
		Mechanical: ec + ep,
	}
}

func (f *FreeFall) StateDim() int { return 2 }

// Derive returns d/dt [y, v] = [v, -g].
func (f *FreeFall) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -f.Gravity}
}

func (f *FreeFall) Energy(x dynamo.State) float64 {
	v := x[1]
	ke := 0.5 * f.Mass * v * v
	pe := f.Mass * f.Gravity * math.Max(0, x[0])
	return ke + pe
}

func (f *FreeFall) Landed(x dynamo.State) bool {
	return x[0] <= 0
}

// InitialState is the body at rest at the release height.
func (f *FreeFall) InitialState() dynamo.State {
	return dynamo.State{f.Height, 0}
}

func (f *FreeFall) GetParams() map[string]float64 {
	return map[string]float64{
		"height":  f.Height,
		"mass":    f.Mass,
		"gravity": f.Gravity,
	}
}

func (f *FreeFall) SetParam(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Errorf("%s=%g: %w", name, value, dynamo.ErrParameterBounds)
	}
	switch name {
	case "height":
		f.Height = value
	case "mass":
		f.Mass = value
	case "gravity":
		f.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
