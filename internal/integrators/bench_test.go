package integrators

import (
	"testing"

	"github.com/san-kum/freefall/internal/dynamo"
)

func benchmarkStep(b *testing.B, integ dynamo.Integrator) {
	dyn := &fall{}
	x := dynamo.State{100.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(dyn, x, 0, 0.001)
	}
}

func BenchmarkEuler(b *testing.B)  { benchmarkStep(b, NewEuler()) }
func BenchmarkRK4(b *testing.B)    { benchmarkStep(b, NewRK4()) }
func BenchmarkVerlet(b *testing.B) { benchmarkStep(b, NewVerlet()) }
